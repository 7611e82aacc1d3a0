package db

import (
	"context"
	stderrors "errors"
	"os"
	"testing"
	"time"

	apperrors "github.com/Kamar-Folarin/repo-mirror/internal/errors"
	"github.com/Kamar-Folarin/repo-mirror/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	store, err := NewPostgresStore(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, store.Migrate())

	t.Cleanup(func() {
		_, err := store.db.Exec(`DELETE FROM repositories`)
		assert.NoError(t, err)
		store.Close()
	})

	return store
}

func TestPostgresStore_RepositoryOperations(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	t.Run("save and get repository", func(t *testing.T) {
		repo := &models.RepositoryRecord{ID: "src", Name: "widgets", URL: "https://github.com/acme/widgets"}
		require.NoError(t, store.SaveRepository(ctx, repo))
		assert.Equal(t, models.StatusPending, repo.Status)

		saved, err := store.GetRepository(ctx, "src")
		require.NoError(t, err)
		assert.Equal(t, repo.URL, saved.URL)
		assert.Equal(t, repo.Name, saved.Name)
		assert.Empty(t, saved.LastCommit)
		assert.Nil(t, saved.LastSync)
	})

	t.Run("upsert keeps sync state", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, store.UpdateSyncState(ctx, "src", models.SyncState{
			LastCommit:     "abc123",
			LastCommitDate: now.Add(-time.Hour),
			LastSync:       now,
			Status:         models.StatusSynced,
		}))

		require.NoError(t, store.SaveRepository(ctx, &models.RepositoryRecord{ID: "src", Name: "renamed", URL: "https://github.com/acme/widgets"}))

		saved, err := store.GetRepository(ctx, "src")
		require.NoError(t, err)
		assert.Equal(t, "renamed", saved.Name)
		assert.Equal(t, "abc123", saved.LastCommit)
		assert.Equal(t, models.StatusSynced, saved.Status)
		require.NotNil(t, saved.LastSync)
		assert.True(t, now.Equal(*saved.LastSync))
	})

	t.Run("list repositories", func(t *testing.T) {
		require.NoError(t, store.SaveRepository(ctx, &models.RepositoryRecord{ID: "dst", Name: "mirror", URL: "https://github.com/acme/mirror"}))

		repos, err := store.ListRepositories(ctx)
		require.NoError(t, err)
		assert.Len(t, repos, 2)
	})

	t.Run("missing repository", func(t *testing.T) {
		_, err := store.GetRepository(ctx, "nope")
		var notFound *apperrors.NotFoundError
		assert.True(t, stderrors.As(err, &notFound))

		err = store.UpdateSyncState(ctx, "nope", models.SyncState{Status: models.StatusSynced, LastSync: time.Now()})
		assert.True(t, stderrors.As(err, &notFound))
	})
}
