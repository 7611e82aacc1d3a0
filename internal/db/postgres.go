package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/Kamar-Folarin/repo-mirror/internal/errors"
	"github.com/Kamar-Folarin/repo-mirror/internal/models"
)

const repositoryColumns = `id, name, url, last_commit, last_commit_date, last_sync, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepository(row rowScanner) (*models.RepositoryRecord, error) {
	var repo models.RepositoryRecord
	var lastCommit sql.NullString
	var lastCommitDate, lastSync sql.NullTime

	if err := row.Scan(
		&repo.ID,
		&repo.Name,
		&repo.URL,
		&lastCommit,
		&lastCommitDate,
		&lastSync,
		&repo.Status,
		&repo.CreatedAt,
		&repo.UpdatedAt,
	); err != nil {
		return nil, err
	}

	repo.LastCommit = lastCommit.String
	if lastCommitDate.Valid {
		repo.LastCommitDate = &lastCommitDate.Time
	}
	if lastSync.Valid {
		repo.LastSync = &lastSync.Time
	}

	return &repo, nil
}

// GetRepository retrieves a registry row by id. A missing row is a *NotFoundError.
func (s *PostgresStore) GetRepository(ctx context.Context, id string) (*models.RepositoryRecord, error) {
	query := `SELECT ` + repositoryColumns + ` FROM repositories WHERE id = $1`

	repo, err := scanRepository(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewResourceNotFoundError("repository", id)
		}
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}

	return repo, nil
}

// ListRepositories retrieves all registry rows
func (s *PostgresStore) ListRepositories(ctx context.Context) ([]*models.RepositoryRecord, error) {
	query := `SELECT ` + repositoryColumns + ` FROM repositories ORDER BY name, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query repositories: %w", err)
	}
	defer rows.Close()

	repos := make([]*models.RepositoryRecord, 0)
	for rows.Next() {
		repo, err := scanRepository(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository row: %w", err)
		}
		repos = append(repos, repo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repository rows: %w", err)
	}

	return repos, nil
}

// SaveRepository upserts the id, name and url of a registry row. Sync state of
// an existing row is left alone.
func (s *PostgresStore) SaveRepository(ctx context.Context, repo *models.RepositoryRecord) error {
	status := repo.Status
	if status == "" {
		status = models.StatusPending
	}

	query := `
		INSERT INTO repositories (id, name, url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			url = EXCLUDED.url,
			updated_at = NOW()
		RETURNING status, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query, repo.ID, repo.Name, repo.URL, status).
		Scan(&repo.Status, &repo.CreatedAt, &repo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save repository %s: %w", repo.ID, err)
	}

	return nil
}

// UpdateSyncState writes the four sync fields of one row in a single statement
func (s *PostgresStore) UpdateSyncState(ctx context.Context, id string, state models.SyncState) error {
	query := `
		UPDATE repositories SET
			last_commit = $2,
			last_commit_date = $3,
			last_sync = $4,
			status = $5,
			updated_at = $6
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		id,
		state.LastCommit,
		nullTime(state.LastCommitDate),
		state.LastSync,
		state.Status,
		time.Now())
	if err != nil {
		return fmt.Errorf("failed to update sync state: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.NewResourceNotFoundError("repository", id)
	}

	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
