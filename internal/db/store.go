package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/Kamar-Folarin/repo-mirror/internal/models"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store defines the interface for registry operations
type Store interface {
	GetRepository(ctx context.Context, id string) (*models.RepositoryRecord, error)
	ListRepositories(ctx context.Context) ([]*models.RepositoryRecord, error)
	SaveRepository(ctx context.Context, repo *models.RepositoryRecord) error
	UpdateSyncState(ctx context.Context, id string, state models.SyncState) error
}

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens and pings the registry database
func NewPostgresStore(ctx context.Context, connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Migrate applies the embedded goose migrations
func (s *PostgresStore) Migrate() error {
	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
