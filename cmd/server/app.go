package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-mirror/internal/config"
	"github.com/Kamar-Folarin/repo-mirror/internal/credentials"
	"github.com/Kamar-Folarin/repo-mirror/internal/db"
	"github.com/Kamar-Folarin/repo-mirror/internal/fsys"
	"github.com/Kamar-Folarin/repo-mirror/internal/github"
	"github.com/Kamar-Folarin/repo-mirror/internal/mirror"
	"github.com/Kamar-Folarin/repo-mirror/internal/registry"
	"github.com/Kamar-Folarin/repo-mirror/internal/transport"
	"github.com/Kamar-Folarin/repo-mirror/internal/workspace"
)

const (
	connectInitialInterval = time.Second
	connectMaxInterval     = 10 * time.Second
)

// app holds the process-wide dependencies shared by all commands
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	store  *db.PostgresStore
}

func newLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(level)
	return logger
}

// bootstrap loads configuration, connects to the registry and applies migrations
func bootstrap(ctx context.Context, opts *rootOptions) (*app, error) {
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", opts.envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(cfg.LogLevel)

	store, err := connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, store: store}, nil
}

// connect opens the database and runs migrations, retrying both with exponential backoff
func connect(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*db.PostgresStore, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = connectInitialInterval
	bo.MaxInterval = connectMaxInterval

	var store *db.PostgresStore
	err := backoff.RetryNotify(func() error {
		s, err := db.NewPostgresStore(ctx, cfg.DBConnectionString)
		if err != nil {
			return err
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return err
		}
		store = s
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(cfg.DBConnectRetries)), ctx), func(err error, next time.Duration) {
		logger.WithError(err).WithField("retry_in", next.String()).Warn("Retrying database connection")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logger.Info("Database ready")
	return store, nil
}

// newMirrorService wires the sync pipeline against the registry store
func (a *app) newMirrorService() *mirror.Service {
	ghClient := github.NewGitHubClient(
		a.logger,
		github.WithBaseURL(a.cfg.GitHub.APIBaseURL),
		github.WithTimeout(a.cfg.GitHub.RequestTimeout),
	)

	workspaces := workspace.NewManager(fsys.NewOS(a.cfg.Mirror.WorkspaceRoot), a.cfg.Mirror.WorkspacePrefix, a.logger)

	return mirror.NewService(
		a.store,
		workspaces,
		transport.NewClient(a.logger),
		github.NewVerifier(ghClient, a.logger),
		registry.NewUpdater(a.store, a.logger),
		credentials.NewEnvProvider(a.cfg.TokenEnvKey),
		a.logger,
	)
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.WithError(err).Warn("Failed to close database")
	}
}
