package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-mirror/internal/models"
)

// StateWriter persists the sync state of one registry row
type StateWriter interface {
	UpdateSyncState(ctx context.Context, id string, state models.SyncState) error
}

// Updater records a verified sync against the target's registry row
type Updater struct {
	store  StateWriter
	logger *logrus.Logger
}

func NewUpdater(store StateWriter, logger *logrus.Logger) *Updater {
	return &Updater{store: store, logger: logger}
}

// Commit marks targetID synced at sha. Call it only after the push was verified.
func (u *Updater) Commit(ctx context.Context, targetID, sha string, authoredAt, syncedAt time.Time) error {
	state := models.SyncState{
		LastCommit:     sha,
		LastCommitDate: authoredAt.UTC(),
		LastSync:       syncedAt.UTC(),
		Status:         models.StatusSynced,
	}

	if err := u.store.UpdateSyncState(ctx, targetID, state); err != nil {
		return fmt.Errorf("update registry row %s: %w", targetID, err)
	}

	u.logger.WithFields(logrus.Fields{
		"repository_id": targetID,
		"last_commit":   sha,
	}).Info("Registry updated")
	return nil
}
