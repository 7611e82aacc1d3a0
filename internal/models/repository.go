package models

import "time"

// RepositoryStatus is the sync state of a registry row
type RepositoryStatus string

const (
	StatusPending RepositoryStatus = "pending"
	StatusSyncing RepositoryStatus = "syncing"
	StatusSynced  RepositoryStatus = "synced"
	StatusFailed  RepositoryStatus = "failed"
)

// Valid reports whether s is one of the known statuses
func (s RepositoryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSyncing, StatusSynced, StatusFailed:
		return true
	}
	return false
}

// RepositoryRecord is a row of the repository registry
type RepositoryRecord struct {
	ID             string           `json:"id" yaml:"id"`
	Name           string           `json:"name" yaml:"name"`
	URL            string           `json:"url" yaml:"url"`
	LastCommit     string           `json:"last_commit,omitempty" yaml:"-"`
	LastCommitDate *time.Time       `json:"last_commit_date,omitempty" yaml:"-"`
	LastSync       *time.Time       `json:"last_sync,omitempty" yaml:"-"`
	Status         RepositoryStatus `json:"status" yaml:"-"`
	CreatedAt      time.Time        `json:"created_at" yaml:"-"`
	UpdatedAt      time.Time        `json:"updated_at" yaml:"-"`
}

// SyncState holds the fields written to a target row after a verified sync
type SyncState struct {
	LastCommit     string
	LastCommitDate time.Time
	LastSync       time.Time
	Status         RepositoryStatus
}
