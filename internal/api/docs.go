package api

import (
	"time"

	"github.com/Kamar-Folarin/repo-mirror/internal/models"
)

// GitOperationRequest is the body of POST /git-operations
// @Description Mirror one registry repository onto another
type GitOperationRequest struct {
	// Operation kind, only "push" has an effect
	Type string `json:"type" example:"push"`
	// Registry id of the repository to clone
	SourceRepoID string `json:"sourceRepoId" example:"7d3c1a9e-source"`
	// Registry id of the repository to push to
	TargetRepoID string `json:"targetRepoId" example:"f1b2c3d4-target"`
	// normal, force or force-with-lease
	PushType string `json:"pushType" example:"normal" enums:"normal,force,force-with-lease"`
}

// GitOperationResponse is returned for every git operation, successful or not
// @Description Outcome of a git operation with its ordered log
type GitOperationResponse struct {
	Success   bool                 `json:"success" example:"true"`
	Logs      []models.LogEntry    `json:"logs"`
	Error     string               `json:"error,omitempty" example:"Push verification failed"`
	Details   *models.ErrorDetails `json:"details,omitempty"`
	Timestamp time.Time            `json:"timestamp" example:"2024-05-01T12:00:00Z"`
}

// Repository is a registry row
// @Description A repository known to the mirror registry
type Repository struct {
	ID             string     `json:"id" example:"f1b2c3d4-target"`
	Name           string     `json:"name" example:"widgets-mirror"`
	URL            string     `json:"url" example:"https://github.com/acme/widgets-mirror"`
	LastCommit     string     `json:"last_commit,omitempty" example:"0123456789abcdef0123456789abcdef01234567"`
	LastCommitDate *time.Time `json:"last_commit_date,omitempty" example:"2024-05-01T10:00:00Z"`
	LastSync       *time.Time `json:"last_sync,omitempty" example:"2024-05-01T12:00:00Z"`
	Status         string     `json:"status" example:"synced" enums:"pending,syncing,synced,failed"`
	CreatedAt      time.Time  `json:"created_at" example:"2024-03-20T00:00:00Z"`
	UpdatedAt      time.Time  `json:"updated_at" example:"2024-05-01T12:00:00Z"`
}

// ErrorResponse represents an error response
// @Description Error response from the API
type ErrorResponse struct {
	Error string `json:"error" example:"Repository not found"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
