package models

import "time"

// OperationType is the kind of operation requested
type OperationType string

const OperationPush OperationType = "push"

// PushType selects how the target ref is updated
type PushType string

const (
	PushNormal         PushType = "normal"
	PushForce          PushType = "force"
	PushForceWithLease PushType = "force-with-lease"
)

// Valid reports whether p is a supported push type. Empty means normal.
func (p PushType) Valid() bool {
	switch p {
	case "", PushNormal, PushForce, PushForceWithLease:
		return true
	}
	return false
}

// Forced reports whether the push overwrites the target unconditionally.
// force-with-lease is accepted but carries no lease check.
func (p PushType) Forced() bool {
	return p == PushForce || p == PushForceWithLease
}

// SyncRequest is the body of a git operation request
type SyncRequest struct {
	Type         OperationType `json:"type"`
	SourceRepoID string        `json:"sourceRepoId"`
	TargetRepoID string        `json:"targetRepoId"`
	PushType     PushType      `json:"pushType"`
}

// LogType is the kind of a sync log entry
type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogError   LogType = "error"
)

// LogEntry is one line of the audit trail returned with every result
type LogEntry struct {
	Type      LogType   `json:"type"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorDetails describes the error that ended a failed sync
type ErrorDetails struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack"`
}

// SyncResult is the outcome of one invocation
type SyncResult struct {
	Success   bool          `json:"success"`
	Logs      []LogEntry    `json:"logs"`
	Error     string        `json:"error,omitempty"`
	Details   *ErrorDetails `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}
