package github

import (
	"fmt"
	"time"
)

// GitHubError wraps a failed request. StatusCode is 0 when no response arrived.
type GitHubError struct {
	StatusCode int
	Path       string
	Message    string
	Err        error
}

func (e *GitHubError) Error() string {
	msg := fmt.Sprintf("github %s: status %d: %s", e.Path, e.StatusCode, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GitHubError) Unwrap() error { return e.Err }

// RateLimitError is returned on 429, or 403 with an exhausted quota
type RateLimitError struct {
	RateLimitInfo
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("github rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return fmt.Sprintf("github rate limit exceeded (%d/%d remaining), resets at %s",
		e.Remaining, e.Limit, e.ResetTime.Format(time.RFC3339))
}

// ValidationError rejects a call before any request is made
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RepositoryNotFoundError is returned for a 404 on a repository path. GitHub
// also answers 404 when the token cannot see a private repository.
type RepositoryNotFoundError struct {
	Owner string
	Name  string
}

func (e *RepositoryNotFoundError) Error() string {
	return fmt.Sprintf("repository %s/%s not found or not visible to this token", e.Owner, e.Name)
}

func newRequestError(status int, path, message string, err error) error {
	return &GitHubError{StatusCode: status, Path: path, Message: message, Err: err}
}

func NewRepositoryNotFoundError(owner, name string) error {
	return &RepositoryNotFoundError{Owner: owner, Name: name}
}
