package github

import "time"

// Commit is the subset of GET /repos/{owner}/{repo}/commits/{ref} the verifier reads
type Commit struct {
	SHA     string        `json:"sha"`
	HTMLURL string        `json:"html_url"`
	Commit  CommitDetails `json:"commit"`
}

type CommitDetails struct {
	Message string     `json:"message"`
	Author  *Signature `json:"author"`
}

type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Date  time.Time `json:"date"`
}

// AuthoredAt returns the author date, or the zero time when GitHub omits it
func (c *Commit) AuthoredAt() time.Time {
	if c.Commit.Author == nil {
		return time.Time{}
	}
	return c.Commit.Author.Date
}

// RateLimitInfo holds the last rate limit headers seen from the API
type RateLimitInfo struct {
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}
