package utils

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrInvalidURL indicates that the provided URL cannot be parsed
	ErrInvalidURL = errors.New("invalid URL format")

	// ErrInvalidHost indicates that the URL does not point at github.com
	ErrInvalidHost = errors.New("invalid GitHub host")

	// ErrInvalidPath indicates that the URL path has no owner/repo segment
	ErrInvalidPath = errors.New("invalid repository path")

	ownerRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	repoRegex  = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,100}$`)
)

const (
	gitSuffix   = ".git"
	httpsScheme = "https://"
)

// NormalizeRepoURL canonicalizes a repository URL: surrounding space, trailing
// slashes, a trailing .git, any query or fragment and any explicit port are removed, the scheme is
// forced to https and .git is appended. Normalizing twice yields the same URL.
func NormalizeRepoURL(rawURL string) (string, error) {
	u := strings.TrimSpace(rawURL)
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}

	u = strings.TrimRight(u, "/")
	u = strings.TrimSuffix(u, gitSuffix)
	u = strings.TrimRight(u, "/")
	u = stripPort(u)

	if u == "" {
		return "", fmt.Errorf("%w: empty repository URL %q", ErrInvalidURL, rawURL)
	}

	return httpsScheme + u + gitSuffix, nil
}

// stripPort removes a numeric port from the authority part of a scheme-less URL.
func stripPort(u string) string {
	host, rest := u, ""
	if i := strings.Index(u, "/"); i >= 0 {
		host, rest = u[:i], u[i:]
	}

	if i := strings.LastIndex(host, ":"); i >= 0 && isDigits(host[i+1:]) {
		host = host[:i]
	}

	return host + rest
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseGitHubURL parses a GitHub repository URL into owner and name components.
// It accepts github.com/<owner>/<repo>[.git] with or without a scheme. Any other
// host, or a path without both segments, is rejected.
func ParseGitHubURL(repoURL string) (owner, name string, err error) {
	raw := strings.TrimSpace(repoURL)
	if raw == "" {
		return "", "", fmt.Errorf("%w: empty repository URL", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = httpsScheme + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return "", "", fmt.Errorf("%w: %q is not github.com, only GitHub remotes are supported", ErrInvalidHost, u.Hostname())
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q must include owner and repository", ErrInvalidPath, repoURL)
	}

	owner = parts[0]
	name = strings.TrimSuffix(parts[1], gitSuffix)

	if !ownerRegex.MatchString(owner) {
		return "", "", fmt.Errorf("%w: invalid owner name %q", ErrInvalidPath, owner)
	}
	if name == "" || !repoRegex.MatchString(name) {
		return "", "", fmt.Errorf("%w: invalid repository name %q", ErrInvalidPath, parts[1])
	}

	return owner, name, nil
}

// IsValidGitHubURL reports whether repoURL parses as a GitHub repository URL
func IsValidGitHubURL(repoURL string) bool {
	_, _, err := ParseGitHubURL(repoURL)
	return err == nil
}
