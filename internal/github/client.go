package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	DefaultAPIBaseURL = "https://api.github.com"
	defaultTimeout    = 30 * time.Second
)

// GitHubClient reads from the GitHub REST API. The token is supplied per call
// so one client can serve invocations that read credentials independently.
type GitHubClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger

	mu            sync.Mutex
	rateLimitInfo RateLimitInfo
}

// ClientOption allows configuring the GitHub client
type ClientOption func(*GitHubClient)

// WithBaseURL points the client at another API root, e.g. GitHub Enterprise or a test server
func WithBaseURL(baseURL string) ClientOption {
	return func(c *GitHubClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the underlying transport client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *GitHubClient) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *GitHubClient) {
		c.httpClient.Timeout = timeout
	}
}

func NewGitHubClient(logger *logrus.Logger, opts ...ClientOption) *GitHubClient {
	client := &GitHubClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    DefaultAPIBaseURL,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// authorized wraps the base client with a bearer token for one call
func (c *GitHubClient) authorized(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client.Timeout = c.httpClient.Timeout
	return client
}

func (c *GitHubClient) updateRateLimitInfo(resp *http.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if limit := resp.Header.Get("X-RateLimit-Limit"); limit != "" {
		c.rateLimitInfo.Limit, _ = strconv.Atoi(limit)
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		c.rateLimitInfo.Remaining, _ = strconv.Atoi(remaining)
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if resetTime, err := strconv.ParseInt(reset, 10, 64); err == nil {
			c.rateLimitInfo.ResetTime = time.Unix(resetTime, 0)
		}
	}
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.ParseInt(retryAfter, 10, 64); err == nil {
			c.rateLimitInfo.RetryAfter = time.Duration(seconds) * time.Second
		}
	}
}

// RateLimit returns the rate limit state from the most recent response
func (c *GitHubClient) RateLimit() RateLimitInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rateLimitInfo
}

func (c *GitHubClient) get(ctx context.Context, token, path string, result interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.authorized(ctx, token).Do(req)
	if err != nil {
		return 0, newRequestError(0, path, "request failed", err)
	}
	defer resp.Body.Close()

	c.updateRateLimitInfo(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, newRequestError(resp.StatusCode, path, "failed to read response body", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0") {
		info := c.RateLimit()
		c.logger.WithField("reset", info.ResetTime).Warn("GitHub API rate limit exceeded")
		return resp.StatusCode, &RateLimitError{RateLimitInfo: info}
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, newRequestError(resp.StatusCode, path, strings.TrimSpace(string(body)), nil)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return resp.StatusCode, newRequestError(resp.StatusCode, path, "failed to decode response", err)
		}
	}

	return resp.StatusCode, nil
}

// GetCommit fetches the commit that ref resolves to in owner/name
func (c *GitHubClient) GetCommit(ctx context.Context, owner, name, ref, token string) (*Commit, error) {
	if owner == "" {
		return nil, &ValidationError{Field: "owner", Reason: "cannot be empty"}
	}
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if ref == "" {
		ref = "HEAD"
	}

	path := fmt.Sprintf("/repos/%s/%s/commits/%s", url.PathEscape(owner), url.PathEscape(name), url.PathEscape(ref))

	logger := c.logger.WithFields(logrus.Fields{"owner": owner, "repo": name, "ref": ref})
	logger.Debug("Fetching commit from GitHub API")

	var commit Commit
	status, err := c.get(ctx, token, path, &commit)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, NewRepositoryNotFoundError(owner, name)
		}
		logger.WithError(err).Warn("Failed to fetch commit")
		return nil, err
	}

	return &commit, nil
}
