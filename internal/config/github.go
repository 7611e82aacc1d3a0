package config

import "time"

// GitHubConfig holds GitHub-specific configuration
type GitHubConfig struct {
	APIBaseURL     string
	RequestTimeout time.Duration
}

// DefaultGitHubConfig returns the default GitHub configuration
func DefaultGitHubConfig() *GitHubConfig {
	return &GitHubConfig{
		APIBaseURL:     "https://api.github.com",
		RequestTimeout: 30 * time.Second,
	}
}

func loadGitHubConfig() (*GitHubConfig, error) {
	cfg := DefaultGitHubConfig()
	cfg.APIBaseURL = getEnv("GITHUB_API_BASE_URL", cfg.APIBaseURL)

	timeout, err := getDurationSeconds("GITHUB_REQUEST_TIMEOUT_SECONDS", cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = timeout

	return cfg, nil
}
