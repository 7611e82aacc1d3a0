package credentials

import (
	"os"
	"strings"

	apperrors "github.com/Kamar-Folarin/repo-mirror/internal/errors"
)

// DefaultTokenEnvKey is the environment variable holding the GitHub token
const DefaultTokenEnvKey = "GITHUB_ACCESS_TOKEN"

// Provider yields the token used for one sync invocation
type Provider interface {
	Token() (string, error)
}

// EnvProvider reads the token from the environment on every call, so a rotated
// token is picked up by the next invocation without a restart.
type EnvProvider struct {
	Key string
}

func NewEnvProvider(key string) *EnvProvider {
	if key == "" {
		key = DefaultTokenEnvKey
	}
	return &EnvProvider{Key: key}
}

func (p *EnvProvider) Token() (string, error) {
	token := strings.TrimSpace(os.Getenv(p.Key))
	if token == "" {
		return "", apperrors.NewConfigurationError("GitHub token not configured", nil)
	}
	return token, nil
}
