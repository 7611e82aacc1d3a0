package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-mirror/internal/credentials"
)

type Config struct {
	Port               string
	DBConnectionString string
	TokenEnvKey        string
	DBConnectRetries   int
	LogLevel           logrus.Level

	GitHub *GitHubConfig
	Mirror *MirrorConfig
}

// LoadEnvFile loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	retries, err := strconv.Atoi(getEnv("DB_CONNECT_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_RETRIES: %w", err)
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	github, err := loadGitHubConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DBConnectionString: getEnv("DB_CONNECTION_STRING", ""),
		TokenEnvKey:        getEnv("GITHUB_TOKEN_ENV", credentials.DefaultTokenEnvKey),
		DBConnectRetries:   retries,
		LogLevel:           level,
		GitHub:             github,
		Mirror:             loadMirrorConfig(),
	}, nil
}

// Validate checks the settings every database-backed command needs
func (c *Config) Validate() error {
	if c.DBConnectionString == "" {
		return fmt.Errorf("missing required configuration: DB_CONNECTION_STRING must be set")
	}
	if c.DBConnectRetries < 0 {
		return fmt.Errorf("DB_CONNECT_RETRIES must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationSeconds(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return time.Duration(seconds) * time.Second, nil
}
