package config

import "os"

// MirrorConfig holds workspace settings for sync invocations
type MirrorConfig struct {
	WorkspaceRoot   string
	WorkspacePrefix string
}

// DefaultMirrorConfig returns the default mirror configuration
func DefaultMirrorConfig() *MirrorConfig {
	return &MirrorConfig{
		WorkspaceRoot:   os.TempDir(),
		WorkspacePrefix: "repo-mirror-",
	}
}

func loadMirrorConfig() *MirrorConfig {
	cfg := DefaultMirrorConfig()
	cfg.WorkspaceRoot = getEnv("WORKSPACE_ROOT", cfg.WorkspaceRoot)
	cfg.WorkspacePrefix = getEnv("WORKSPACE_PREFIX", cfg.WorkspacePrefix)
	return cfg
}
