package workspace

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/Kamar-Folarin/repo-mirror/internal/fsys"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const sourceDir = "source"

// Workspace is a scratch directory owned by a single sync invocation
type Workspace struct {
	// Name is the directory name relative to the manager root
	Name string
	// Path is the absolute location of the workspace
	Path string
	// Source is the clone destination, rooted at <workspace>/source
	Source fsys.FS
}

// Manager allocates and removes workspaces under one root
type Manager struct {
	fs     fsys.FS
	prefix string
	logger *logrus.Logger
}

// NewManager creates a manager over fs. Workspace names are prefix followed by a uuid.
func NewManager(fs fsys.FS, prefix string, logger *logrus.Logger) *Manager {
	return &Manager{fs: fs, prefix: prefix, logger: logger}
}

// Create allocates a fresh uniquely named workspace with an empty source directory
func (m *Manager) Create() (*Workspace, error) {
	name := m.prefix + uuid.NewString()
	src := path.Join(name, sourceDir)

	if err := m.fs.MkdirAll(src, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", name, err)
	}

	source, err := m.fs.Chroot(src)
	if err != nil {
		_ = fsys.RemoveAll(m.fs, name)
		return nil, fmt.Errorf("failed to open workspace %s: %w", name, err)
	}

	ws := &Workspace{
		Name:   name,
		Path:   filepath.Join(m.fs.Root(), name),
		Source: source,
	}

	m.logger.WithField("workspace", ws.Path).Debug("Created workspace")
	return ws, nil
}

// Cleanup recursively removes the workspace. Removing an already-removed workspace succeeds.
func (m *Manager) Cleanup(ws *Workspace) error {
	if ws == nil {
		return nil
	}

	if err := fsys.RemoveAll(m.fs, ws.Name); err != nil {
		return fmt.Errorf("failed to remove workspace %s: %w", ws.Path, err)
	}

	m.logger.WithField("workspace", ws.Path).Debug("Removed workspace")
	return nil
}

// Exists reports whether the workspace directory is still present
func (m *Manager) Exists(ws *Workspace) (bool, error) {
	return fsys.Exists(m.fs, ws.Name)
}
