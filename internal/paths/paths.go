// Package paths computes the fixed on-disk layout for kanban data.
//
// All boards live under a single data root:
//
//	<data-root>/projects/<name>/.kanban.toml
//	<data-root>/projects/<name>/<status>/<id>.md
//	<data-root>/local_projects.json
//	<data-root>/recovery.log
//
// Local-scope boards keep the same internal shape under <workdir>/.kanban.
// The resolver holds the root as an explicit value so tests can point it at
// a temp directory without touching the process environment.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File names shared by every project directory.
const (
	// ConfigFileName is the per-project config file.
	ConfigFileName = ".kanban.toml"

	// IndexFileName is the metadata index; its presence marks the indexed
	// encoding.
	IndexFileName = "tasks.toml"

	// LocalDirName is the directory holding a local-scope project.
	LocalDirName = ".kanban"

	registryFileName    = "local_projects.json"
	recoveryLogFileName = "recovery.log"

	dirPerms = 0o750
)

var errNoHome = errors.New("cannot resolve home directory")

// Resolver derives every path the engine touches from one data root.
type Resolver struct {
	DataRoot string
}

// Default resolves the data root from the environment:
// $XDG_DATA_HOME/kanban if set, otherwise ~/.local/share/kanban.
// An undiscoverable home directory is the engine's one fatal startup
// condition.
func Default() (Resolver, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return Resolver{DataRoot: filepath.Join(xdg, "kanban")}, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Resolver{}, fmt.Errorf("%w: %w", errNoHome, err)
	}

	return Resolver{DataRoot: filepath.Join(home, ".local", "share", "kanban")}, nil
}

// ProjectsRoot returns <data-root>/projects, creating the directory tree if
// it does not exist yet.
func (r Resolver) ProjectsRoot() (string, error) {
	root := filepath.Join(r.DataRoot, "projects")

	err := os.MkdirAll(root, dirPerms)
	if err != nil {
		return "", fmt.Errorf("create projects root: %w", err)
	}

	return root, nil
}

// ProjectRoot returns the directory for a named global project.
// It does not create or validate the directory.
func (r Resolver) ProjectRoot(name string) string {
	return filepath.Join(r.DataRoot, "projects", name)
}

// LocalRoot returns the project directory for a local-scope project rooted
// at workDir. At most one local project may occupy a working directory.
func LocalRoot(workDir string) string {
	return filepath.Join(workDir, LocalDirName)
}

// RegistryPath returns the path of the local project registry file.
func (r Resolver) RegistryPath() string {
	return filepath.Join(r.DataRoot, registryFileName)
}

// RecoveryLogPath returns the append-only diagnostic log written before any
// frontmatter recovery fallback.
func (r Resolver) RecoveryLogPath() string {
	return filepath.Join(r.DataRoot, recoveryLogFileName)
}
