// Package project is the lifecycle layer over one board directory: project
// create/rename/delete, status column operations, task save/move/delete,
// and the one-shot legacy-to-indexed migration.
//
// Every operation is synchronous and assumes single-writer, single-process
// access. Multi-step mutations run to completion or report the step that
// failed; there is no rollback of earlier steps. When a later step fails
// after an earlier one changed the filesystem, a Partial* sentinel is
// returned so callers can tell "partially applied" from "nothing happened".
package project

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/calvinalkan/kanban/internal/board"
	"github.com/calvinalkan/kanban/internal/config"
	"github.com/calvinalkan/kanban/internal/index"
)

const (
	dirPerms = 0o750
)

// Sentinel errors callers branch on.
var (
	// ErrExists reports a create over an existing project directory.
	ErrExists = errors.New("project already exists")

	// ErrNotFound reports an operation on a missing project.
	ErrNotFound = errors.New("project not found")

	// ErrPartialRename reports a project rename whose directory move
	// succeeded but whose config update failed: the directory carries the
	// new name while the config still records the old one.
	ErrPartialRename = errors.New("project partially renamed")

	// ErrPartialMove reports a task move whose file rename succeeded but
	// whose metadata update failed: the file sits under the new status
	// while the index still records the old one.
	ErrPartialMove = errors.New("task partially moved")

	errStatusNotFound = errors.New("status not found")
	errTaskNotFound   = errors.New("task not found")
	errStatusNotEmpty = errors.New("status directory not empty")
)

// DefaultStatuses are the columns a fresh project starts with.
var DefaultStatuses = []struct{ ID, Label string }{
	{"todo", "Todo"},
	{"doing", "Doing"},
	{"done", "Done"},
}

// Project is one open board. The encoding is probed exactly once, at open
// or create; operations trust it rather than re-probing the filesystem.
type Project struct {
	Name   string
	Root   string
	Format board.Format
	Config config.Config

	idx index.Store
	log *slog.Logger
}

// Open loads the project at root. The encoding is decided here by index
// file presence and not revisited.
func Open(root string, log *slog.Logger) (*Project, error) {
	cfg, err := config.Load(root)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}

		return nil, err
	}

	idx := index.New(root)

	format := board.FormatLegacy
	if idx.Exists() {
		format = board.FormatIndexed
	}

	return &Project{
		Name:   cfg.Name,
		Root:   root,
		Format: format,
		Config: cfg,
		idx:    idx,
		log:    log,
	}, nil
}

// Create materializes a new project directory with the default status
// columns and a config file. It fails if the directory already exists.
func Create(root, name, created string, log *slog.Logger) (*Project, error) {
	_, err := os.Stat(root)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, root)
	}

	err = os.MkdirAll(root, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("create project directory: %w", err)
	}

	cfg := config.Config{Name: name, Created: created}

	for _, st := range DefaultStatuses {
		err = os.Mkdir(filepath.Join(root, st.ID), dirPerms)
		if err != nil {
			return nil, fmt.Errorf("create status directory %s: %w", st.ID, err)
		}

		cfg.AddStatus(st.ID, st.Label)
	}

	err = config.Save(root, cfg)
	if err != nil {
		return nil, err
	}

	return &Project{
		Name:   name,
		Root:   root,
		Format: board.FormatLegacy,
		Config: cfg,
		idx:    index.New(root),
		log:    log,
	}, nil
}

// Rename moves a project directory and updates the recorded name. The
// directory is renamed first; if the config update then fails the operation
// reports ErrPartialRename and leaves the directory under its new path.
func Rename(oldRoot, newRoot, newName string) error {
	_, err := os.Stat(oldRoot)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, oldRoot)
	}

	_, err = os.Stat(newRoot)
	if err == nil {
		return fmt.Errorf("%w: %s", ErrExists, newRoot)
	}

	err = os.Rename(oldRoot, newRoot)
	if err != nil {
		return fmt.Errorf("rename project directory: %w", err)
	}

	cfg, err := config.Load(newRoot)
	if err != nil {
		return fmt.Errorf("%w: directory renamed, config unreadable: %w", ErrPartialRename, err)
	}

	cfg.Name = newName

	err = config.Save(newRoot, cfg)
	if err != nil {
		return fmt.Errorf("%w: directory renamed, config stale: %w", ErrPartialRename, err)
	}

	return nil
}

// Delete removes a project directory recursively. It fails if the project
// does not exist.
func Delete(root string) error {
	_, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, root)
	}

	err = os.RemoveAll(root)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	return nil
}

// statusDir returns the directory backing a status column.
func (p *Project) statusDir(status string) string {
	return filepath.Join(p.Root, status)
}

// requireStatus checks the column is configured.
func (p *Project) requireStatus(status string) error {
	if !p.Config.HasStatus(status) {
		return fmt.Errorf("%w: %q", errStatusNotFound, status)
	}

	return nil
}
