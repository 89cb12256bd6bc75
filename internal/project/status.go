package project

import (
	"fmt"
	"os"

	"github.com/calvinalkan/kanban/internal/board"
	"github.com/calvinalkan/kanban/internal/config"
)

// AddStatus creates a new status column: directory plus config entry, in
// that order, followed by a config rewrite.
func (p *Project) AddStatus(id, label string) error {
	err := board.ValidateStatusName(id)
	if err != nil {
		return err
	}

	if p.Config.HasStatus(id) {
		return fmt.Errorf("%w: %q", ErrExists, id)
	}

	err = os.MkdirAll(p.statusDir(id), dirPerms)
	if err != nil {
		return fmt.Errorf("create status directory: %w", err)
	}

	p.Config.AddStatus(id, label)

	return p.saveConfig()
}

// RenameStatus renames the backing directory and cascades the config order
// and display-label entries to the new identifier.
func (p *Project) RenameStatus(from, to string) error {
	err := p.requireStatus(from)
	if err != nil {
		return err
	}

	err = board.ValidateStatusName(to)
	if err != nil {
		return err
	}

	if p.Config.HasStatus(to) {
		return fmt.Errorf("%w: %q", ErrExists, to)
	}

	err = os.Rename(p.statusDir(from), p.statusDir(to))
	if err != nil {
		return fmt.Errorf("rename status directory: %w", err)
	}

	err = p.Config.RenameStatus(from, to)
	if err != nil {
		return err
	}

	err = p.saveConfig()
	if err != nil {
		return err
	}

	if p.Format != board.FormatIndexed {
		return nil
	}

	// Indexed tasks record their status by identifier; rewrite the
	// affected entries so the index keeps matching the directory layout.
	entries, err := p.idx.Load()
	if err != nil {
		return err
	}

	changed := false

	for key, meta := range entries {
		if meta.Status == from {
			meta.Status = to
			entries[key] = meta
			changed = true
		}
	}

	if !changed {
		return nil
	}

	return p.idx.Save(entries)
}

// SetStatusLabel updates only the display label of a column; the directory
// name is untouched.
func (p *Project) SetStatusLabel(id, label string) error {
	err := p.requireStatus(id)
	if err != nil {
		return err
	}

	p.Config.SetLabel(id, label)

	return p.saveConfig()
}

// DeleteStatus removes a status column. When the column still holds tasks,
// a non-empty target relocates them first; with no target the delete fails
// rather than dropping tasks silently.
func (p *Project) DeleteStatus(id, target string) error {
	err := p.requireStatus(id)
	if err != nil {
		return err
	}

	tasks, err := p.LoadTasks(id)
	if err != nil {
		return err
	}

	if len(tasks) > 0 {
		if target == "" {
			return fmt.Errorf("%w: %q holds %d tasks", errStatusNotEmpty, id, len(tasks))
		}

		err = p.requireStatus(target)
		if err != nil {
			return err
		}

		for i := range tasks {
			err = p.MoveTask(&tasks[i], target)
			if err != nil {
				return err
			}
		}
	}

	err = os.RemoveAll(p.statusDir(id))
	if err != nil {
		return fmt.Errorf("remove status directory: %w", err)
	}

	err = p.Config.RemoveStatus(id)
	if err != nil {
		return err
	}

	return p.saveConfig()
}

// SwapStatus exchanges a column with its immediate neighbour in the given
// direction (-1 towards the front, +1 towards the back), clamped at the
// list bounds. A boundary swap is a no-op and reports false.
func (p *Project) SwapStatus(id string, direction int) (bool, error) {
	moved, err := p.Config.Swap(id, direction)
	if err != nil {
		return false, err
	}

	if !moved {
		return false, nil
	}

	return true, p.saveConfig()
}

// StatusDirsOnDisk lists non-hidden subdirectories of the project root.
// Directory listing order is not status order; this exists for consistency
// checks and migration scans.
func (p *Project) StatusDirsOnDisk() ([]string, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		return nil, fmt.Errorf("read project directory: %w", err)
	}

	dirs := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() && entry.Name() != "" && entry.Name()[0] != '.' {
			dirs = append(dirs, entry.Name())
		}
	}

	return dirs, nil
}

func (p *Project) saveConfig() error {
	return config.Save(p.Root, p.Config)
}
