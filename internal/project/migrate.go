package project

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/calvinalkan/kanban/internal/board"
)

// Migrate converts a legacy project to the indexed encoding. It reports
// whether a migration happened: an already-indexed project is a no-op and
// reports false.
//
// The scan covers the config's status order plus any task directory on disk
// the config does not know about, so no file is left behind in the legacy
// encoding. Every file is parsed with the legacy codec (frontmatter files
// fall back to the frontmatter codec, then recovery). With zero tasks an
// empty index is still written and the project still counts as migrated.
// Otherwise the whole index is persisted in one write, then each task's file
// is rewritten to body-only content and the original removed when its path
// differs.
//
// Each individual task either completes (index entry plus body file) or is
// left in its legacy state, but there is no cross-task atomicity: a crash
// mid-migration leaves some tasks migrated and others not.
func (p *Project) Migrate() (bool, error) {
	if p.idx.Exists() {
		return false, nil
	}

	statuses := slices.Clone(p.Config.Statuses.Order)

	onDisk, err := p.StatusDirsOnDisk()
	if err != nil {
		return false, fmt.Errorf("migrate: %w", err)
	}

	for _, dir := range onDisk {
		if !p.Config.HasStatus(dir) {
			statuses = append(statuses, dir)
		}
	}

	byStatus := make(map[string][]board.Task, len(statuses))
	total := 0

	for _, status := range statuses {
		tasks, err := p.LoadTasks(status)
		if err != nil {
			return false, fmt.Errorf("migrate: %w", err)
		}

		byStatus[status] = tasks
		total += len(tasks)
	}

	if total == 0 {
		err := p.idx.Save(nil)
		if err != nil {
			return false, fmt.Errorf("migrate: %w", err)
		}

		p.Format = board.FormatIndexed

		return true, nil
	}

	entries := make(map[string]board.Metadata, total)

	for _, tasks := range byStatus {
		for _, task := range tasks {
			entries[task.Key()] = task.Meta()
		}
	}

	err = p.idx.Save(entries)
	if err != nil {
		return false, fmt.Errorf("migrate: %w", err)
	}

	for status, tasks := range byStatus {
		for _, task := range tasks {
			err = p.rewriteBodyOnly(task, status)
			if err != nil {
				return false, fmt.Errorf("migrate task %d: %w", task.ID, err)
			}
		}
	}

	p.Format = board.FormatIndexed

	return true, nil
}

// rewriteBodyOnly replaces a task's legacy file with a body-only file at
// the canonical path, deleting the old file when the path changed (a legacy
// file may carry a slug suffix like 3-fix-login.md).
func (p *Project) rewriteBodyOnly(task board.Task, status string) error {
	newPath := filepath.Join(p.statusDir(status), board.FileName(task.ID))

	err := writeFile(newPath, task.Body)
	if err != nil {
		return fmt.Errorf("write body file: %w", err)
	}

	if task.Path != "" && task.Path != newPath {
		err = os.Remove(task.Path)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove legacy file: %w", err)
		}
	}

	return nil
}
