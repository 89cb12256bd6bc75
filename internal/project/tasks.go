package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/kanban/internal/board"
)

const filePerms = 0o600

// SaveTask writes a task under its current status. The write is
// encoding-dependent: legacy rewrites the single task file; indexed updates
// the metadata entry first and then the body-only file. In both encodings a
// stale file at the task's previous path is removed after a successful
// write, and the task's Path is updated in place.
func (p *Project) SaveTask(task *board.Task) error {
	err := p.requireStatus(task.Status)
	if err != nil {
		return err
	}

	dir := p.statusDir(task.Status)

	err = os.MkdirAll(dir, dirPerms)
	if err != nil {
		return fmt.Errorf("create status directory: %w", err)
	}

	newPath := filepath.Join(dir, board.FileName(task.ID))

	if p.Format == board.FormatIndexed {
		err = p.idx.Put(task.Meta())
		if err != nil {
			return err
		}

		err = writeFile(newPath, task.Body)
	} else {
		err = writeFile(newPath, string(board.EncodeLegacy(*task)))
	}

	if err != nil {
		return fmt.Errorf("write task file: %w", err)
	}

	if task.Path != "" && task.Path != newPath {
		removeErr := os.Remove(task.Path)
		if removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("remove stale task file: %w", removeErr)
		}
	}

	task.Path = newPath

	return nil
}

// MoveTask renames a task's backing file into the destination status
// directory, creating the directory if absent. For the indexed encoding the
// metadata entry's status is updated afterwards; if that update fails the
// file has already moved and ErrPartialMove is returned rather than
// swallowed.
func (p *Project) MoveTask(task *board.Task, dest string) error {
	err := p.requireStatus(dest)
	if err != nil {
		return err
	}

	if task.Path == "" {
		return fmt.Errorf("%w: task %d has no backing file", errTaskNotFound, task.ID)
	}

	destDir := p.statusDir(dest)

	err = os.MkdirAll(destDir, dirPerms)
	if err != nil {
		return fmt.Errorf("create status directory: %w", err)
	}

	newPath := filepath.Join(destDir, filepath.Base(task.Path))

	err = os.Rename(task.Path, newPath)
	if err != nil {
		return fmt.Errorf("move task file: %w", err)
	}

	task.Path = newPath
	task.Status = dest

	if p.Format == board.FormatIndexed {
		err = p.updateIndexStatus(task.ID, dest)
		if err != nil {
			return fmt.Errorf("%w: file moved, index stale: %w", ErrPartialMove, err)
		}
	}

	return nil
}

func (p *Project) updateIndexStatus(id uint64, status string) error {
	entries, err := p.idx.Load()
	if err != nil {
		return err
	}

	key := board.Task{ID: id}.Key()

	meta, ok := entries[key]
	if !ok {
		return fmt.Errorf("%w: id %d not in index", errTaskNotFound, id)
	}

	meta.Status = status
	entries[key] = meta

	return p.idx.Save(entries)
}

// DeleteTask removes a task's backing file. Metadata cleanup in the indexed
// encoding is the caller's responsibility via RemoveFromIndex; loads are
// driven by directory listing, so a leftover entry is orphaned but
// harmless.
func (p *Project) DeleteTask(task board.Task) error {
	if task.Path == "" {
		return fmt.Errorf("%w: task %d has no backing file", errTaskNotFound, task.ID)
	}

	err := os.Remove(task.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", errTaskNotFound, task.Path)
		}

		return fmt.Errorf("delete task file: %w", err)
	}

	return nil
}

// RemoveFromIndex drops a task's metadata entry in the indexed encoding.
// A no-op for legacy projects and for absent entries.
func (p *Project) RemoveFromIndex(id uint64) error {
	if p.Format != board.FormatIndexed {
		return nil
	}

	return p.idx.Remove(id)
}

// LoadTasks reads every task in one status directory, sorted by order
// ascending with identifier tiebreak. A missing directory is an empty
// column.
func (p *Project) LoadTasks(status string) ([]board.Task, error) {
	dir := p.statusDir(status)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []board.Task{}, nil
		}

		return nil, fmt.Errorf("read status directory: %w", err)
	}

	var meta map[string]board.Metadata

	if p.Format == board.FormatIndexed {
		meta, err = p.idx.Load()
		if err != nil {
			return nil, err
		}
	}

	tasks := make([]board.Task, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
			continue
		}

		task, err := p.loadTaskFile(filepath.Join(dir, name), status, meta)
		if err != nil {
			return nil, err
		}

		tasks = append(tasks, task)
	}

	board.SortTasks(tasks)

	return tasks, nil
}

// LoadAll returns every task keyed by status, in config order.
func (p *Project) LoadAll() (map[string][]board.Task, error) {
	out := make(map[string][]board.Task, len(p.Config.Statuses.Order))

	for _, status := range p.Config.Statuses.Order {
		tasks, err := p.LoadTasks(status)
		if err != nil {
			return nil, err
		}

		out[status] = tasks
	}

	return out, nil
}

// loadTaskFile decodes one file according to the project encoding. In a
// legacy project a frontmatter-encoded file is parsed as such, and a
// frontmatter parse failure drops to best-effort recovery; only an
// unrecoverable file (non-numeric name) or a structural legacy failure
// surfaces an error.
func (p *Project) loadTaskFile(path, status string, meta map[string]board.Metadata) (board.Task, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from directory listing
	if err != nil {
		return board.Task{}, fmt.Errorf("read task file: %w", err)
	}

	name := filepath.Base(path)

	if p.Format == board.FormatIndexed {
		return indexedTask(name, path, status, data, meta), nil
	}

	var task board.Task

	if board.IsFrontmatter(data) {
		task, err = board.ParseFrontmatter(name, data)
		if err != nil {
			task, err = board.Recover(p.log, path, data, err)
		}
	} else {
		task, err = board.ParseLegacy(name, data)
	}

	if err != nil {
		return board.Task{}, fmt.Errorf("parse %s: %w", path, err)
	}

	task.Status = status
	task.Path = path

	return task, nil
}

// indexedTask joins a body-only file with its metadata entry. A file with
// no entry still surfaces as a task with synthesized metadata rather than
// disappearing.
func indexedTask(name, path, status string, body []byte, meta map[string]board.Metadata) board.Task {
	task := board.Task{
		Body:   string(body),
		Status: status,
		Path:   path,
	}

	id, ok := board.IDFromFileName(name)
	if !ok {
		id = 0
	}

	task.ID = id
	task.Order = board.DefaultOrder(id)
	task.Title = "Task " + board.Task{ID: id}.Key()

	entry, ok := meta[board.Task{ID: id}.Key()]
	if !ok {
		return task
	}

	task.Order = entry.Order
	task.Title = entry.Title
	task.Created = entry.Created
	task.Priority = entry.Priority
	task.Tags = entry.Tags

	return task
}

// NextID scans every non-hidden status subdirectory and returns one more
// than the highest identifier found, or 1 on an empty project.
func (p *Project) NextID() (uint64, error) {
	entries, err := os.ReadDir(p.Root)
	if err != nil {
		return 0, fmt.Errorf("read project directory: %w", err)
	}

	var maxID uint64

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		tasks, err := p.LoadTasks(entry.Name())
		if err != nil {
			return 0, err
		}

		for _, task := range tasks {
			if task.ID > maxID {
				maxID = task.ID
			}
		}
	}

	return maxID + 1, nil
}

func writeFile(path, content string) error {
	err := atomic.WriteFile(path, strings.NewReader(content))
	if err != nil {
		return err
	}

	err = os.Chmod(path, filePerms)
	if err != nil {
		return fmt.Errorf("set task file permissions: %w", err)
	}

	return nil
}
