// Package index is the metadata store for the indexed encoding: one
// tasks.toml per project mapping identifier-string to task metadata.
//
// The presence of the file is what marks a project as indexed, even when
// the mapping is empty. Reads of a missing file yield an empty mapping, not
// an error. Writes always rewrite the whole file; the store does no
// locking, so callers own their read-modify-write windows.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"

	"github.com/calvinalkan/kanban/internal/board"
	"github.com/calvinalkan/kanban/internal/paths"
)

const filePerms = 0o600

// Store reads and writes one project's metadata index.
type Store struct {
	path string
}

// New returns the store for a project directory.
func New(projectDir string) Store {
	return Store{path: filepath.Join(projectDir, paths.IndexFileName)}
}

// Path returns the index file location.
func (s Store) Path() string {
	return s.path
}

// Exists reports whether the index file is present, which selects the
// indexed encoding for the whole project.
func (s Store) Exists() bool {
	_, err := os.Stat(s.path)

	return err == nil
}

// Load reads the full mapping. A missing file is an empty mapping.
func (s Store) Load() (map[string]board.Metadata, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // path derives from the project root
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]board.Metadata{}, nil
		}

		return nil, fmt.Errorf("read task index: %w", err)
	}

	entries := map[string]board.Metadata{}

	err = toml.Unmarshal(data, &entries)
	if err != nil {
		return nil, fmt.Errorf("parse task index %s: %w", s.path, err)
	}

	return entries, nil
}

// Save rewrites the whole index atomically.
func (s Store) Save(entries map[string]board.Metadata) error {
	if entries == nil {
		entries = map[string]board.Metadata{}
	}

	data, err := toml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal task index: %w", err)
	}

	err = atomic.WriteFile(s.path, strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("write task index: %w", err)
	}

	err = os.Chmod(s.path, filePerms)
	if err != nil {
		return fmt.Errorf("set index permissions: %w", err)
	}

	return nil
}

// Put stores one entry, read-modify-write over the whole file.
func (s Store) Put(meta board.Metadata) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}

	entries[keyFor(meta.ID)] = meta

	return s.Save(entries)
}

// Remove deletes one entry if present. Removing an absent key is a no-op.
func (s Store) Remove(id uint64) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}

	key := keyFor(id)
	if _, ok := entries[key]; !ok {
		return nil
	}

	delete(entries, key)

	return s.Save(entries)
}

func keyFor(id uint64) string {
	return board.Task{ID: id}.Key()
}
