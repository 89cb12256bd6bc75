// Package registry tracks local-scope projects: a JSON list of absolute
// paths to .kanban directories outside the shared data root.
//
// The file is read tolerantly (comments and trailing commas survive a hand
// edit) and pruned on every load: entries whose directory is gone or no
// longer holds a config file are dropped.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"

	"github.com/calvinalkan/kanban/internal/paths"
)

const filePerms = 0o600

// Load reads the registry, pruning stale entries. A missing file is an
// empty registry. Pruning is read-side only; the file is rewritten the next
// time Save runs.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path derives from the data root
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("read local project registry: %w", err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse local project registry %s: %w", path, err)
	}

	var entries []string

	err = json.Unmarshal(standardized, &entries)
	if err != nil {
		return nil, fmt.Errorf("parse local project registry %s: %w", path, err)
	}

	return prune(entries), nil
}

// prune drops entries whose path no longer exists or no longer contains a
// project config file.
func prune(entries []string) []string {
	kept := make([]string, 0, len(entries))

	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil || !info.IsDir() {
			continue
		}

		_, err = os.Stat(filepath.Join(entry, paths.ConfigFileName))
		if err != nil {
			continue
		}

		kept = append(kept, entry)
	}

	return kept
}

// Save rewrites the registry atomically.
func Save(path string, entries []string) error {
	if entries == nil {
		entries = []string{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal local project registry: %w", err)
	}

	err = atomic.WriteFile(path, strings.NewReader(string(data)+"\n"))
	if err != nil {
		return fmt.Errorf("write local project registry: %w", err)
	}

	err = os.Chmod(path, filePerms)
	if err != nil {
		return fmt.Errorf("set registry permissions: %w", err)
	}

	return nil
}

// Add records a local project root, deduplicating by absolute path.
func Add(path, projectRoot string) error {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	entries, err := Load(path)
	if err != nil {
		return err
	}

	if slices.Contains(entries, abs) {
		return nil
	}

	entries = append(entries, abs)

	return Save(path, entries)
}

// Remove drops a local project root if present.
func Remove(path, projectRoot string) error {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	entries, err := Load(path)
	if err != nil {
		return err
	}

	idx := slices.Index(entries, abs)
	if idx == -1 {
		return nil
	}

	entries = slices.Delete(entries, idx, idx+1)

	return Save(path, entries)
}
