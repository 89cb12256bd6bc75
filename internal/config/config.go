// Package config reads and writes the per-project .kanban.toml file.
//
// The config records the project name, its creation stamp, and the status
// columns: an explicit ordered list of status identifiers plus a display
// label per identifier. Directory listing order is never authoritative for
// status order; this file is.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/pelletier/go-toml/v2"

	"github.com/calvinalkan/kanban/internal/paths"
)

const filePerms = 0o600

var (
	// ErrNotFound reports a project directory with no config file.
	ErrNotFound = errors.New("project config not found")

	errStatusUnknown = errors.New("status not in config")
)

// Statuses holds the ordered status columns.
type Statuses struct {
	// Order lists status identifiers in display order.
	Order []string `toml:"order"`

	// Labels maps a status identifier to its display label. A missing
	// entry means the identifier doubles as the label.
	Labels map[string]string `toml:"labels"`
}

// Config is the persisted project configuration.
type Config struct {
	Name     string   `toml:"name"`
	Created  string   `toml:"created"`
	Statuses Statuses `toml:"statuses"`
}

// Label returns the display label for a status identifier.
func (c Config) Label(status string) string {
	if label, ok := c.Statuses.Labels[status]; ok && label != "" {
		return label
	}

	return status
}

// SetLabel records a display label for a status identifier.
func (c *Config) SetLabel(status, label string) {
	if c.Statuses.Labels == nil {
		c.Statuses.Labels = make(map[string]string)
	}

	c.Statuses.Labels[status] = label
}

// HasStatus reports whether the identifier is one of the configured columns.
func (c Config) HasStatus(status string) bool {
	for _, id := range c.Statuses.Order {
		if id == status {
			return true
		}
	}

	return false
}

// AddStatus appends a status identifier to the order, with an optional
// display label.
func (c *Config) AddStatus(status, label string) {
	c.Statuses.Order = append(c.Statuses.Order, status)

	if label != "" {
		c.SetLabel(status, label)
	}
}

// RenameStatus rewrites an identifier in the order and carries its label
// over to the new name.
func (c *Config) RenameStatus(from, to string) error {
	for idx, id := range c.Statuses.Order {
		if id != from {
			continue
		}

		c.Statuses.Order[idx] = to

		if label, ok := c.Statuses.Labels[from]; ok {
			delete(c.Statuses.Labels, from)
			c.SetLabel(to, label)
		}

		return nil
	}

	return fmt.Errorf("%w: %q", errStatusUnknown, from)
}

// RemoveStatus drops an identifier from the order and its label entry.
func (c *Config) RemoveStatus(status string) error {
	for idx, id := range c.Statuses.Order {
		if id != status {
			continue
		}

		c.Statuses.Order = append(c.Statuses.Order[:idx], c.Statuses.Order[idx+1:]...)
		delete(c.Statuses.Labels, status)

		return nil
	}

	return fmt.Errorf("%w: %q", errStatusUnknown, status)
}

// Swap exchanges a status with its neighbour. direction is -1 (towards the
// front) or +1 (towards the back); at a list boundary the call is a no-op.
// It reports whether the order changed.
func (c *Config) Swap(status string, direction int) (bool, error) {
	for idx, id := range c.Statuses.Order {
		if id != status {
			continue
		}

		other := idx + direction
		if other < 0 || other >= len(c.Statuses.Order) {
			return false, nil
		}

		c.Statuses.Order[idx], c.Statuses.Order[other] = c.Statuses.Order[other], c.Statuses.Order[idx]

		return true, nil
	}

	return false, fmt.Errorf("%w: %q", errStatusUnknown, status)
}

// Load reads the config file from a project directory.
func Load(projectDir string) (Config, error) {
	path := filepath.Join(projectDir, paths.ConfigFileName)

	data, err := os.ReadFile(path) //nolint:gosec // path derives from the project root
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return Config{}, fmt.Errorf("read project config: %w", err)
	}

	var cfg Config

	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse project config %s: %w", path, err)
	}

	return cfg, nil
}

// Save rewrites the whole config file atomically.
func Save(projectDir string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal project config: %w", err)
	}

	path := filepath.Join(projectDir, paths.ConfigFileName)

	err = atomic.WriteFile(path, strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("write project config: %w", err)
	}

	err = os.Chmod(path, filePerms)
	if err != nil {
		return fmt.Errorf("set config permissions: %w", err)
	}

	return nil
}
