// Package board holds the task model and the three on-disk task encodings.
//
// A project stores tasks in one of two project-level encodings:
//
//   - legacy: one file per task, inline "key: value" metadata above the body
//   - indexed: task files hold only the body; metadata lives in tasks.toml
//
// A third file-level encoding, frontmatter (+++ fenced TOML), can appear in
// either kind of project and carries its own corruption-recovery path.
package board

import (
	"cmp"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Priority is the optional task priority. The zero value means unset.
type Priority string

// Priority values. PriorityNone is omitted from serialized output.
const (
	PriorityNone   Priority = ""
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority validates a priority string. An empty string is valid and
// means "no priority".
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityNone, PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), nil
	}

	return PriorityNone, fmt.Errorf("%w: %q", errInvalidPriority, s)
}

// OrderSpacing is the gap between default sort orders, leaving room to
// insert tasks between neighbours without renumbering.
const OrderSpacing = 1000

// DefaultOrder returns the sort order assigned when a task carries none.
func DefaultOrder(id uint64) int64 {
	return int64(id) * OrderSpacing
}

// Task is a unit of work on a board.
type Task struct {
	ID       uint64
	Order    int64
	Title    string
	Body     string
	Created  string // opaque creation stamp, never reinterpreted
	Priority Priority
	Tags     []string
	Status   string
	Path     string // current backing file; empty for unsaved tasks
}

// Metadata is the persisted subset of Task held in the metadata index.
// The body lives in a separate content file named by ID.
type Metadata struct {
	ID       uint64   `toml:"id"`
	Order    int64    `toml:"order"`
	Title    string   `toml:"title"`
	Status   string   `toml:"status"`
	Created  string   `toml:"created"`
	Priority Priority `toml:"priority,omitempty"`
	Tags     []string `toml:"tags"`
}

// Meta extracts the indexed-encoding metadata from a task.
func (t Task) Meta() Metadata {
	return Metadata{
		ID:       t.ID,
		Order:    t.Order,
		Title:    t.Title,
		Status:   t.Status,
		Created:  t.Created,
		Priority: t.Priority,
		Tags:     t.Tags,
	}
}

// Key returns the identifier-string key used by the metadata index.
func (t Task) Key() string {
	return strconv.FormatUint(t.ID, 10)
}

// FileName returns the canonical task file name for an identifier.
func FileName(id uint64) string {
	return strconv.FormatUint(id, 10) + ".md"
}

// SortTasks orders tasks by sort order ascending, ties broken by identifier.
func SortTasks(tasks []Task) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}

// ParseTags splits a comma-separated tag list, trimming each token and
// dropping empties. A tag containing a literal comma cannot be represented
// and splits; there is no escaping.
func ParseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))

	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

// FormatTags renders a tag set as a comma-separated list.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}

var statusNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// reservedStatusNames cannot be used as status identifiers because the
// engine claims them for its own bookkeeping inside a project directory.
var reservedStatusNames = []string{"tasks", "kanban"}

var (
	errInvalidStatusName = errors.New("invalid status name")
	errReservedStatus    = errors.New("reserved status name")
	errInvalidPriority   = errors.New("invalid priority")
)

// ValidateStatusName checks a status directory name: [A-Za-z0-9_-]+ and not
// reserved. The display label is unrestricted; only the identifier is.
func ValidateStatusName(name string) error {
	if !statusNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", errInvalidStatusName, name)
	}

	if slices.Contains(reservedStatusNames, name) {
		return fmt.Errorf("%w: %q", errReservedStatus, name)
	}

	return nil
}

// IDFromFileName derives a task identifier from a file name: the stem must
// be a pure number or carry a numeric prefix before the first '-'.
func IDFromFileName(name string) (uint64, bool) {
	stem := strings.TrimSuffix(name, ".md")

	if id, err := strconv.ParseUint(stem, 10, 64); err == nil {
		return id, true
	}

	prefix, _, found := strings.Cut(stem, "-")
	if !found {
		return 0, false
	}

	id, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}
