package board

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Frontmatter encoding: a +++ fenced TOML block, then the title, then the
// body.
//
//	+++
//	id = 1
//	order = 1000
//	created = "1234567890"
//	priority = "high"
//	tags = ["feature", "urgent"]
//	+++
//
//	# Task title
//
//	Body text...
//
// After the closing fence, the first non-blank line beginning "# " (not
// itself "# +++") is the title; everything after it is body.

const frontmatterFence = "+++"

var (
	errNoFrontmatter       = errors.New("frontmatter: missing opening fence")
	errUnclosedFrontmatter = errors.New("frontmatter: missing closing fence")
	errFrontmatterNoID     = errors.New("frontmatter: missing id field")
)

// IsFrontmatter reports whether a task file starts with a frontmatter fence.
func IsFrontmatter(src []byte) bool {
	return bytes.HasPrefix(src, []byte(frontmatterFence))
}

// frontmatterMeta is the TOML payload inside the fences. Pointer fields
// distinguish absent keys from zero values.
type frontmatterMeta struct {
	ID       *uint64  `toml:"id"`
	Order    *int64   `toml:"order"`
	Created  string   `toml:"created"`
	Priority string   `toml:"priority,omitempty"`
	Tags     []string `toml:"tags"`
}

// ParseFrontmatter decodes a frontmatter-encoded task file. Any returned
// error is recoverable via Recover; callers must not surface it directly.
// As with ParseLegacy, Status and Path are the caller's to fill in.
func ParseFrontmatter(name string, src []byte) (Task, error) {
	_ = name

	lines := strings.Split(string(src), "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != frontmatterFence {
		return Task{}, errNoFrontmatter
	}

	closeIdx := -1

	for idx := 1; idx < len(lines); idx++ {
		if strings.HasPrefix(lines[idx], frontmatterFence) {
			closeIdx = idx

			break
		}
	}

	if closeIdx == -1 {
		return Task{}, errUnclosedFrontmatter
	}

	block := strings.Join(lines[1:closeIdx], "\n")

	var meta frontmatterMeta

	err := toml.Unmarshal([]byte(block), &meta)
	if err != nil {
		return Task{}, fmt.Errorf("frontmatter: %w", err)
	}

	if meta.ID == nil {
		return Task{}, errFrontmatterNoID
	}

	priority, err := ParsePriority(meta.Priority)
	if err != nil {
		return Task{}, fmt.Errorf("frontmatter: %w", err)
	}

	task := Task{
		ID:       *meta.ID,
		Order:    DefaultOrder(*meta.ID),
		Created:  meta.Created,
		Priority: priority,
		Tags:     meta.Tags,
	}

	if meta.Order != nil {
		task.Order = *meta.Order
	}

	title, body := splitTitleBody(lines[closeIdx+1:])
	task.Title = title
	task.Body = body

	return task, nil
}

// splitTitleBody extracts the title line and the verbatim body from the
// lines after the closing fence. A duplicated frontmatter block embedded in
// the body (left behind by an earlier corruption) is stripped.
func splitTitleBody(lines []string) (string, string) {
	lines = stripEmbeddedFences(lines)

	title := ""
	bodyStart := len(lines)

	for idx, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "# "+frontmatterFence) {
			title = strings.TrimPrefix(line, "# ")
			bodyStart = idx + 1

			break
		}
	}

	body := strings.Join(lines[bodyStart:], "\n")
	body = strings.TrimLeft(body, "\n")
	body = strings.TrimRight(body, "\n")

	return title, body
}

// stripEmbeddedFences removes any +++ fenced block found among the body
// lines. Such blocks are debris from files that were corrupted once and had
// their metadata written twice; keeping them would feed metadata text back
// into the body on every rewrite.
func stripEmbeddedFences(lines []string) []string {
	out := make([]string, 0, len(lines))

	for idx := 0; idx < len(lines); idx++ {
		if strings.TrimRight(lines[idx], "\r") != frontmatterFence {
			out = append(out, lines[idx])

			continue
		}

		closeIdx := -1

		for inner := idx + 1; inner < len(lines); inner++ {
			if strings.HasPrefix(lines[inner], frontmatterFence) {
				closeIdx = inner

				break
			}
		}

		if closeIdx == -1 {
			// Lone fence with no close: keep it, it is body text.
			out = append(out, lines[idx])

			continue
		}

		idx = closeIdx
	}

	return out
}

// EncodeFrontmatter renders a task in the frontmatter encoding.
func EncodeFrontmatter(task Task) ([]byte, error) {
	id := task.ID
	order := task.Order
	meta := frontmatterMeta{
		ID:      &id,
		Order:   &order,
		Created: task.Created,
		Tags:    task.Tags,
	}

	if task.Priority != PriorityNone {
		meta.Priority = string(task.Priority)
	}

	if meta.Tags == nil {
		meta.Tags = []string{}
	}

	block, err := toml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: marshal: %w", err)
	}

	var builder strings.Builder

	builder.WriteString(frontmatterFence + "\n")
	builder.Write(block)
	builder.WriteString(frontmatterFence + "\n")
	builder.WriteString("\n# " + task.Title + "\n")

	if body := strings.TrimRight(task.Body, "\n"); body != "" {
		builder.WriteString("\n")
		builder.WriteString(body)
		builder.WriteString("\n")
	}

	return []byte(builder.String()), nil
}
