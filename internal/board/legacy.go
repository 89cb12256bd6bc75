package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Legacy encoding: one file per task.
//
//	# Fix checkout bug
//
//	id: 1
//	order: 1000
//	created: 1234567890
//	priority: high
//	tags: bug, urgent
//
//	Steps to reproduce...
//
// The first line is the title. Metadata is a run of "key: value" lines,
// tolerant of interleaved blank lines; the first non-blank line that is not
// of that shape starts the body, which is kept verbatim.
//
// A body whose opening lines are themselves "key: value" shaped is
// unrepresentable: re-parsing consumes them as unknown metadata. The format
// has no escaping, same as the comma-separated tag list.

var (
	errLegacyNoTitle  = errors.New("legacy task: missing title line")
	errLegacyNoID     = errors.New("legacy task: no id field and filename is not numeric")
	errLegacyBadField = errors.New("legacy task: invalid field value")
)

// ParseLegacy decodes a legacy-encoded task file. name is the base file
// name, used to derive the identifier when no id field is present.
// The returned task has no Status or Path; both come from the file's
// location and are filled in by the caller.
func ParseLegacy(name string, src []byte) (Task, error) {
	lines := strings.Split(string(src), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "# ") {
		return Task{}, errLegacyNoTitle
	}

	task := Task{Title: strings.TrimPrefix(lines[0], "# ")}

	hasID := false
	hasOrder := false
	bodyStart := len(lines)

	for idx := 1; idx < len(lines); idx++ {
		line := lines[idx]
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, ok := metadataLine(line)
		if !ok {
			bodyStart = idx

			break
		}

		err := applyLegacyField(&task, key, value, &hasID, &hasOrder)
		if err != nil {
			return Task{}, err
		}
	}

	if !hasID {
		id, ok := IDFromFileName(name)
		if !ok {
			return Task{}, fmt.Errorf("%w: %q", errLegacyNoID, name)
		}

		task.ID = id
	}

	if !hasOrder {
		task.Order = DefaultOrder(task.ID)
	}

	if bodyStart < len(lines) {
		task.Body = strings.TrimRight(strings.Join(lines[bodyStart:], "\n"), "\n")
	}

	return task, nil
}

// metadataLine reports whether line has the "key: value" shape. Keys must
// be single tokens; anything else (prose containing a colon, markdown, a
// list item) starts the body.
func metadataLine(line string) (string, string, bool) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}

	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}

	return key, strings.TrimSpace(value), true
}

func applyLegacyField(task *Task, key, value string, hasID, hasOrder *bool) error {
	switch key {
	case "id":
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: id %q", errLegacyBadField, value)
		}

		task.ID = id
		*hasID = true

	case "order":
		order, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: order %q", errLegacyBadField, value)
		}

		task.Order = order
		*hasOrder = true

	case "created":
		task.Created = value

	case "priority":
		priority, err := ParsePriority(value)
		if err != nil {
			return fmt.Errorf("%w: priority %q", errLegacyBadField, value)
		}

		task.Priority = priority

	case "tags":
		task.Tags = ParseTags(value)

	default:
		// Unknown keys are consumed but carry no field. The shape, not the
		// key set, decides where the body starts.
	}

	return nil
}

// EncodeLegacy is the exact inverse of ParseLegacy: title line, metadata
// pairs, then a blank line and the body. No trailing blank line is written
// when the body is empty. The inverse breaks for a body opening with a
// "key: value" shaped line; see the format note above.
func EncodeLegacy(task Task) []byte {
	var builder strings.Builder

	builder.WriteString("# " + task.Title + "\n")
	builder.WriteString("\n")
	builder.WriteString("id: " + strconv.FormatUint(task.ID, 10) + "\n")
	builder.WriteString("order: " + strconv.FormatInt(task.Order, 10) + "\n")

	if task.Created != "" {
		builder.WriteString("created: " + task.Created + "\n")
	}

	if task.Priority != PriorityNone {
		builder.WriteString("priority: " + string(task.Priority) + "\n")
	}

	if len(task.Tags) > 0 {
		builder.WriteString("tags: " + FormatTags(task.Tags) + "\n")
	}

	if body := strings.TrimRight(task.Body, "\n"); body != "" {
		builder.WriteString("\n")
		builder.WriteString(body)
		builder.WriteString("\n")
	}

	return []byte(builder.String())
}
