package board

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var errUnrecoverable = errors.New("recover task: file name is not a task id")

// Recover rebuilds a best-effort task from a file whose frontmatter failed
// to parse. The identifier comes from the numeric base name; a non-numeric
// name is the only unrecoverable case. Every attempt first writes a
// diagnostic record to log so the reinterpretation stays auditable.
//
// The fallback task gets order id*1000, the first "# " line anywhere in the
// raw content as title, even inside the broken fence block (else
// "Task <id>"), the content minus fence block and title line as body, the
// current time as creation stamp, and no tags or priority.
func Recover(log *slog.Logger, path string, src []byte, cause error) (Task, error) {
	log.Warn("recovering task from unparsable frontmatter",
		slog.String("file", path),
		slog.String("cause", cause.Error()),
		slog.String("frontmatter", rawFrontmatter(src)),
	)

	stem := strings.TrimSuffix(filepath.Base(path), ".md")

	id, parseErr := strconv.ParseUint(stem, 10, 64)
	if parseErr != nil {
		return Task{}, fmt.Errorf("%w: %q", errUnrecoverable, filepath.Base(path))
	}

	task := Task{
		ID:      id,
		Order:   DefaultOrder(id),
		Created: strconv.FormatInt(time.Now().Unix(), 10),
		Path:    path,
	}

	lines := strings.Split(string(src), "\n")

	// The title scan covers the raw content, fence block included: the
	// corruption may have swallowed the title line into the block.
	titleIdx := -1

	for idx, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if strings.HasPrefix(trimmed, "# ") {
			task.Title = strings.TrimPrefix(trimmed, "# ")
			titleIdx = idx

			break
		}
	}

	if titleIdx == -1 {
		task.Title = "Task " + strconv.FormatUint(id, 10)
	}

	body := make([]string, 0, len(lines))
	inFence := false

	for idx, line := range lines {
		trimmed := strings.TrimRight(line, "\r")

		if trimmed == frontmatterFence {
			inFence = !inFence

			continue
		}

		if inFence || idx == titleIdx {
			continue
		}

		body = append(body, line)
	}

	task.Body = strings.TrimRight(strings.TrimLeft(strings.Join(body, "\n"), "\n"), "\n")

	return task, nil
}

// rawFrontmatter extracts the fenced block text for the diagnostic record,
// or the first lines of the file when no fence is present.
func rawFrontmatter(src []byte) string {
	lines := strings.Split(string(src), "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != frontmatterFence {
		const preview = 5
		if len(lines) > preview {
			lines = lines[:preview]
		}

		return strings.Join(lines, "\n")
	}

	for idx := 1; idx < len(lines); idx++ {
		if strings.HasPrefix(lines[idx], frontmatterFence) {
			return strings.Join(lines[:idx+1], "\n")
		}
	}

	return strings.Join(lines, "\n")
}
