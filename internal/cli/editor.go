package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var errNoEditorFound = errors.New("no editor found (set $EDITOR or install vi/nano)")

// resolveEditor picks an editor. Priority: $EDITOR -> vi -> nano.
func resolveEditor(env map[string]string) (string, error) {
	if editor := env["EDITOR"]; editor != "" {
		_, err := exec.LookPath(editor)
		if err == nil {
			return editor, nil
		}
	}

	for _, candidate := range []string{"vi", "nano"} {
		_, err := exec.LookPath(candidate)
		if err == nil {
			return candidate, nil
		}
	}

	return "", errNoEditorFound
}

// taskEdit opens the task body in the user's editor and saves the result
// back through the engine, so the on-disk encoding is respected. The editor
// works on a scratch file rather than the task file itself: for the legacy
// encoding a direct edit could corrupt the metadata lines.
func taskEdit(a *app, args []string) error {
	task, proj, err := findTask(a, args)
	if err != nil {
		return err
	}

	editor, err := resolveEditor(a.env)
	if err != nil {
		return err
	}

	scratch, err := os.CreateTemp("", "kanban-task-*.md")
	if err != nil {
		return fmt.Errorf("create scratch file: %w", err)
	}

	scratchPath := scratch.Name()
	defer func() { _ = os.Remove(scratchPath) }()

	_, err = scratch.WriteString(task.Body)
	if err != nil {
		_ = scratch.Close()

		return fmt.Errorf("write scratch file: %w", err)
	}

	err = scratch.Close()
	if err != nil {
		return fmt.Errorf("close scratch file: %w", err)
	}

	cmd := exec.Command(editor, scratchPath) //nolint:gosec // editor comes from the user's own environment
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err = cmd.Run()
	if err != nil {
		return fmt.Errorf("run editor %s: %w", filepath.Base(editor), err)
	}

	edited, err := os.ReadFile(scratchPath) //nolint:gosec // scratch file we created above
	if err != nil {
		return fmt.Errorf("read scratch file: %w", err)
	}

	task.Body = strings.TrimRight(string(edited), "\n")

	err = proj.SaveTask(&task)
	if err != nil {
		return err
	}

	a.io.Println("updated", task.ID)

	return nil
}
