package project_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/calvinalkan/kanban/internal/project"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newProject creates a fresh legacy project named "demo" under a temp root.
func newProject(t *testing.T) *project.Project {
	t.Helper()

	root := filepath.Join(t.TempDir(), "demo")

	p, err := project.Create(root, "demo", "1700000000", discardLogger())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	return p
}

// newIndexedProject creates a fresh project already migrated to the indexed
// encoding.
func newIndexedProject(t *testing.T) *project.Project {
	t.Helper()

	p := newProject(t)

	migrated, err := p.Migrate()
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	if !migrated {
		t.Fatal("fresh project should migrate")
	}

	return p
}

// writeRawTask drops a raw file into a status directory, bypassing SaveTask.
func writeRawTask(t *testing.T, p *project.Project, status, name, content string) string {
	t.Helper()

	path := filepath.Join(p.Root, status, name)

	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	return string(data)
}

func mustNotExist(t *testing.T, path string) {
	t.Helper()

	_, err := os.Stat(path)
	if !os.IsNotExist(err) {
		t.Fatalf("%s should not exist (stat err: %v)", path, err)
	}
}
