package project_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/kanban/internal/board"
	"github.com/calvinalkan/kanban/internal/config"
	"github.com/calvinalkan/kanban/internal/paths"
	"github.com/calvinalkan/kanban/internal/project"
)

func Test_Create_MaterializesDefaultColumns(t *testing.T) {
	t.Parallel()

	p := newProject(t)

	if p.Format != board.FormatLegacy {
		t.Errorf("Format = %v, want legacy", p.Format)
	}

	if diff := cmp.Diff([]string{"todo", "doing", "done"}, p.Config.Statuses.Order); diff != "" {
		t.Errorf("status order mismatch (-want +got):\n%s", diff)
	}

	for _, status := range p.Config.Statuses.Order {
		info, err := os.Stat(filepath.Join(p.Root, status))
		if err != nil || !info.IsDir() {
			t.Errorf("status directory %s missing (err: %v)", status, err)
		}
	}

	if _, err := os.Stat(filepath.Join(p.Root, paths.ConfigFileName)); err != nil {
		t.Errorf("config file missing: %v", err)
	}
}

func Test_Create_Fails_When_DirectoryExists(t *testing.T) {
	t.Parallel()

	p := newProject(t)

	_, err := project.Create(p.Root, "demo", "1700000000", discardLogger())
	if !errors.Is(err, project.ErrExists) {
		t.Errorf("err = %v, want ErrExists", err)
	}
}

func Test_Open_ReloadsConfig_AndProbesEncodingOnce(t *testing.T) {
	t.Parallel()

	created := newProject(t)

	p, err := project.Open(created.Root, discardLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if p.Name != "demo" {
		t.Errorf("Name = %q, want %q", p.Name, "demo")
	}

	if p.Format != board.FormatLegacy {
		t.Errorf("Format = %v, want legacy", p.Format)
	}

	// Presence of the index file flips the probe result.
	err = os.WriteFile(filepath.Join(created.Root, paths.IndexFileName), nil, 0o600)
	if err != nil {
		t.Fatalf("write index file: %v", err)
	}

	p, err = project.Open(created.Root, discardLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if p.Format != board.FormatIndexed {
		t.Errorf("Format = %v, want indexed", p.Format)
	}
}

func Test_Open_ReturnsErrNotFound_When_NoConfig(t *testing.T) {
	t.Parallel()

	_, err := project.Open(t.TempDir(), discardLogger())
	if !errors.Is(err, project.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func Test_Rename_MovesDirectoryAndUpdatesName(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	newRoot := filepath.Join(filepath.Dir(p.Root), "renamed")

	err := project.Rename(p.Root, newRoot, "renamed")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}

	mustNotExist(t, p.Root)

	cfg, err := config.Load(newRoot)
	if err != nil {
		t.Fatalf("Load config: %v", err)
	}

	if cfg.Name != "renamed" {
		t.Errorf("Name = %q, want %q", cfg.Name, "renamed")
	}
}

func Test_Rename_Fails_When_TargetExists(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	other := newProject(t)

	err := project.Rename(p.Root, other.Root, "clash")
	if !errors.Is(err, project.ErrExists) {
		t.Errorf("err = %v, want ErrExists", err)
	}
}

func Test_Rename_Fails_When_SourceMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "gone")

	err := project.Rename(missing, missing+"-new", "gone")
	if !errors.Is(err, project.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func Test_Delete_RemovesProjectRecursively(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	writeRawTask(t, p, "todo", "1.md", "# Keep\nid: 1\n")

	err := project.Delete(p.Root)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}

	mustNotExist(t, p.Root)

	err = project.Delete(p.Root)
	if !errors.Is(err, project.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
