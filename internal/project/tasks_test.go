package project_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/kanban/internal/board"
	"github.com/calvinalkan/kanban/internal/index"
)

func Test_SaveTask_WritesLegacyEncoding_When_ProjectLegacy(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	task := board.Task{
		ID:      1,
		Order:   1000,
		Title:   "Fix login",
		Body:    "Steps to reproduce.",
		Created: "1700000000",
		Status:  "todo",
	}

	err := p.SaveTask(&task)
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	wantPath := filepath.Join(p.Root, "todo", "1.md")
	if task.Path != wantPath {
		t.Errorf("Path = %q, want %q", task.Path, wantPath)
	}

	content := readFile(t, wantPath)
	if !strings.HasPrefix(content, "# Fix login\n") {
		t.Errorf("legacy file should start with the title line, got %q", content)
	}

	if !strings.Contains(content, "id: 1\n") {
		t.Errorf("legacy file should carry the id line, got %q", content)
	}

	tasks, err := p.LoadTasks("todo")
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}

	if len(tasks) != 1 || tasks[0].Title != "Fix login" || tasks[0].Body != "Steps to reproduce." {
		t.Errorf("reloaded task mismatch: %+v", tasks)
	}
}

func Test_SaveTask_WritesBodyByteForByte_When_ProjectIndexed(t *testing.T) {
	t.Parallel()

	p := newIndexedProject(t)
	task := board.Task{
		ID:     1,
		Order:  1000,
		Title:  "Greeting",
		Body:   "Hello",
		Status: "todo",
	}

	err := p.SaveTask(&task)
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	// The body file carries exactly the body, nothing else.
	content := readFile(t, filepath.Join(p.Root, "todo", "1.md"))
	if content != "Hello" {
		t.Errorf("body file = %q, want %q", content, "Hello")
	}

	entries, err := index.New(p.Root).Load()
	if err != nil {
		t.Fatalf("Load index: %v", err)
	}

	entry, ok := entries["1"]
	if !ok {
		t.Fatal("index entry missing")
	}

	if entry.Title != "Greeting" || entry.Status != "todo" || entry.Order != 1000 {
		t.Errorf("index entry mismatch: %+v", entry)
	}
}

func Test_SaveTask_Fails_When_StatusUnknown(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	task := board.Task{ID: 1, Title: "Orphan", Status: "nonexistent"}

	err := p.SaveTask(&task)
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func Test_SaveTask_RemovesStaleFile_When_StatusChanged(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	task := board.Task{ID: 2, Order: 2000, Title: "Wanderer", Status: "todo"}

	err := p.SaveTask(&task)
	if err != nil {
		t.Fatalf("first SaveTask: %v", err)
	}

	oldPath := task.Path
	task.Status = "doing"

	err = p.SaveTask(&task)
	if err != nil {
		t.Fatalf("second SaveTask: %v", err)
	}

	mustNotExist(t, oldPath)

	if task.Path != filepath.Join(p.Root, "doing", "2.md") {
		t.Errorf("Path = %q after status change", task.Path)
	}
}

func Test_LoadTasks_ReturnsEmpty_When_DirectoryMissing(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	p.Config.AddStatus("phantom", "")

	tasks, err := p.LoadTasks("phantom")
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}

	if len(tasks) != 0 {
		t.Errorf("tasks = %v, want none", tasks)
	}
}

func Test_LoadTasks_SortsByOrderThenID(t *testing.T) {
	t.Parallel()

	p := newProject(t)

	for _, task := range []board.Task{
		{ID: 1, Order: 2000, Title: "Later", Status: "todo"},
		{ID: 2, Order: 1000, Title: "Sooner", Status: "todo"},
		{ID: 3, Order: 2000, Title: "Tiebreak", Status: "todo"},
	} {
		err := p.SaveTask(&task)
		if err != nil {
			t.Fatalf("SaveTask %d: %v", task.ID, err)
		}
	}

	tasks, err := p.LoadTasks("todo")
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}

	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}

	if diff := cmp.Diff([]string{"Sooner", "Later", "Tiebreak"}, titles); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func Test_LoadTasks_SkipsHiddenAndNonMarkdownFiles(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	writeRawTask(t, p, "todo", ".hidden.md", "# Hidden\nid: 8\n")
	writeRawTask(t, p, "todo", "notes.txt", "scratch")
	writeRawTask(t, p, "todo", "5.md", "# Visible\nid: 5\n")

	tasks, err := p.LoadTasks("todo")
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}

	if len(tasks) != 1 || tasks[0].ID != 5 {
		t.Errorf("tasks = %+v, want only id 5", tasks)
	}
}

func Test_MoveTask_RenamesFileIntoDestination(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	task := board.Task{ID: 4, Order: 4000, Title: "Mover", Status: "todo"}

	err := p.SaveTask(&task)
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	oldPath := task.Path

	err = p.MoveTask(&task, "done")
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}

	mustNotExist(t, oldPath)

	if task.Status != "done" {
		t.Errorf("Status = %q, want done", task.Status)
	}

	if task.Path != filepath.Join(p.Root, "done", "4.md") {
		t.Errorf("Path = %q", task.Path)
	}
}

func Test_MoveTask_UpdatesIndexEntry_When_ProjectIndexed(t *testing.T) {
	t.Parallel()

	p := newIndexedProject(t)
	task := board.Task{ID: 9, Order: 9000, Title: "Tracked", Status: "todo"}

	err := p.SaveTask(&task)
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	err = p.MoveTask(&task, "doing")
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}

	entries, err := index.New(p.Root).Load()
	if err != nil {
		t.Fatalf("Load index: %v", err)
	}

	if entries["9"].Status != "doing" {
		t.Errorf("index status = %q, want doing", entries["9"].Status)
	}
}

func Test_MoveTask_Fails_When_DestinationUnknown(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	task := board.Task{ID: 1, Title: "Stuck", Status: "todo"}

	err := p.SaveTask(&task)
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	err = p.MoveTask(&task, "limbo")
	if err == nil {
		t.Fatal("expected error for unknown destination")
	}
}

func Test_DeleteTask_RemovesFile_AndRemoveFromIndexDropsMetadata(t *testing.T) {
	t.Parallel()

	p := newIndexedProject(t)
	task := board.Task{ID: 6, Order: 6000, Title: "Doomed", Status: "todo"}

	err := p.SaveTask(&task)
	if err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	err = p.DeleteTask(task)
	if err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	mustNotExist(t, task.Path)

	err = p.RemoveFromIndex(task.ID)
	if err != nil {
		t.Fatalf("RemoveFromIndex: %v", err)
	}

	entries, err := index.New(p.Root).Load()
	if err != nil {
		t.Fatalf("Load index: %v", err)
	}

	if _, ok := entries["6"]; ok {
		t.Error("index entry should be gone")
	}
}

func Test_DeleteTask_Fails_When_FileAlreadyGone(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	task := board.Task{ID: 1, Path: filepath.Join(p.Root, "todo", "1.md")}

	err := p.DeleteTask(task)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func Test_LoadTasks_SynthesizesMetadata_When_IndexEntryMissing(t *testing.T) {
	t.Parallel()

	p := newIndexedProject(t)
	writeRawTask(t, p, "todo", "7.md", "orphan body")

	tasks, err := p.LoadTasks("todo")
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}

	if len(tasks) != 1 {
		t.Fatalf("tasks = %+v, want one", tasks)
	}

	got := tasks[0]
	if got.ID != 7 || got.Title != "Task 7" || got.Order != 7000 || got.Body != "orphan body" {
		t.Errorf("synthesized task mismatch: %+v", got)
	}
}

func Test_NextID_ReturnsOne_When_ProjectEmpty(t *testing.T) {
	t.Parallel()

	p := newProject(t)

	id, err := p.NextID()
	if err != nil {
		t.Fatalf("NextID: %v", err)
	}

	if id != 1 {
		t.Errorf("NextID = %d, want 1", id)
	}
}

func Test_NextID_ScansEveryStatusDirectory(t *testing.T) {
	t.Parallel()

	p := newProject(t)

	for _, task := range []board.Task{
		{ID: 2, Order: 2000, Title: "A", Status: "todo"},
		{ID: 5, Order: 5000, Title: "B", Status: "done"},
	} {
		err := p.SaveTask(&task)
		if err != nil {
			t.Fatalf("SaveTask %d: %v", task.ID, err)
		}
	}

	id, err := p.NextID()
	if err != nil {
		t.Fatalf("NextID: %v", err)
	}

	if id != 6 {
		t.Errorf("NextID = %d, want 6", id)
	}
}

func Test_LoadTasks_RecoversFrontmatterFile_When_MetadataCorrupt(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	writeRawTask(t, p, "todo", "12.md",
		"+++\nid = \"not a number\"\n+++\n# Salvaged title\nsurviving body\n")

	tasks, err := p.LoadTasks("todo")
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}

	if len(tasks) != 1 {
		t.Fatalf("tasks = %+v, want one recovered task", tasks)
	}

	got := tasks[0]
	if got.ID != 12 || got.Title != "Salvaged title" {
		t.Errorf("recovered task mismatch: %+v", got)
	}
}

func Test_LoadTasks_Fails_When_LegacyFileHasNoIdentity(t *testing.T) {
	t.Parallel()

	p := newProject(t)
	writeRawTask(t, p, "todo", "notes-no-id.md", "# Title only\nbody\n")

	_, err := p.LoadTasks("todo")
	if err == nil {
		t.Fatal("expected error for legacy file without id")
	}
}
