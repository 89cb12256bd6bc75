package board_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/kanban/internal/board"
)

func Test_SortTasks_OrdersByOrderThenID(t *testing.T) {
	t.Parallel()

	tasks := []board.Task{
		{ID: 3, Order: 2000},
		{ID: 1, Order: 1000},
		{ID: 2, Order: 1000},
		{ID: 4, Order: 500},
	}

	board.SortTasks(tasks)

	wantIDs := []uint64{4, 1, 2, 3}
	for idx, want := range wantIDs {
		if tasks[idx].ID != want {
			t.Fatalf("position %d: ID = %d, want %d", idx, tasks[idx].ID, want)
		}
	}
}

func Test_ParseTags_SplitsOnBareCommas(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "plain", in: "bug, urgent", want: []string{"bug", "urgent"}},
		{name: "ragged", in: " a ,,b, ", want: []string{"a", "b"}},
		{name: "empty", in: "", want: []string{}},
		// No escaping: a literal comma inside a tag splits.
		{name: "comma in tag", in: "needs review, asap", want: []string{"needs review", "asap"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.want, board.ParseTags(tc.in)); diff != "" {
				t.Errorf("ParseTags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_ValidateStatusName_RejectsBadNames(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "in progress", "todo/", "a.b", "tasks", "kanban"} {
		if err := board.ValidateStatusName(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}

	for _, name := range []string{"todo", "in_progress", "on-hold", "Q1"} {
		if err := board.ValidateStatusName(name); err != nil {
			t.Errorf("expected %q to be accepted: %v", name, err)
		}
	}
}

func Test_IDFromFileName_ParsesNumericShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		in     string
		wantID uint64
		wantOK bool
	}{
		{name: "pure number", in: "12.md", wantID: 12, wantOK: true},
		{name: "numeric prefix", in: "3-fix-login.md", wantID: 3, wantOK: true},
		{name: "no extension", in: "5", wantID: 5, wantOK: true},
		{name: "not numeric", in: "readme.md", wantOK: false},
		{name: "prefix not numeric", in: "fix-3.md", wantOK: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			id, ok := board.IDFromFileName(tc.in)
			if ok != tc.wantOK || id != tc.wantID {
				t.Errorf("IDFromFileName(%q) = (%d, %v), want (%d, %v)", tc.in, id, ok, tc.wantID, tc.wantOK)
			}
		})
	}
}
