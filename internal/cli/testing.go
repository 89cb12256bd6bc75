package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CLI runs commands in tests against an isolated working directory and data
// root, so nothing leaks into the developer's real boards.
type CLI struct {
	t *testing.T

	// Dir is the simulated working directory, passed via --cwd.
	Dir string

	// DataDir is the isolated data root, passed via --data-root.
	DataDir string

	Env map[string]string
}

// NewCLI creates a test CLI with fresh temp directories.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{
		t:       t,
		Dir:     t.TempDir(),
		DataDir: t.TempDir(),
		Env:     map[string]string{},
	}
}

// Run executes the CLI with the given args and returns stdout, stderr, and
// exit code. Args should not include the binary name, "--cwd", or
// "--data-root"; those are added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"kanban", "--cwd", r.Dir, "--data-root", r.DataDir}, args...)
	code := Run(nil, &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// RunWithInput executes the CLI with stdin and returns stdout, stderr, and
// exit code. stdin must be a string or io.Reader; panics otherwise.
func (r *CLI) RunWithInput(stdin any, args ...string) (string, string, int) {
	var inReader io.Reader

	switch v := stdin.(type) {
	case string:
		inReader = strings.NewReader(v)
	case io.Reader:
		inReader = v
	default:
		panic(fmt.Sprintf("stdin must be string or io.Reader, got %T", stdin))
	}

	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"kanban", "--cwd", r.Dir, "--data-root", r.DataDir}, args...)
	code := Run(inReader, &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test if the command returns
// non-zero. Returns trimmed stdout on success.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// ProjectDir returns the path of a global board under the test data root.
func (r *CLI) ProjectDir(name string) string {
	return filepath.Join(r.DataDir, "projects", name)
}

// LocalBoardDir returns the path of the working directory's local board.
func (r *CLI) LocalBoardDir() string {
	return filepath.Join(r.Dir, ".kanban")
}

// ReadTaskFile reads a task file from a board's status directory.
func (r *CLI) ReadTaskFile(boardRoot, status, name string) string {
	r.t.Helper()

	path := filepath.Join(boardRoot, status, name)

	content, err := os.ReadFile(path) //nolint:gosec // test fixture path
	if err != nil {
		r.t.Fatalf("failed to read task file %s: %v", path, err)
	}

	return string(content)
}

// WriteTaskFile drops a raw task file into a board's status directory,
// bypassing the engine.
func (r *CLI) WriteTaskFile(boardRoot, status, name, content string) {
	r.t.Helper()

	path := filepath.Join(boardRoot, status, name)

	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		r.t.Fatalf("failed to write task file %s: %v", path, err)
	}
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
