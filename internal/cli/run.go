// Package cli is the command-line surface over the persistence engine. It
// owns no file-format knowledge; every mutation goes through
// internal/project and friends.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/calvinalkan/kanban/internal/paths"
	"github.com/calvinalkan/kanban/internal/project"
	"github.com/calvinalkan/kanban/internal/registry"
)

const minArgs = 2

var (
	errProjectFlagRequired = errors.New("select a board with -p <name> or --local")
	errFlagRequiresArg     = errors.New("flag requires an argument")
)

// app carries everything a subcommand needs.
type app struct {
	io       *IO
	resolver paths.Resolver
	workDir  string
	env      map[string]string

	// board selection: projectName for a global board, local for the
	// working directory's .kanban board.
	projectName string
	local       bool

	recovery *slog.Logger
	logClose func()
}

// Run is the entry point. Returns the process exit code.
func Run(in io.Reader, out, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < minArgs {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			fprintln(errOut, "error: cannot get working directory:", err)

			return 1
		}
	}

	resolver := paths.Resolver{DataRoot: flags.dataRoot}
	if resolver.DataRoot == "" {
		resolver, err = paths.Default()
		if err != nil {
			// The one fatal startup condition: no home directory.
			fprintln(errOut, "error:", err)

			return 1
		}
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	if cmd == "-h" || cmd == "--help" {
		printUsage(out)

		return 0
	}

	application := &app{
		io:          NewIO(in, out, errOut),
		resolver:    resolver,
		workDir:     workDir,
		env:         env,
		projectName: flags.projectName,
		local:       flags.local,
	}

	application.recovery, application.logClose = newRecoveryLogger(resolver, errOut)
	defer application.logClose()

	var cmdErr error

	switch cmd {
	case "init":
		cmdErr = cmdInit(application, flags.remaining[1:])
	case "project":
		cmdErr = cmdProject(application, flags.remaining[1:])
	case "status":
		cmdErr = cmdStatus(application, flags.remaining[1:])
	case "task":
		cmdErr = cmdTask(application, flags.remaining[1:])
	case "migrate":
		cmdErr = cmdMigrate(application, flags.remaining[1:])
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}

	if cmdErr != nil {
		fprintln(errOut, "error:", cmdErr)

		return 1
	}

	return 0
}

// newRecoveryLogger opens the append-only diagnostic sink for frontmatter
// recovery. The destination is injected here, never inside the engine; when
// the file cannot be opened the records go to stderr instead of being lost.
func newRecoveryLogger(resolver paths.Resolver, errOut io.Writer) (*slog.Logger, func()) {
	path := resolver.RecoveryLogPath()

	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err == nil {
		var file *os.File

		file, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // fixed layout under the data root
		if err == nil {
			return slog.New(slog.NewJSONHandler(file, nil)), func() { _ = file.Close() }
		}
	}

	return slog.New(slog.NewTextHandler(errOut, nil)), func() {}
}

// openBoard resolves the selected board: --local picks <cwd>/.kanban,
// -p <name> picks a global project.
func (a *app) openBoard() (*project.Project, error) {
	root, err := a.boardRoot()
	if err != nil {
		return nil, err
	}

	return project.Open(root, a.recovery)
}

func (a *app) boardRoot() (string, error) {
	if a.local {
		return paths.LocalRoot(a.workDir), nil
	}

	if a.projectName == "" {
		return "", errProjectFlagRequired
	}

	_, err := a.resolver.ProjectsRoot()
	if err != nil {
		return "", err
	}

	return a.resolver.ProjectRoot(a.projectName), nil
}

type globalFlags struct {
	workDir     string
	dataRoot    string
	projectName string
	local       bool
	remaining   []string
}

// parseGlobalFlags splits global flags from the command words. Globals may
// appear before the command only, matching how the binary is documented.
func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0

	for idx < len(args) {
		arg := args[idx]

		switch arg {
		case "--cwd":
			value, consumed, err := flagValue(args, idx, arg)
			if err != nil {
				return globalFlags{}, err
			}

			flags.workDir = value
			idx += consumed
		case "--data-root":
			value, consumed, err := flagValue(args, idx, arg)
			if err != nil {
				return globalFlags{}, err
			}

			flags.dataRoot = value
			idx += consumed
		case "-p", "--project":
			value, consumed, err := flagValue(args, idx, arg)
			if err != nil {
				return globalFlags{}, err
			}

			flags.projectName = value
			idx += consumed
		case "--local":
			flags.local = true
			idx++
		default:
			flags.remaining = args[idx:]

			return flags, nil
		}
	}

	return flags, nil
}

func flagValue(args []string, idx int, name string) (string, int, error) {
	if idx+1 >= len(args) {
		return "", 0, fmt.Errorf("%w: %s", errFlagRequiresArg, name)
	}

	return args[idx+1], 2, nil
}

func printUsage(w io.Writer) {
	fprintf(w, `kanban - plain-text kanban boards

Usage: kanban [global flags] <command> [args]

Global flags:
  --cwd <dir>         Run as if started in <dir>
  --data-root <dir>   Override the data root (default: XDG data dir)
  -p, --project <name>  Operate on the named global board
  --local             Operate on the .kanban board in the working directory

Commands:
  init                    Create a local board in the working directory
  project add <name>      Create a global board
  project ls              List boards (global and registered local)
  project rename <a> <b>  Rename a global board
  project rm <name>       Delete a global board
  status add <id>         Add a status column
  status label <id> <l>   Change a column's display label
  status rename <a> <b>   Rename a column
  status swap <id> <dir>  Move a column left or right
  status rm <id>          Remove a column (--to relocates its tasks)
  task add [title]        Create a task
  task ls                 List tasks
  task show <id>          Print one task
  task edit <id>          Edit a task body in $EDITOR
  task mv <id> <status>   Move a task to another column
  task rm <id>            Delete a task
  migrate                 Convert the board to the indexed encoding
`)
}

// localBoards lists registered local projects, pruned on read.
func (a *app) localBoards() ([]string, error) {
	return registry.Load(a.resolver.RegistryPath())
}

