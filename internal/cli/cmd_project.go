package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/kanban/internal/paths"
	"github.com/calvinalkan/kanban/internal/project"
	"github.com/calvinalkan/kanban/internal/registry"
)

var (
	errNameRequired    = errors.New("project name is required")
	errSubcmdRequired  = errors.New("missing subcommand")
	errUnknownSubcmd   = errors.New("unknown subcommand")
	errLocalBoardOnly  = errors.New("init creates a local board; it takes no -p flag")
	errRenameTwoNames  = errors.New("rename needs <old> <new>")
	errLocalNoRename   = errors.New("local boards are renamed by moving the directory")
	errLocalRegistered = errors.New("working directory already has a board")
)

// nowStamp is the creation timestamp format: opaque UNIX seconds, matching
// the stamps already present in legacy task files.
func nowStamp() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func cmdInit(a *app, args []string) error {
	flagSet := flag.NewFlagSet("init", flag.ContinueOnError)
	name := flagSet.StringP("name", "n", "", "Board name (default: directory name)")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if a.projectName != "" {
		return errLocalBoardOnly
	}

	root := paths.LocalRoot(a.workDir)

	_, err = os.Stat(root)
	if err == nil {
		return fmt.Errorf("%w: %s", errLocalRegistered, root)
	}

	boardName := *name
	if boardName == "" {
		boardName = defaultBoardName(a.workDir)
	}

	_, err = project.Create(root, boardName, nowStamp(), a.recovery)
	if err != nil {
		return err
	}

	err = registry.Add(a.resolver.RegistryPath(), root)
	if err != nil {
		return err
	}

	a.io.Println("initialized board", boardName, "at", root)

	return nil
}

func defaultBoardName(workDir string) string {
	base := filepath.Base(workDir)
	if base == "." || base == string(os.PathSeparator) {
		return "board"
	}

	return base
}

func cmdProject(a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: project <add|ls|rename|rm>", errSubcmdRequired)
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "add":
		return projectAdd(a, rest)
	case "ls":
		return projectLs(a)
	case "rename":
		return projectRename(a, rest)
	case "rm":
		return projectRm(a, rest)
	}

	return fmt.Errorf("%w: project %s", errUnknownSubcmd, sub)
}

func projectAdd(a *app, args []string) error {
	if len(args) == 0 || args[0] == "" {
		return errNameRequired
	}

	name := args[0]

	_, err := a.resolver.ProjectsRoot()
	if err != nil {
		return err
	}

	_, err = project.Create(a.resolver.ProjectRoot(name), name, nowStamp(), a.recovery)
	if err != nil {
		return err
	}

	a.io.Println("created project", name)

	return nil
}

func projectLs(a *app) error {
	root, err := a.resolver.ProjectsRoot()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read projects root: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			a.io.Println(entry.Name())
		}
	}

	locals, err := a.localBoards()
	if err != nil {
		return err
	}

	for _, local := range locals {
		a.io.Println(local, "(local)")
	}

	return nil
}

func projectRename(a *app, args []string) error {
	if a.local {
		return errLocalNoRename
	}

	if len(args) < 2 {
		return errRenameTwoNames
	}

	oldName, newName := args[0], args[1]

	_, err := a.resolver.ProjectsRoot()
	if err != nil {
		return err
	}

	err = project.Rename(a.resolver.ProjectRoot(oldName), a.resolver.ProjectRoot(newName), newName)
	if err != nil {
		return err
	}

	a.io.Println("renamed", oldName, "to", newName)

	return nil
}

func projectRm(a *app, args []string) error {
	if a.local {
		root := paths.LocalRoot(a.workDir)

		err := project.Delete(root)
		if err != nil {
			return err
		}

		err = registry.Remove(a.resolver.RegistryPath(), root)
		if err != nil {
			return err
		}

		a.io.Println("deleted local board at", root)

		return nil
	}

	if len(args) == 0 || args[0] == "" {
		return errNameRequired
	}

	name := args[0]

	err := project.Delete(a.resolver.ProjectRoot(name))
	if err != nil {
		return err
	}

	a.io.Println("deleted project", name)

	return nil
}
