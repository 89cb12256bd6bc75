// Package main provides kanban, a plain-text kanban board kept in a
// directory tree of markdown and TOML files.
package main

import (
	"os"
	"strings"

	"github.com/calvinalkan/kanban/internal/cli"
)

func main() {
	environ := os.Environ()
	env := make(map[string]string, len(environ))

	for _, e := range environ {
		if k, v, ok := strings.Cut(e, "="); ok {
			env[k] = v
		}
	}

	os.Exit(cli.Run(os.Stdin, os.Stdout, os.Stderr, os.Args, env))
}
