package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

var errNoInput = errors.New("no title given and no input available")

// promptTitle asks for a task title when none was passed on the command
// line. On a terminal it uses a readline-style prompt; when stdin is a pipe
// (tests, scripts) it reads a single line instead.
func promptTitle(a *app) (string, error) {
	if a.io.in == nil {
		return "", errNoInput
	}

	if file, ok := a.io.in.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
		return promptTitleInteractive()
	}

	reader := bufio.NewReader(a.io.in)

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", errNoInput
	}

	return strings.TrimSpace(line), nil
}

func promptTitleInteractive() (string, error) {
	state := liner.NewLiner()
	defer func() { _ = state.Close() }()

	state.SetCtrlCAborts(true)

	line, err := state.Prompt("title> ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", errNoInput
		}

		return "", fmt.Errorf("read title: %w", err)
	}

	return strings.TrimSpace(line), nil
}
