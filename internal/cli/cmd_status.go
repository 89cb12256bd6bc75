package cli

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
)

var (
	errStatusIDRequired = errors.New("status id is required")
	errLabelRequired    = errors.New("label is required")
	errSwapDirection    = errors.New("direction must be left or right")
)

func cmdStatus(a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: status <add|label|rename|swap|rm>", errSubcmdRequired)
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "add":
		return statusAdd(a, rest)
	case "label":
		return statusLabel(a, rest)
	case "rename":
		return statusRename(a, rest)
	case "swap":
		return statusSwap(a, rest)
	case "rm":
		return statusRm(a, rest)
	}

	return fmt.Errorf("%w: status %s", errUnknownSubcmd, sub)
}

func statusAdd(a *app, args []string) error {
	flagSet := flag.NewFlagSet("status add", flag.ContinueOnError)
	label := flagSet.StringP("label", "l", "", "Display label (default: the id)")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() == 0 {
		return errStatusIDRequired
	}

	proj, err := a.openBoard()
	if err != nil {
		return err
	}

	id := flagSet.Arg(0)

	err = proj.AddStatus(id, *label)
	if err != nil {
		return err
	}

	a.io.Println("added status", id)

	return nil
}

func statusLabel(a *app, args []string) error {
	if len(args) == 0 {
		return errStatusIDRequired
	}

	if len(args) < 2 || args[1] == "" {
		return errLabelRequired
	}

	proj, err := a.openBoard()
	if err != nil {
		return err
	}

	err = proj.SetStatusLabel(args[0], args[1])
	if err != nil {
		return err
	}

	a.io.Println("labeled", args[0], "as", args[1])

	return nil
}

func statusRename(a *app, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: status rename <from> <to>", errStatusIDRequired)
	}

	proj, err := a.openBoard()
	if err != nil {
		return err
	}

	err = proj.RenameStatus(args[0], args[1])
	if err != nil {
		return err
	}

	a.io.Println("renamed status", args[0], "to", args[1])

	return nil
}

func statusSwap(a *app, args []string) error {
	if len(args) == 0 {
		return errStatusIDRequired
	}

	if len(args) < 2 {
		return errSwapDirection
	}

	var direction int

	switch args[1] {
	case "left", "up":
		direction = -1
	case "right", "down":
		direction = 1
	default:
		return fmt.Errorf("%w: %q", errSwapDirection, args[1])
	}

	proj, err := a.openBoard()
	if err != nil {
		return err
	}

	moved, err := proj.SwapStatus(args[0], direction)
	if err != nil {
		return err
	}

	if !moved {
		a.io.Println(args[0], "is already at the boundary")

		return nil
	}

	a.io.Println("moved", args[0], args[1])

	return nil
}

func statusRm(a *app, args []string) error {
	flagSet := flag.NewFlagSet("status rm", flag.ContinueOnError)
	target := flagSet.String("to", "", "Relocate contained tasks to this status first")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if flagSet.NArg() == 0 {
		return errStatusIDRequired
	}

	proj, err := a.openBoard()
	if err != nil {
		return err
	}

	id := flagSet.Arg(0)

	err = proj.DeleteStatus(id, *target)
	if err != nil {
		return err
	}

	a.io.Println("removed status", id)

	return nil
}
