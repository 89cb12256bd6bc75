package cli

import (
	"errors"
	"fmt"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/kanban/internal/board"
	"github.com/calvinalkan/kanban/internal/project"
)

var (
	errTaskIDRequired    = errors.New("task id is required")
	errTaskStatusReq     = errors.New("destination status is required")
	errTaskNotFound      = errors.New("task not found")
	errTitleRequired     = errors.New("title is required")
	errNoDefaultStatus   = errors.New("board has no status columns")
	errInvalidTaskNumber = errors.New("task id must be a number")
)

func cmdTask(a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: task <add|ls|show|edit|mv|rm>", errSubcmdRequired)
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "add":
		return taskAdd(a, rest)
	case "ls":
		return taskLs(a, rest)
	case "show":
		return taskShow(a, rest)
	case "edit":
		return taskEdit(a, rest)
	case "mv":
		return taskMv(a, rest)
	case "rm":
		return taskRm(a, rest)
	}

	return fmt.Errorf("%w: task %s", errUnknownSubcmd, sub)
}

func taskAdd(a *app, args []string) error {
	flagSet := flag.NewFlagSet("task add", flag.ContinueOnError)
	body := flagSet.StringP("body", "b", "", "Task body text")
	priority := flagSet.String("priority", "", "Priority: high|medium|low")
	tags := flagSet.StringP("tags", "t", "", "Comma-separated tags")
	status := flagSet.StringP("status", "s", "", "Status column (default: first column)")
	order := flagSet.Int64("order", 0, "Sort order (default: id*1000)")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	proj, err := a.openBoard()
	if err != nil {
		return err
	}

	title := ""
	if flagSet.NArg() > 0 {
		title = flagSet.Arg(0)
	}

	if title == "" {
		title, err = promptTitle(a)
		if err != nil {
			return err
		}
	}

	if title == "" {
		return errTitleRequired
	}

	prio, err := board.ParsePriority(*priority)
	if err != nil {
		return err
	}

	dest := *status
	if dest == "" {
		if len(proj.Config.Statuses.Order) == 0 {
			return errNoDefaultStatus
		}

		dest = proj.Config.Statuses.Order[0]
	}

	id, err := proj.NextID()
	if err != nil {
		return err
	}

	task := board.Task{
		ID:       id,
		Order:    *order,
		Title:    title,
		Body:     *body,
		Created:  nowStamp(),
		Priority: prio,
		Status:   dest,
	}

	// Changed, not the value: an explicit --order 0 must survive.
	if !flagSet.Changed("order") {
		task.Order = board.DefaultOrder(id)
	}

	if *tags != "" {
		task.Tags = board.ParseTags(*tags)
	}

	err = proj.SaveTask(&task)
	if err != nil {
		return err
	}

	a.io.Println(task.ID)

	return nil
}

func taskLs(a *app, args []string) error {
	flagSet := flag.NewFlagSet("task ls", flag.ContinueOnError)
	status := flagSet.StringP("status", "s", "", "Only this status column")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	proj, err := a.openBoard()
	if err != nil {
		return err
	}

	statuses := proj.Config.Statuses.Order
	if *status != "" {
		statuses = []string{*status}
	}

	for _, st := range statuses {
		tasks, err := proj.LoadTasks(st)
		if err != nil {
			return err
		}

		a.io.Printf("%s (%s)\n", proj.Config.Label(st), st)

		for _, task := range tasks {
			line := fmt.Sprintf("  %d\t%s", task.ID, task.Title)
			if task.Priority != board.PriorityNone {
				line += "\t[" + string(task.Priority) + "]"
			}

			if len(task.Tags) > 0 {
				line += "\t" + board.FormatTags(task.Tags)
			}

			a.io.Println(line)
		}
	}

	return nil
}

func taskShow(a *app, args []string) error {
	task, proj, err := findTask(a, args)
	if err != nil {
		return err
	}

	a.io.Printf("# %s\n\n", task.Title)
	a.io.Println("id:", task.ID)
	a.io.Println("status:", task.Status, "("+proj.Config.Label(task.Status)+")")
	a.io.Println("order:", task.Order)

	if task.Created != "" {
		a.io.Println("created:", task.Created)
	}

	if task.Priority != board.PriorityNone {
		a.io.Println("priority:", string(task.Priority))
	}

	if len(task.Tags) > 0 {
		a.io.Println("tags:", board.FormatTags(task.Tags))
	}

	if task.Body != "" {
		a.io.Printf("\n%s\n", task.Body)
	}

	return nil
}

func taskMv(a *app, args []string) error {
	if len(args) < 2 || args[1] == "" {
		if len(args) == 0 {
			return errTaskIDRequired
		}

		return errTaskStatusReq
	}

	task, proj, err := findTask(a, args[:1])
	if err != nil {
		return err
	}

	err = proj.MoveTask(&task, args[1])
	if err != nil {
		return err
	}

	a.io.Println("moved", task.ID, "to", args[1])

	return nil
}

func taskRm(a *app, args []string) error {
	task, proj, err := findTask(a, args)
	if err != nil {
		return err
	}

	err = proj.DeleteTask(task)
	if err != nil {
		return err
	}

	// Keep the index in step; orphaned entries are harmless but there is
	// no reason to create one from here.
	err = proj.RemoveFromIndex(task.ID)
	if err != nil {
		return err
	}

	a.io.Println("deleted", task.ID)

	return nil
}

// findTask parses the id argument and locates the task on the selected
// board.
func findTask(a *app, args []string) (board.Task, *project.Project, error) {
	if len(args) == 0 || args[0] == "" {
		return board.Task{}, nil, errTaskIDRequired
	}

	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return board.Task{}, nil, fmt.Errorf("%w: %q", errInvalidTaskNumber, args[0])
	}

	proj, err := a.openBoard()
	if err != nil {
		return board.Task{}, nil, err
	}

	all, err := proj.LoadAll()
	if err != nil {
		return board.Task{}, nil, err
	}

	for _, tasks := range all {
		for _, task := range tasks {
			if task.ID == id {
				return task, proj, nil
			}
		}
	}

	return board.Task{}, nil, fmt.Errorf("%w: %d", errTaskNotFound, id)
}
