// Package terminal implements the panel's pseudo-terminal command interpreter.
package terminal

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"botpanel/internal/format"
	"botpanel/internal/model"
	"botpanel/internal/parser"
)

// StatusSource supplies status snapshots for the status command.
type StatusSource interface {
	Snapshot(ctx context.Context) (model.StatusSnapshot, error)
}

type handler func(ctx context.Context, s *Session, args []string) model.CommandResult

type command struct {
	description string
	run         handler
}

// Interpreter dispatches parsed lines to a fixed set of commands.
type Interpreter struct {
	source   StatusSource
	commands map[string]command
}

// NewInterpreter returns an interpreter whose status command reads from source.
func NewInterpreter(source StatusSource) *Interpreter {
	in := &Interpreter{source: source}
	in.commands = map[string]command{
		"help":    {"Show this help message.", in.help},
		"status":  {"Get current bot and system status.", in.status},
		"ls":      {"List mock directories.", listEntries},
		"clear":   {"Clear the terminal screen.", clearScreen},
		"history": {"Show commands entered in this session.", showHistory},
		"whoami":  {"Show the current terminal session.", whoami},
	}
	return in
}

// Execute runs line without a session. Session-bound commands see an empty history.
func (in *Interpreter) Execute(ctx context.Context, line string) model.CommandResult {
	return in.execute(ctx, nil, line)
}

func (in *Interpreter) execute(ctx context.Context, s *Session, line string) model.CommandResult {
	cmd := parser.ParseCommand(line)
	if cmd.Name == "" {
		return model.Text{}
	}
	c, ok := in.commands[cmd.Name]
	if !ok {
		return model.Error{
			Kind:    model.ErrorUnknownCommand,
			Message: fmt.Sprintf("command not found: %s", cmd.Name),
		}
	}
	return c.run(ctx, s, cmd.Args)
}

// Commands returns the recognized command names in sorted order.
func (in *Interpreter) Commands() []string {
	names := make([]string, 0, len(in.commands))
	for name := range in.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (in *Interpreter) help(context.Context, *Session, []string) model.CommandResult {
	names := in.Commands()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, in.commands[name].description})
	}
	return model.Table{Header: []string{"Command", "Description"}, Rows: rows}
}

func (in *Interpreter) status(ctx context.Context, _ *Session, _ []string) model.CommandResult {
	if in.source == nil {
		return fetchFailure(fmt.Errorf("%w: no status source configured", model.ErrFetchFailure))
	}
	snap, err := in.source.Snapshot(ctx)
	if err != nil {
		return fetchFailure(err)
	}
	return format.SnapshotTable(snap)
}

func fetchFailure(err error) model.CommandResult {
	return model.Error{Kind: model.ErrorFetchFailure, Message: fmt.Sprintf("status: %v", err)}
}

func listEntries(context.Context, *Session, []string) model.CommandResult {
	return model.Table{
		Header: []string{"Path", "Type"},
		Rows: [][]string{
			{"/logs", "dir"},
			{"/users", "dir"},
			{"config.env", "file"},
		},
	}
}

func clearScreen(context.Context, *Session, []string) model.CommandResult {
	return model.Clear{}
}

func showHistory(_ context.Context, s *Session, _ []string) model.CommandResult {
	table := model.Table{Header: []string{"#", "Command"}}
	if s == nil {
		return table
	}
	for _, entry := range s.History() {
		table.Rows = append(table.Rows, []string{strconv.Itoa(entry.Sequence), entry.Command})
	}
	return table
}

func whoami(_ context.Context, s *Session, _ []string) model.CommandResult {
	if s == nil {
		return model.Text{Body: "no active session"}
	}
	return model.Text{Body: fmt.Sprintf("session %s (started %s)", s.ID(), s.StartedAt().Format(time.RFC3339))}
}
