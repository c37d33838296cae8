// Package model provides the shared types for the terminal and status feed.
package model

import (
	"errors"
	"time"
)

// ErrorKind classifies a failed command.
type ErrorKind string

const (
	// ErrorUnknownCommand marks input that matched no command.
	ErrorUnknownCommand ErrorKind = "unknown_command"
	// ErrorFetchFailure marks a status snapshot that could not be retrieved.
	ErrorFetchFailure ErrorKind = "fetch_failure"
)

var (
	// ErrUnknownCommand is the sentinel behind ErrorUnknownCommand results.
	ErrUnknownCommand = errors.New("command not found")
	// ErrFetchFailure is the sentinel behind ErrorFetchFailure results.
	ErrFetchFailure = errors.New("status fetch failed")
)

// CommandResult is the outcome of executing one terminal line.
// The set of implementations is closed: Text, Table, Error and Clear.
type CommandResult interface {
	isCommandResult()
}

// Text is a free-form result body.
type Text struct {
	Body string
}

// Table is an ordered set of rows, with an optional header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Error reports a command failure local to one execution.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Clear tells the session to discard its history.
type Clear struct{}

func (Text) isCommandResult()  {}
func (Table) isCommandResult() {}
func (Error) isCommandResult() {}
func (Clear) isCommandResult() {}

// Err maps the result onto its sentinel so callers can use errors.Is.
func (e Error) Err() error {
	switch e.Kind {
	case ErrorUnknownCommand:
		return ErrUnknownCommand
	case ErrorFetchFailure:
		return ErrFetchFailure
	default:
		return errors.New(e.Message)
	}
}

func (e Error) Error() string { return e.Message }

// HistoryEntry is one submitted line and its result.
type HistoryEntry struct {
	Sequence int
	Command  string
	Result   CommandResult
	At       time.Time
}
