// Package parser splits terminal input lines and reads exported log lines back.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"botpanel/internal/model"
)

// Command is a parsed terminal line.
type Command struct {
	Name string
	Args []string
}

// ParseCommand trims line, splits it on whitespace runs and lower-cases the
// command name. An empty or blank line yields a zero Command.
func ParseCommand(line string) Command {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}
	}
	cmd := Command{Name: strings.ToLower(fields[0])}
	if len(fields) > 1 {
		cmd.Args = fields[1:]
	}
	return cmd
}

// ErrMalformedLogLine is returned when a line does not follow the export layout.
var ErrMalformedLogLine = errors.New("malformed log line")

// ParseLogLine reads one "[timestamp] [LEVEL] message" line.
func ParseLogLine(line string) (model.LogRecord, error) {
	ts, rest, ok := bracketed(line)
	if !ok {
		return model.LogRecord{}, fmt.Errorf("%w: missing timestamp: %q", ErrMalformedLogLine, line)
	}
	rest, ok = strings.CutPrefix(rest, " ")
	if !ok {
		return model.LogRecord{}, fmt.Errorf("%w: missing separator: %q", ErrMalformedLogLine, line)
	}
	levelText, rest, ok := bracketed(rest)
	if !ok {
		return model.LogRecord{}, fmt.Errorf("%w: missing level: %q", ErrMalformedLogLine, line)
	}
	level, err := model.ParseLevel(levelText)
	if err != nil {
		return model.LogRecord{}, fmt.Errorf("%w: %v", ErrMalformedLogLine, err)
	}
	message, _ := strings.CutPrefix(rest, " ")

	return model.LogRecord{Timestamp: ts, Level: level, Message: message}, nil
}

// ParseLogText reads a newline-joined export. Blank lines are skipped.
func ParseLogText(text string) ([]model.LogRecord, error) {
	var records []model.LogRecord
	for idx, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseLogLine(line)
		if err != nil {
			return records, fmt.Errorf("line %d: %w", idx+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func bracketed(s string) (inner, rest string, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return "", s, false
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", s, false
	}
	return s[1:end], s[end+1:], true
}
