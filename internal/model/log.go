package model

import (
	"fmt"
	"strings"
)

// Level is the severity of a log record.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
	LevelDebug Level = "DEBUG"
)

// Levels lists every level in display order.
var Levels = []Level{LevelInfo, LevelWarn, LevelError, LevelDebug}

// ParseLevel resolves a level name case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelInfo:
		return LevelInfo, nil
	case LevelWarn:
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	case LevelDebug:
		return LevelDebug, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

// LogRecord is one line of the bot log feed.
type LogRecord struct {
	Timestamp string `json:"timestamp"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
}
