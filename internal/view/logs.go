// Package view renders the live log tail and the interactive terminal.
package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"botpanel/internal/format"
	"botpanel/internal/model"
	"botpanel/internal/ring"

	"github.com/charmbracelet/log"
)

// Streamer starts a log feed and returns its cancel function.
type Streamer interface {
	Stream(onRecord func(model.LogRecord)) (cancel func())
}

// LogOptions defines the configurable parameters for tailing logs.
type LogOptions struct {
	Format   string
	Capacity int
	Count    int
	Duration time.Duration
	Export   string
	Color    ColorOptions
	Out      io.Writer
	Logger   *log.Logger
	Now      func() time.Time
}

// LogResult reports what a tail run retained.
type LogResult struct {
	Records    []model.LogRecord
	Received   int
	ExportPath string
}

// RunLogs tails the stream until ctx ends, Count records arrive or Duration
// elapses. The most recent Capacity records are kept and optionally exported.
func RunLogs(ctx context.Context, streamer Streamer, opts LogOptions) (LogResult, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Capacity <= 0 {
		opts.Capacity = 200
	}
	formatMode := strings.ToLower(opts.Format)
	switch formatMode {
	case "":
		formatMode = "plain"
	case "plain", "text", "jsonl", "json":
	default:
		return LogResult{}, fmt.Errorf("unsupported format: %s", opts.Format)
	}

	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	buf := ring.New[model.LogRecord](opts.Capacity)
	records := make(chan model.LogRecord)
	done := make(chan struct{})
	stop := streamer.Stream(func(rec model.LogRecord) {
		select {
		case records <- rec:
		case <-done:
		}
	})
	defer func() {
		stop()
		close(done)
	}()

	colors := newPalette(opts.Out, resolveColorChoice(opts.Color, opts.Out))
	received := 0

loop:
	for opts.Count <= 0 || received < opts.Count {
		select {
		case <-ctx.Done():
			break loop
		case rec := <-records:
			received++
			buf.Push(rec)
			if err := writeLive(opts.Out, rec, formatMode, colors); err != nil {
				return LogResult{}, err
			}
		}
	}

	result := LogResult{Records: buf.Slice(), Received: received}
	if formatMode == "json" {
		if err := format.WriteLogs(opts.Out, result.Records, "json"); err != nil {
			return result, err
		}
	}
	if opts.Logger != nil {
		opts.Logger.Debug("log stream stopped", "received", received, "retained", len(result.Records))
	}

	if opts.Export != "" {
		path, err := exportLogs(opts.Export, result.Records, formatMode, opts.Now())
		if err != nil {
			return result, err
		}
		result.ExportPath = path
		if opts.Logger != nil {
			opts.Logger.Info("exported logs", "path", path, "records", len(result.Records))
		}
	}
	return result, nil
}

func writeLive(out io.Writer, rec model.LogRecord, formatMode string, colors palette) error {
	switch formatMode {
	case "jsonl":
		return format.WriteLogs(out, []model.LogRecord{rec}, "jsonl")
	case "json":
		return nil
	default:
		_, err := fmt.Fprintln(out, colors.line(rec))
		return err
	}
}

// exportLogs writes records to target. A directory target gets a timestamped file name.
func exportLogs(target string, records []model.LogRecord, formatMode string, now time.Time) (string, error) {
	path := target
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		path = filepath.Join(target, format.ExportFilename(now, formatMode))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat export target: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	defer f.Close()

	if formatMode == "plain" || formatMode == "text" {
		_, err = io.WriteString(f, format.LogText(records))
	} else {
		err = format.WriteLogs(f, records, formatMode)
	}
	if err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, f.Close()
}
