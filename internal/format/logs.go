package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"botpanel/internal/model"
)

// LogLine renders a record as "[timestamp] [LEVEL] message".
func LogLine(rec model.LogRecord) string {
	return fmt.Sprintf("[%s] [%s] %s", rec.Timestamp, rec.Level, rec.Message)
}

// LogText joins records into the plain-text export, one record per line.
func LogText(records []model.LogRecord) string {
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = LogLine(rec)
	}
	return strings.Join(lines, "\n")
}

// WriteLogs writes records to w in the requested format.
func WriteLogs(w io.Writer, records []model.LogRecord, format string) error {
	format = strings.ToLower(format)
	switch format {
	case "", "plain", "text":
		for _, rec := range records {
			if _, err := fmt.Fprintln(w, LogLine(rec)); err != nil {
				return err
			}
		}
		return nil
	case "json":
		if records == nil {
			records = []model.LogRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "jsonl":
		enc := json.NewEncoder(w)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// ExportFilename names a log download taken at t.
func ExportFilename(t time.Time, format string) string {
	ext := "txt"
	switch strings.ToLower(format) {
	case "json":
		ext = "json"
	case "jsonl":
		ext = "jsonl"
	}
	return fmt.Sprintf("bot-logs-%s.%s", t.UTC().Format("2006-01-02T15-04-05Z"), ext)
}
