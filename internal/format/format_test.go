package format

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"botpanel/internal/model"
	"botpanel/internal/parser"
)

func sampleSnapshot() model.StatusSnapshot {
	return model.StatusSnapshot{
		CPUPercent:       42,
		RAMUsedMB:        2048,
		RAMTotalMB:       8192,
		StorageUsedGB:    256,
		StorageTotalGB:   512,
		NetworkSpeedMbps: 100,
		NetworkMaxMbps:   1000,
		Connections:      2500,
		Status:           model.StatusOffline,
		PID:              1001,
	}
}

func sampleRecords() []model.LogRecord {
	return []model.LogRecord{
		{Timestamp: "09:00:00", Level: model.LevelInfo, Message: "User nova authenticated successfully"},
		{Timestamp: "09:00:02", Level: model.LevelDebug, Message: "API call to api.geo.io took 120ms"},
		{Timestamp: "09:00:03", Level: model.LevelError, Message: `User kai sent a message: "Status today."`},
	}
}

func TestWriteResultText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResult(&buf, model.Text{Body: "hello"}, 0); err != nil {
		t.Fatalf("WriteResult returned error: %v", err)
	}
	if buf.String() != "hello\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	for _, r := range []model.CommandResult{model.Text{}, model.Clear{}, nil} {
		if err := WriteResult(&buf, r, 0); err != nil {
			t.Fatalf("WriteResult(%#v) returned error: %v", r, err)
		}
	}
	if buf.Len() != 0 {
		t.Fatalf("empty results should print nothing, got %q", buf.String())
	}
}

func TestWriteResultError(t *testing.T) {
	var buf bytes.Buffer
	err := WriteResult(&buf, model.Error{Kind: model.ErrorUnknownCommand, Message: "command not found: x"}, 0)
	if err != nil {
		t.Fatalf("WriteResult returned error: %v", err)
	}
	if buf.String() != "error: command not found: x\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestWriteResultTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := model.Table{
		Header: []string{"Path", "Type"},
		Rows:   [][]string{{"/logs", "dir"}, {"config.env", "file"}},
	}
	if err := WriteResult(&buf, tbl, 80); err != nil {
		t.Fatalf("WriteResult returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "PATH") || !strings.Contains(out, "TYPE") {
		t.Fatalf("table header missing expected columns:\n%s", out)
	}
	if strings.Index(out, "/logs") > strings.Index(out, "config.env") {
		t.Fatalf("table row order unexpected:\n%s", out)
	}
	if !strings.HasPrefix(out, "╭") {
		t.Fatalf("expected rounded border:\n%s", out)
	}
}

func TestWriteResultEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResult(&buf, model.Table{Header: []string{"#", "Command"}}, 0); err != nil {
		t.Fatalf("WriteResult returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "COMMAND") {
		t.Fatalf("empty table should still show its header:\n%s", buf.String())
	}
}

func TestWriteSnapshotPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, sampleSnapshot(), "plain", 0); err != nil {
		t.Fatalf("WriteSnapshot plain returned error: %v", err)
	}

	expected := strings.Join([]string{
		"status\tOffline",
		"pid\t1001",
		"cpu_percent\t42",
		"ram_used_mb\t2048",
		"ram_total_mb\t8192",
		"ram_percent\t25",
		"storage_used_gb\t256",
		"storage_total_gb\t512",
		"storage_percent\t50",
		"network_speed_mbps\t100",
		"network_max_mbps\t1000",
		"network_percent\t10",
		"connections\t2500",
	}, "\n") + "\n"

	if got := buf.String(); got != expected {
		t.Fatalf("plain output mismatch:\nexpected: %q\nactual:   %q", expected, got)
	}
}

func TestWriteSnapshotTableAndJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, sampleSnapshot(), "TABLE", 0); err != nil {
		t.Fatalf("WriteSnapshot table returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "2,500") || !strings.Contains(buf.String(), "2,048 / 8,192 MB (25%)") {
		t.Fatalf("table output missing humanized values:\n%s", buf.String())
	}

	buf.Reset()
	if err := WriteSnapshot(&buf, sampleSnapshot(), "json", 0); err != nil {
		t.Fatalf("WriteSnapshot json returned error: %v", err)
	}
	if !strings.Contains(buf.String(), `"cpu_percent": 42`) || !strings.Contains(buf.String(), `"status": "Offline"`) {
		t.Fatalf("json output unexpected: %s", buf.String())
	}

	if err := WriteSnapshot(&buf, sampleSnapshot(), "xml", 0); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLogTextRoundTrip(t *testing.T) {
	records := sampleRecords()
	text := LogText(records)

	lines := strings.Split(text, "\n")
	if len(lines) != len(records) {
		t.Fatalf("expected %d lines, got %d", len(records), len(lines))
	}
	if lines[0] != "[09:00:00] [INFO] User nova authenticated successfully" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}

	parsed, err := parser.ParseLogText(text)
	if err != nil {
		t.Fatalf("ParseLogText returned error: %v", err)
	}
	if len(parsed) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(parsed))
	}
	for i := range records {
		if parsed[i] != records[i] {
			t.Fatalf("record %d mismatch: %+v != %+v", i, parsed[i], records[i])
		}
	}
}

func TestWriteLogsJSONL(t *testing.T) {
	var buf bytes.Buffer
	items := sampleRecords()

	if err := WriteLogs(&buf, items, "jsonl"); err != nil {
		t.Fatalf("WriteLogs jsonl returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != len(items) {
		t.Fatalf("expected %d lines, got %d", len(items), len(lines))
	}
	if !strings.Contains(lines[1], `"level":"DEBUG"`) || !strings.Contains(lines[1], `"timestamp":"09:00:02"`) {
		t.Fatalf("second jsonl line unexpected: %s", lines[1])
	}
}

func TestWriteLogsInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLogs(&buf, sampleRecords(), "csv"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	if got := ExportFilename(ts, "plain"); got != "bot-logs-2025-10-01T12-00-00Z.txt" {
		t.Fatalf("unexpected filename: %s", got)
	}
	if got := ExportFilename(ts, "jsonl"); got != "bot-logs-2025-10-01T12-00-00Z.jsonl" {
		t.Fatalf("unexpected filename: %s", got)
	}
}
