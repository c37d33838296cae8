package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"botpanel/internal/model"

	"github.com/dustin/go-humanize"
)

// SnapshotTable renders a snapshot as field/value rows.
func SnapshotTable(snap model.StatusSnapshot) model.Table {
	return model.Table{
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Bot Status", string(snap.Status)},
			{"PID", strconv.Itoa(snap.PID)},
			{"CPU", fmt.Sprintf("%d%%", snap.CPUPercent)},
			{"RAM", fmt.Sprintf("%s / %s MB (%d%%)", humanize.Comma(int64(snap.RAMUsedMB)), humanize.Comma(int64(snap.RAMTotalMB)), snap.RAMPercent())},
			{"Storage", fmt.Sprintf("%d / %d GB (%d%%)", snap.StorageUsedGB, snap.StorageTotalGB, snap.StoragePercent())},
			{"Network", fmt.Sprintf("%d / %d Mbps (%d%%)", snap.NetworkSpeedMbps, snap.NetworkMaxMbps, snap.NetworkPercent())},
			{"Connections", humanize.Comma(int64(snap.Connections))},
		},
	}
}

// WriteSnapshot writes snap to w in the requested format.
func WriteSnapshot(w io.Writer, snap model.StatusSnapshot, format string, width int) error {
	format = strings.ToLower(format)
	switch format {
	case "", "table":
		return writeTable(w, SnapshotTable(snap), width)
	case "plain":
		return writeSnapshotPlain(w, snap)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeSnapshotPlain(w io.Writer, snap model.StatusSnapshot) error {
	fields := []struct {
		key   string
		value any
	}{
		{"status", snap.Status},
		{"pid", snap.PID},
		{"cpu_percent", snap.CPUPercent},
		{"ram_used_mb", snap.RAMUsedMB},
		{"ram_total_mb", snap.RAMTotalMB},
		{"ram_percent", snap.RAMPercent()},
		{"storage_used_gb", snap.StorageUsedGB},
		{"storage_total_gb", snap.StorageTotalGB},
		{"storage_percent", snap.StoragePercent()},
		{"network_speed_mbps", snap.NetworkSpeedMbps},
		{"network_max_mbps", snap.NetworkMaxMbps},
		{"network_percent", snap.NetworkPercent()},
		{"connections", snap.Connections},
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%s\t%v\n", f.key, f.value); err != nil {
			return err
		}
	}
	return nil
}
