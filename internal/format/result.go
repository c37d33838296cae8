// Package format provides rendering functions for command results, snapshots and logs.
package format

import (
	"fmt"
	"io"

	"botpanel/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteResult renders a command result to w. Tables are wrapped to fit width
// when width is positive.
func WriteResult(w io.Writer, result model.CommandResult, width int) error {
	switch r := result.(type) {
	case model.Text:
		if r.Body == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, r.Body)
		return err
	case model.Table:
		return writeTable(w, r, width)
	case model.Error:
		_, err := fmt.Fprintf(w, "error: %s\n", r.Message)
		return err
	case model.Clear, nil:
		return nil
	default:
		return fmt.Errorf("unsupported result type %T", result)
	}
}

func writeTable(w io.Writer, t model.Table, width int) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true

	columns := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > columns {
			columns = len(row)
		}
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 1; i <= columns; i++ {
		cfg := table.ColumnConfig{Number: i, Align: text.AlignLeft, AlignHeader: text.AlignCenter}
		if i == columns && width > 0 {
			// Leave room for borders and the other columns; never go below 20.
			if limit := width - 4*columns - 20; limit > 20 {
				cfg.WidthMax = limit
			} else {
				cfg.WidthMax = 20
			}
		}
		configs = append(configs, cfg)
	}
	tw.SetColumnConfigs(configs)

	if len(t.Header) > 0 {
		tw.AppendHeader(toRow(t.Header))
	}
	for _, row := range t.Rows {
		tw.AppendRow(toRow(row))
	}
	if len(t.Rows) == 0 {
		empty := make(table.Row, columns)
		for i := range empty {
			empty[i] = "-"
		}
		if columns > 0 {
			tw.AppendRow(empty)
		}
	}

	_ = tw.Render()
	return nil
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	return row
}
