package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopfloor/kpidash/pkg/core"
)

// columnsOf returns the union of keys across rows. Rows are maps, so the
// select-list order is gone: "id" leads and the rest are alphabetical.
func columnsOf(rows []core.Row) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Slice(cols, func(i, j int) bool {
		if cols[i] == "id" || cols[j] == "id" {
			return cols[i] == "id"
		}
		return cols[i] < cols[j]
	})
	return cols
}

func renderRows(w io.Writer, rows []core.Row, format string) error {
	cols := columnsOf(rows)
	switch format {
	case "json":
		return renderJSON(w, rows)
	case "csv":
		return renderCSV(w, cols, rows)
	case "md", "markdown":
		return renderMarkdown(w, cols, rows)
	default:
		return renderTable(w, cols, rows)
	}
}

// renderResult prints the outcome of a statement that returns no rows.
func renderResult(w io.Writer, res core.Result, format string) error {
	if format == "json" {
		out := map[string]any{"rows_affected": res.RowsAffected}
		if res.LastInsertID.Valid {
			out["last_insert_id"] = res.LastInsertID.Int64
		}
		return renderJSON(w, out)
	}
	_, _ = fmt.Fprintf(w, "(%d rows affected)\n", res.RowsAffected)
	if res.LastInsertID.Valid {
		_, _ = fmt.Fprintf(w, "last insert id: %d\n", res.LastInsertID.Int64)
	}
	return nil
}

func renderSchemaDone(w io.Writer, format string) error {
	if format == "json" {
		return renderJSON(w, map[string]any{"status": "ok"})
	}
	_, _ = fmt.Fprintln(w, "OK")
	return nil
}

func renderTable(w io.Writer, cols []string, rows []core.Row) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, r := range rows {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(r[col])
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCSV(w io.Writer, cols []string, rows []core.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, r := range rows {
		record := make([]string, len(cols))
		for i, col := range cols {
			record[i] = formatValue(r[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderMarkdown(w io.Writer, cols []string, rows []core.Row) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, r := range rows {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(r[col])
		}
		t.AppendRow(row)
	}
	t.RenderMarkdown()
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
