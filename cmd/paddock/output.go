package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pointsheet/paddock/pkg/jsonutil"
)

// Output formats accepted by --format.
const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// printTable renders rows as a bordered table.
func printTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// emit writes v as JSON or hands over to the table printer.
func emit(w io.Writer, format string, v any, headers []string, rows [][]string) error {
	switch format {
	case formatJSON:
		return jsonutil.Encode(w, v)
	case formatTable, "":
		if len(rows) == 0 {
			_, err := fmt.Fprintln(w, "Nothing to show.")
			return err
		}
		return printTable(w, headers, rows)
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatTable, formatJSON)
	}
}
