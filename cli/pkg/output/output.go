package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	// Stdout and Stderr are swapped out in tests.
	Stdout io.Writer = color.Output
	Stderr io.Writer = color.Error

	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgWhite, color.Bold)
)

func Success(format string, a ...interface{}) {
	successColor.Fprintf(Stdout, "✓ "+format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	errorColor.Fprintf(Stderr, "✗ "+format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	infoColor.Fprintf(Stdout, format+"\n", a...)
}

func Warn(format string, a ...interface{}) {
	warnColor.Fprintf(Stdout, "⚠ "+format+"\n", a...)
}

func JSON(v interface{}) error {
	enc := json.NewEncoder(Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func YAML(v interface{}) error {
	enc := yaml.NewEncoder(Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Structured writes v as JSON or YAML. It reports false for the table format
// so the caller can render its own table.
func Structured(format string, v interface{}) (bool, error) {
	switch format {
	case FormatJSON:
		return true, JSON(v)
	case FormatYAML:
		return true, YAML(v)
	case FormatTable, "":
		return false, nil
	default:
		return true, fmt.Errorf("unknown output format %q (supported: table, json, yaml)", format)
	}
}

type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, header := range t.headers {
		headerColor.Fprintf(Stdout, "%-*s  ", widths[i], header)
	}
	fmt.Fprintln(Stdout)

	for i := range t.headers {
		fmt.Fprint(Stdout, strings.Repeat("-", widths[i])+"  ")
	}
	fmt.Fprintln(Stdout)

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(Stdout, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(Stdout)
	}
}
