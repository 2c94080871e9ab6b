package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Table wraps text/tabwriter with column-aligned output. Headers and a dash
// divider are written on the first Row, so an empty table prints nothing.
type Table struct {
	w       *tabwriter.Writer
	headers []string
	prefix  string
	rows    int
}

// NewTable creates a table on stdout with the given column headers.
func NewTable(headers ...string) *Table {
	return NewTableTo(os.Stdout, headers...)
}

// NewTableTo creates a table writing to out.
func NewTableTo(out io.Writer, headers ...string) *Table {
	return &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
}

// WithPrefix sets a string prepended to each line.
func (t *Table) WithPrefix(prefix string) *Table {
	t.prefix = prefix
	return t
}

// Row writes a tab-separated row.
func (t *Table) Row(values ...string) {
	if t.rows == 0 {
		t.line(t.headers)
		dividers := make([]string, len(t.headers))
		for i, h := range t.headers {
			dividers[i] = strings.Repeat("-", len(h))
		}
		t.line(dividers)
	}
	t.rows++
	t.line(values)
}

// Rows returns the number of data rows written.
func (t *Table) Rows() int {
	return t.rows
}

// Flush writes any buffered output.
func (t *Table) Flush() error {
	if t.rows == 0 {
		return nil
	}
	return t.w.Flush()
}

func (t *Table) line(cells []string) {
	fmt.Fprintln(t.w, t.prefix+strings.Join(cells, "\t"))
}
