// Package table renders plain text tables with box borders. Cell widths are
// measured in terminal columns with ANSI color sequences ignored, so colored
// cells stay aligned.
package table

import (
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Alignment of text within a cell.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func displayWidth(s string) int {
	return runewidth.StringWidth(stripAnsi(s))
}

type Table struct {
	writer      io.Writer
	header      []string
	columnAlign []Alignment
	headerAlign []Alignment
	rows        [][]string
}

// NewTable returns an empty table that renders to w.
func NewTable(w io.Writer) *Table {
	return &Table{writer: w}
}

func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

func (t *Table) WithColumnAlignment(align []Alignment) *Table {
	t.columnAlign = align
	return t
}

func (t *Table) WithHeaderAlignment(align []Alignment) *Table {
	t.headerAlign = align
	return t
}

func (t *Table) WithRows(rows [][]string) *Table {
	t.rows = append(t.rows, rows...)
	return t
}

func (t *Table) Append(row []string) *Table {
	t.rows = append(t.rows, row)
	return t
}

func (t *Table) columnCount() int {
	n := len(t.header)
	for _, row := range t.rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

func (t *Table) widths() []int {
	widths := make([]int, t.columnCount())
	measure := func(row []string) {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

// Render writes the table. Write errors are returned to the caller.
func (t *Table) Render() error {
	widths := t.widths()
	var b strings.Builder
	separator := t.separator(widths)
	b.WriteString(separator)
	if len(t.header) > 0 {
		b.WriteString(t.line(t.header, widths, t.headerAlign))
		b.WriteString(separator)
	}
	for _, row := range t.rows {
		b.WriteString(t.line(row, widths, t.columnAlign))
	}
	if len(t.rows) > 0 {
		b.WriteString(separator)
	}
	_, err := io.WriteString(t.writer, b.String())
	return err
}

func (t *Table) separator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
	return b.String()
}

func (t *Table) line(row []string, widths []int, align []Alignment) string {
	var b strings.Builder
	b.WriteByte('|')
	for i, w := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		alignment := AlignLeft
		if i < len(align) {
			alignment = align[i]
		}
		b.WriteByte(' ')
		b.WriteString(pad(cell, w, alignment))
		b.WriteString(" |")
	}
	b.WriteByte('\n')
	return b.String()
}

func pad(cell string, width int, align Alignment) string {
	gap := width - displayWidth(cell)
	if gap <= 0 {
		return cell
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + cell
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}
