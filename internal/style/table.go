package style

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Column defines a table column with a name and fixed width.
type Column struct {
	Name  string
	Width int
	Align Alignment
}

// Alignment specifies column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// Table renders task listings (list, status) as a fixed-width aligned grid.
type Table struct {
	columns   []Column
	rows      [][]string
	headerSep bool
	indent    string
}

// NewTable creates a table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns, headerSep: true, indent: "  "}
}

// AddRow appends a row, padding with empty cells if short.
func (t *Table) AddRow(values ...string) *Table {
	for len(values) < len(t.columns) {
		values = append(values, "")
	}
	t.rows = append(t.rows, values)
	return t
}

// Render returns the formatted table.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(t.indent)
	for i, col := range t.columns {
		text := Bold.Render(col.Name)
		sb.WriteString(t.pad(text, col.Name, col.Width, col.Align))
		if i < len(t.columns)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("\n")

	if t.headerSep {
		sb.WriteString(t.indent)
		totalWidth := 0
		for i, col := range t.columns {
			totalWidth += col.Width
			if i < len(t.columns)-1 {
				totalWidth++
			}
		}
		sb.WriteString(Dim.Render(strings.Repeat("-", totalWidth)))
		sb.WriteString("\n")
	}

	for _, row := range t.rows {
		sb.WriteString(t.indent)
		for i, col := range t.columns {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			plainVal := stripAnsi(val)
			if utf8.RuneCountInString(plainVal) > col.Width {
				plainVal = truncate(plainVal, col.Width)
				val = plainVal
			}
			sb.WriteString(t.pad(val, plainVal, col.Width, col.Align))
			if i < len(t.columns)-1 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// truncate shortens s to at most width runes, appending "..." when it must
// cut content short; for very narrow columns it just hard-cuts.
func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 3 || len(runes) <= width {
		if len(runes) <= width {
			return s
		}
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func (t *Table) pad(styledText, plainText string, width int, align Alignment) string {
	plainLen := utf8.RuneCountInString(plainText)
	if plainLen >= width {
		return styledText
	}
	padding := width - plainLen

	switch align {
	case AlignRight:
		return strings.Repeat(" ", padding) + styledText
	case AlignCenter:
		left := padding / 2
		right := padding - left
		return strings.Repeat(" ", left) + styledText + strings.Repeat(" ", right)
	default:
		return styledText + strings.Repeat(" ", padding)
	}
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
