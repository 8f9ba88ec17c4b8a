package warehouse

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxRenderRows  = 50
	maxCellWidth   = 48
	maxRenderBytes = 16 * 1024
)

// FormatResult renders a result as a bounded plain-text table. The output is
// what the model reads, so it caps rows, cell widths, and total size.
func FormatResult(result *QueryResult) string {
	if result == nil || result.RowCount == 0 {
		return "(no rows)"
	}

	rows := result.Rows
	omitted := 0
	if len(rows) > maxRenderRows {
		omitted = len(rows) - maxRenderRows
		rows = rows[:maxRenderRows]
	}

	cells := make([][]string, 0, len(rows))
	widths := make([]int, len(result.Columns))
	for i, col := range result.Columns {
		widths[i] = utf8.RuneCountInString(col)
	}
	for _, row := range rows {
		line := make([]string, len(result.Columns))
		for i := range result.Columns {
			var v interface{}
			if i < len(row) {
				v = row[i]
			}
			line[i] = formatValue(v)
			if n := utf8.RuneCountInString(line[i]); n > widths[i] {
				widths[i] = n
			}
		}
		cells = append(cells, line)
	}

	var b strings.Builder
	writeRow := func(line []string) {
		for i, cell := range line {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if pad := widths[i] - utf8.RuneCountInString(cell); pad > 0 && i < len(line)-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		b.WriteByte('\n')
	}

	writeRow(result.Columns)
	for _, line := range cells {
		writeRow(line)
		if b.Len() > maxRenderBytes {
			b.WriteString("... output truncated\n")
			break
		}
	}

	switch {
	case omitted > 0:
		fmt.Fprintf(&b, "(%d rows, %d not shown)", result.RowCount, omitted)
	case result.Truncated:
		fmt.Fprintf(&b, "(%d rows, result truncated at row cap)", result.RowCount)
	default:
		fmt.Fprintf(&b, "(%d rows)", result.RowCount)
	}
	return b.String()
}

func formatValue(v interface{}) string {
	var s string
	switch t := v.(type) {
	case nil:
		s = "NULL"
	case time.Time:
		s = t.UTC().Format(time.RFC3339)
	case float64:
		s = fmt.Sprintf("%g", t)
	case []byte:
		s = string(t)
	default:
		s = fmt.Sprintf("%v", t)
	}
	if runes := []rune(s); len(runes) > maxCellWidth {
		s = string(runes[:maxCellWidth-3]) + "..."
	}
	return s
}
