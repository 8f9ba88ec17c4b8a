package warehouse

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatResultEmpty(t *testing.T) {
	if got := FormatResult(nil); got != "(no rows)" {
		t.Errorf("FormatResult(nil) = %q", got)
	}
	if got := FormatResult(&QueryResult{}); got != "(no rows)" {
		t.Errorf("FormatResult(empty) = %q", got)
	}
}

func TestFormatResultTable(t *testing.T) {
	result := &QueryResult{
		Columns: []string{"city", "temperature"},
		Rows: [][]interface{}{
			{"Toronto", 21.5},
			{"Vancouver", nil},
		},
		RowCount: 2,
	}

	out := FormatResult(result)

	for _, want := range []string{"city", "temperature", "Toronto", "21.5", "Vancouver", "NULL", "(2 rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatResultBoundsRows(t *testing.T) {
	result := &QueryResult{
		Columns:  []string{"n"},
		RowCount: maxRenderRows + 10,
	}
	for i := 0; i < maxRenderRows+10; i++ {
		result.Rows = append(result.Rows, []interface{}{i})
	}

	out := FormatResult(result)
	if !strings.Contains(out, "10 not shown") {
		t.Errorf("expected omitted-row marker, got:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines > maxRenderRows+2 {
		t.Errorf("rendered %d lines, expected at most %d", lines, maxRenderRows+2)
	}
}

func TestFormatResultTruncatedFlag(t *testing.T) {
	result := &QueryResult{
		Columns:   []string{"n"},
		Rows:      [][]interface{}{{1}},
		RowCount:  1,
		Truncated: true,
	}
	if out := FormatResult(result); !strings.Contains(out, "row cap") {
		t.Errorf("expected row-cap marker, got %q", out)
	}
}

func TestFormatValueTruncatesLongCells(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := formatValue(long)
	if len(got) > maxCellWidth {
		t.Errorf("cell length %d exceeds cap %d", len(got), maxCellWidth)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestFormatValueTruncatesOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("21.5°C ", 20)
	got := formatValue(long)
	if !utf8.ValidString(got) {
		t.Errorf("truncation produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n > maxCellWidth {
		t.Errorf("cell is %d runes, cap is %d", n, maxCellWidth)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestFormatResultAlignsMultibyteCells(t *testing.T) {
	result := &QueryResult{
		Columns: []string{"condition", "temperature"},
		Rows: [][]interface{}{
			{"légère pluie", "21.5°C"},
			{"clear", "18°C"},
		},
		RowCount: 2,
	}

	out := FormatResult(result)
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", out)
	}

	// the second column must start at the same rune offset on every row
	offset := -1
	for _, line := range lines[:3] {
		idx := strings.Index(line, "  ")
		if idx < 0 {
			t.Fatalf("no column separator in %q", line)
		}
		col := utf8.RuneCountInString(line[:idx])
		sep := line[idx:]
		for strings.HasPrefix(sep, " ") {
			col++
			sep = sep[1:]
		}
		if offset == -1 {
			offset = col
		} else if col != offset {
			t.Errorf("second column starts at rune %d, expected %d:\n%s", col, offset, out)
		}
	}
}
