package warehouse

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotReadOnly is returned when a statement is not a plain SELECT.
var ErrNotReadOnly = errors.New("only SELECT statements are allowed")

// readOnlyPrefixes are the statement keywords accepted by the gate.
var readOnlyPrefixes = []string{"SELECT", "WITH"}

// CheckReadOnly inspects the statement type and rejects anything that is not
// a single SELECT (optionally CTE-prefixed) statement. This is the hard gate
// behind the advisory prompt instruction; it runs before every dry run and
// execution.
func CheckReadOnly(sql string) error {
	masked := maskStatement(sql)

	trimmed := strings.TrimSpace(masked)
	if trimmed == "" {
		return fmt.Errorf("%w: empty statement", ErrNotReadOnly)
	}

	// A single trailing semicolon is fine; anything after one is a second
	// statement.
	if i := strings.Index(trimmed, ";"); i >= 0 {
		if rest := strings.TrimSpace(trimmed[i+1:]); rest != "" {
			return fmt.Errorf("%w: multiple statements", ErrNotReadOnly)
		}
	}

	fields := strings.Fields(trimmed)
	first := strings.ToUpper(strings.TrimRight(fields[0], ";"))
	for _, prefix := range readOnlyPrefixes {
		if first == prefix {
			return nil
		}
	}
	return fmt.Errorf("%w: statement starts with %s", ErrNotReadOnly, first)
}

// maskStatement removes -- line comments and /* */ block comments and blanks
// out the contents of quoted literals and backtick identifiers, so the
// statement-type and semicolon checks see only structural text. Comment
// markers and semicolons inside literals are data, not syntax.
func maskStatement(sql string) string {
	var b strings.Builder
	var quote byte
	inLine := false
	inBlock := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case inLine:
			if c == '\n' {
				inLine = false
				b.WriteByte('\n')
			}
		case inBlock:
			if c == '*' && i+1 < len(sql) && sql[i+1] == '/' {
				inBlock = false
				i++
			}
		case quote != 0:
			if c == '\\' && quote != '`' {
				b.WriteByte('_')
				i++ // the escaped character stays masked
			} else if c == quote {
				quote = 0
				b.WriteByte(c)
			} else {
				b.WriteByte('_')
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(c)
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			inLine = true
			i++
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			inBlock = true
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
