// Package sqlfilter validates the SQL-like metadata filter before it
// is forwarded to the search service. The filter is pass-through text
// for the upstream query engine; validation here only rejects input
// that can never be a single well-formed SELECT.
package sqlfilter

import (
	"fmt"
	"strings"
)

// MaxLength is the maximum accepted filter length in bytes.
const MaxLength = 4096

// Normalize validates a raw SQL filter and returns its trimmed form.
// An empty or whitespace-only filter normalizes to "" without error.
func Normalize(raw string) (string, error) {
	sql := strings.TrimSpace(raw)
	if sql == "" {
		return "", nil
	}
	if len(sql) > MaxLength {
		return "", fmt.Errorf("filter exceeds %d bytes", MaxLength)
	}
	if !startsWithSelect(sql) {
		return "", fmt.Errorf("filter must be a SELECT statement")
	}
	if err := checkSingleStatement(sql); err != nil {
		return "", err
	}
	return sql, nil
}

func startsWithSelect(sql string) bool {
	const kw = "select"
	if len(sql) < len(kw) {
		return false
	}
	head := strings.ToLower(sql[:len(kw)])
	if head != kw {
		return false
	}
	// "selection" is not a SELECT.
	if len(sql) > len(kw) {
		next := sql[len(kw)]
		if next != ' ' && next != '\t' && next != '\n' && next != '\r' {
			return false
		}
	}
	return true
}

// checkSingleStatement rejects statement separators and comment
// sequences outside of string literals.
func checkSingleStatement(sql string) error {
	inString := false
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if inString {
			if c == '\'' {
				// '' is an escaped quote inside a literal
				if i+1 < len(sql) && sql[i+1] == '\'' {
					i++
					continue
				}
				inString = false
			}
			continue
		}
		switch c {
		case '\'':
			inString = true
		case ';':
			return fmt.Errorf("filter must be a single statement")
		case '-':
			if i+1 < len(sql) && sql[i+1] == '-' {
				return fmt.Errorf("filter must not contain comments")
			}
		case '/':
			if i+1 < len(sql) && sql[i+1] == '*' {
				return fmt.Errorf("filter must not contain comments")
			}
		}
	}
	if inString {
		return fmt.Errorf("unterminated string literal")
	}
	return nil
}
