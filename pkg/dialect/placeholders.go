package dialect

import (
	"strconv"
	"strings"
)

// TranslatePlaceholders rewrites every positional "?" into "$1", "$2", ...
// in left-to-right order. Question marks inside string literals, quoted
// identifiers and comments are left alone.
//
// The placeholder count is not checked against the bound parameters; a
// mismatch surfaces as a backend error.
func TranslatePlaceholders(sql string) string {
	return numberPlaceholders(sql, dollarPlaceholder)
}

func dollarPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// numberPlaceholders replaces the nth positional "?" with format(n).
func numberPlaceholders(sql string, format func(int) string) string {
	if !strings.Contains(sql, "?") {
		return sql
	}

	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := 0
	scanCode(sql, func(i int, code bool) {
		if code && sql[i] == '?' {
			n++
			b.WriteString(format(n))
			return
		}
		b.WriteByte(sql[i])
	})
	return b.String()
}

// CountPlaceholders returns the number of positional placeholders in sql.
func CountPlaceholders(sql string) int {
	n := 0
	scanCode(sql, func(i int, code bool) {
		if code && sql[i] == '?' {
			n++
		}
	})
	return n
}
