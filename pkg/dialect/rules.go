package dialect

import (
	"regexp"
	"strings"
)

// SchemaRule is a single textual substitution applied to canonical DDL.
type SchemaRule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply rewrites every match of the rule in ddl. Matches whose first
// non-blank byte is inside a string literal, quoted identifier or comment
// are left alone.
func (r SchemaRule) Apply(ddl string) string {
	locs := r.Pattern.FindAllStringSubmatchIndex(ddl, -1)
	if len(locs) == 0 {
		return ddl
	}
	code := codeMask(ddl)

	out := make([]byte, 0, len(ddl))
	last := 0
	for _, loc := range locs {
		if !startsInCode(ddl, code, loc[0], loc[1]) {
			continue
		}
		out = append(out, ddl[last:loc[0]]...)
		out = r.Pattern.ExpandString(out, r.Replacement, ddl, loc)
		last = loc[1]
	}
	return string(append(out, ddl[last:]...))
}

func startsInCode(s string, code []bool, start, end int) bool {
	for start < end && strings.IndexByte(" \t\r\n\f\v", s[start]) >= 0 {
		start++
	}
	return start >= end || code[start]
}

// PostgresSchemaRules converts canonical DDL to PostgreSQL. Order matters:
// the compound autoincrement key must be rewritten before the bare keyword
// is stripped, and the datetime('now') default before DATETIME is renamed.
var PostgresSchemaRules = []SchemaRule{
	{
		Name:        "autoincrement-primary-key",
		Pattern:     regexp.MustCompile(`(?i)\bINTEGER\s+PRIMARY\s+KEY\s+AUTOINCREMENT\b`),
		Replacement: "SERIAL PRIMARY KEY",
	},
	{
		Name:        "bare-autoincrement",
		Pattern:     regexp.MustCompile(`(?i)[ \t]*\bAUTOINCREMENT\b`),
		Replacement: "",
	},
	{
		Name:        "datetime-now-default",
		Pattern:     regexp.MustCompile(`(?i)\bDEFAULT\s*\(\s*datetime\s*\(\s*'now'(?:\s*,\s*'localtime')?\s*\)\s*\)`),
		Replacement: "DEFAULT CURRENT_TIMESTAMP",
	},
	{
		Name:        "datetime",
		Pattern:     regexp.MustCompile(`(?i)\bDATETIME\b`),
		Replacement: "TIMESTAMP",
	},
	{
		Name:        "real",
		Pattern:     regexp.MustCompile(`(?i)\bREAL\b`),
		Replacement: "NUMERIC",
	},
}

// TranslateSchema applies rules to ddl in order. DDL matching none of the
// rules is returned unchanged.
func TranslateSchema(ddl string, rules []SchemaRule) string {
	for _, r := range rules {
		ddl = r.Apply(ddl)
	}
	return ddl
}
