package db

import (
	"slices"

	"github.com/shopfloor/kpidash/pkg/dialect"
)

// idempotentForm reports whether ddl is one of the statement forms whose
// "already exists" failure may be ignored on re-run.
func idempotentForm(ddl string) bool {
	words := dialect.LeadingKeywords(ddl, 8)
	if len(words) < 2 {
		return false
	}
	switch words[0] {
	case "CREATE":
		if words[1] == "UNIQUE" && len(words) > 2 {
			return words[2] == "INDEX"
		}
		return words[1] == "TABLE" || words[1] == "INDEX"
	case "ALTER":
		return words[1] == "TABLE" && slices.Contains(words[2:], "ADD")
	}
	return false
}
