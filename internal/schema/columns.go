package schema

import "fmt"

// Column is a column added to a table after it first shipped.
type Column struct {
	Table      string
	Name       string
	Definition string
}

// SQL returns the ALTER TABLE statement that adds the column.
func (c Column) SQL() string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.Table, c.Name, c.Definition)
}

// Columns lists later additions in the order they were introduced.
// Each is applied with its own statement.
var Columns = []Column{
	{"employees", "phone", "TEXT"},
	{"employees", "active", "INTEGER NOT NULL DEFAULT 1"},
	{"employees", "hired_on", "TEXT"},
	{"attendance", "checklist", "TEXT"},
	{"attendance", "photo_url", "TEXT"},
	{"kpi_entries", "note", "TEXT"},
	{"users", "last_login_at", "DATETIME"},
}
