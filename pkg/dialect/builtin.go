package dialect

import "github.com/shopfloor/kpidash/pkg/core"

// builtinSQLite is the canonical dialect. Statements pass through untouched.
var builtinSQLite = NewDialect(core.TypeSQLite).
	Placeholders(core.PlaceholderQuestion).
	Build()

// builtinPostgres rewrites canonical statements for PostgreSQL.
var builtinPostgres = NewDialect(core.TypePostgres).
	Placeholders(core.PlaceholderDollar).
	SchemaRules(PostgresSchemaRules...).
	Returning("id").
	Build()

func init() {
	Register(builtinSQLite)
	Register(builtinPostgres)
}
