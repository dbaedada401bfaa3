package dialect

// IsInsert reports whether the statement's leading keyword is INSERT.
func IsInsert(sql string) bool {
	return LeadingKeyword(sql) == "INSERT"
}

// AppendReturningClause asks an INSERT to hand back the generated column.
// Statements that are not inserts, or that already contain RETURNING, are
// returned unchanged. Trailing semicolons and comments are dropped so the
// clause lands in code.
func AppendReturningClause(sql, column string) string {
	if !IsInsert(sql) || ContainsKeyword(sql, "RETURNING") {
		return sql
	}
	return trimTail(sql) + " RETURNING " + column
}
