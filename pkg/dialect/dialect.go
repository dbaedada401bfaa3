// Package dialect provides SQL dialect configuration and statement translation.
//
// Application statements are authored once in the canonical (SQLite) dialect.
// A Dialect describes how that text must be rewritten before it reaches a given
// backend: placeholder style, schema substitutions and how generated ids are
// reported back. The translation functions are pure and keep no state between
// calls.
package dialect

import "github.com/shopfloor/kpidash/pkg/core"

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name string

	// Placeholder is the parameter style the backend driver expects.
	Placeholder core.PlaceholderStyle

	// ReturningColumn is appended as "RETURNING <col>" to inserts when the
	// backend cannot report a generated id natively. Empty means native support.
	ReturningColumn string

	schemaRules []SchemaRule
}

// Rewrite converts canonical placeholders into this dialect's style.
func (d *Dialect) Rewrite(query string) string {
	if d.Placeholder == core.PlaceholderQuestion {
		return query
	}
	return numberPlaceholders(query, d.FormatPlaceholder)
}

// RewriteSchema applies the dialect's schema substitutions in order.
func (d *Dialect) RewriteSchema(ddl string) string {
	return TranslateSchema(ddl, d.schemaRules)
}

// WithReturning appends the generated-id clause to inserts when needed.
func (d *Dialect) WithReturning(query string) string {
	if d.ReturningColumn == "" {
		return query
	}
	return AppendReturningClause(query, d.ReturningColumn)
}

// SchemaRules returns a copy of the ordered substitution table.
func (d *Dialect) SchemaRules() []SchemaRule {
	out := make([]SchemaRule, len(d.schemaRules))
	copy(out, d.schemaRules)
	return out
}

// FormatPlaceholder returns the placeholder for the given 1-based index.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return dollarPlaceholder(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
// The zero configuration is the canonical dialect: "?" placeholders,
// no schema rules and native generated ids.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name:        name,
			Placeholder: core.PlaceholderQuestion,
		},
	}
}

// Placeholders sets the placeholder style.
func (b *Builder) Placeholders(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// SchemaRules appends substitutions to the ordered schema rule table.
func (b *Builder) SchemaRules(rules ...SchemaRule) *Builder {
	b.dialect.schemaRules = append(b.dialect.schemaRules, rules...)
	return b
}

// Returning sets the column requested back from inserts.
func (b *Builder) Returning(column string) *Builder {
	b.dialect.ReturningColumn = column
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
