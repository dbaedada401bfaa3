package core

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// String returns the string representation of the style.
func (p PlaceholderStyle) String() string {
	switch p {
	case PlaceholderQuestion:
		return "question"
	case PlaceholderDollar:
		return "dollar"
	default:
		return "unknown"
	}
}
