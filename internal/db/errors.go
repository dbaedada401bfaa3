package db

import (
	"fmt"
	"strings"
)

// ConnectionError is returned by Open when the backend cannot be reached.
// It is fatal at startup.
type ConnectionError struct {
	Dialect string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s database: %v", e.Dialect, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// StatementError wraps a driver error with the statement that caused it.
type StatementError struct {
	Dialect string
	Query   string
	Err     error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Dialect, summarize(e.Query), e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// summarize collapses whitespace and truncates long statements for messages.
func summarize(query string) string {
	const maxLen = 120
	s := strings.Join(strings.Fields(query), " ")
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
