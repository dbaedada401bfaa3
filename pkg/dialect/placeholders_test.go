package dialect

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslatePlaceholders(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "two params",
			input: "SELECT * FROM t WHERE a = ? AND b = ?",
			want:  "SELECT * FROM t WHERE a = $1 AND b = $2",
		},
		{
			name:  "no params",
			input: "SELECT COUNT(*) FROM departments",
			want:  "SELECT COUNT(*) FROM departments",
		},
		{
			name:  "insert values",
			input: "INSERT INTO t (a, b, c) VALUES (?, ?, ?)",
			want:  "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)",
		},
		{
			name:  "adjacent",
			input: "VALUES (?,?)",
			want:  "VALUES ($1,$2)",
		},
		{
			name:  "question mark in string literal",
			input: "SELECT * FROM t WHERE note = 'why?' AND a = ?",
			want:  "SELECT * FROM t WHERE note = 'why?' AND a = $1",
		},
		{
			name:  "escaped quote in literal",
			input: "SELECT 'it''s ?' , ?",
			want:  "SELECT 'it''s ?' , $1",
		},
		{
			name:  "quoted identifier",
			input: `SELECT "odd?col" FROM t WHERE a = ?`,
			want:  `SELECT "odd?col" FROM t WHERE a = $1`,
		},
		{
			name:  "line comment",
			input: "SELECT a -- really?\nFROM t WHERE a = ?",
			want:  "SELECT a -- really?\nFROM t WHERE a = $1",
		},
		{
			name:  "block comment",
			input: "SELECT /* ? */ a FROM t WHERE a = ?",
			want:  "SELECT /* ? */ a FROM t WHERE a = $1",
		},
		{
			name:  "ten or more",
			input: "VALUES (?,?,?,?,?,?,?,?,?,?,?)",
			want:  "VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TranslatePlaceholders(tt.input))
		})
	}
}

var numbered = regexp.MustCompile(`\$(\d+)`)

// N placeholders in, exactly N numbered placeholders out, in order.
func TestTranslatePlaceholders_PreservesCountAndOrder(t *testing.T) {
	inputs := []string{
		"UPDATE employees SET name = ?, phone = ? WHERE id = ?",
		"SELECT * FROM attendance WHERE employee_id = ? AND work_date BETWEEN ? AND ?",
		"DELETE FROM kpi_entries WHERE id = ?",
		"SELECT 1",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			out := TranslatePlaceholders(in)
			matches := numbered.FindAllStringSubmatch(out, -1)

			assert.Len(t, matches, CountPlaceholders(in))
			assert.Equal(t, 0, CountPlaceholders(out))
			for i, m := range matches {
				assert.Equal(t, strconv.Itoa(i+1), m[1])
			}
		})
	}
}

func TestCountPlaceholders(t *testing.T) {
	assert.Equal(t, 0, CountPlaceholders("SELECT '?'"))
	assert.Equal(t, 2, CountPlaceholders("SELECT ? + ?"))
}
