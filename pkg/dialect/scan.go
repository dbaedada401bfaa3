package dialect

import "strings"

// lexer states for scanCode.
const (
	stateCode = iota
	stateSingleQuote
	stateDoubleQuote
	stateLineComment
	stateBlockComment
)

// byteKind classifies a byte of SQL text for scanSQL.
type byteKind int

const (
	kindCode byteKind = iota
	kindQuoted
	kindComment
)

// scanSQL calls fn for every byte of sql in order with its kind. Delimiters
// belong to the literal, quoted identifier or comment they open or close.
func scanSQL(sql string, fn func(i int, kind byteKind)) {
	state := stateCode
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch state {
		case stateCode:
			switch {
			case c == '\'':
				state = stateSingleQuote
				fn(i, kindQuoted)
			case c == '"':
				state = stateDoubleQuote
				fn(i, kindQuoted)
			case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
				state = stateLineComment
				fn(i, kindComment)
			case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
				state = stateBlockComment
				fn(i, kindComment)
				i++
				fn(i, kindComment)
			default:
				fn(i, kindCode)
			}
		case stateSingleQuote:
			// '' escapes close and reopen the literal, which needs no special case.
			fn(i, kindQuoted)
			if c == '\'' {
				state = stateCode
			}
		case stateDoubleQuote:
			fn(i, kindQuoted)
			if c == '"' {
				state = stateCode
			}
		case stateLineComment:
			fn(i, kindComment)
			if c == '\n' {
				state = stateCode
			}
		case stateBlockComment:
			fn(i, kindComment)
			if c == '*' && i+1 < len(sql) && sql[i+1] == '/' {
				i++
				fn(i, kindComment)
				state = stateCode
			}
		}
	}
}

// scanCode calls fn for every byte of sql in order. code is false for bytes
// inside string literals, quoted identifiers and comments, including their
// delimiters.
func scanCode(sql string, fn func(i int, code bool)) {
	scanSQL(sql, func(i int, kind byteKind) {
		fn(i, kind == kindCode)
	})
}

// codeMask reports for each byte of sql whether it is code.
func codeMask(sql string) []bool {
	mask := make([]bool, len(sql))
	scanCode(sql, func(i int, code bool) {
		mask[i] = code
	})
	return mask
}

// trimTail returns sql without trailing whitespace, semicolons and comments.
func trimTail(sql string) string {
	end := 0
	scanSQL(sql, func(i int, kind byteKind) {
		switch kind {
		case kindComment:
			return
		case kindCode:
			if c := sql[i]; c == ';' || c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v' {
				return
			}
		}
		end = i + 1
	})
	return sql[:end]
}

// SplitStatements breaks a script into its statements at semicolons outside
// literals and comments. Statements are trimmed; empty ones are dropped.
func SplitStatements(script string) []string {
	var (
		stmts []string
		start int
	)
	flush := func(end int) {
		if stmt := strings.TrimSpace(script[start:end]); len(codeWords(stmt, 1)) > 0 {
			stmts = append(stmts, stmt)
		}
	}
	scanCode(script, func(i int, code bool) {
		if code && script[i] == ';' {
			flush(i)
			start = i + 1
		}
	})
	flush(len(script))
	return stmts
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// codeWords returns the upper-cased words that appear outside literals and
// comments. When limit > 0 scanning stops after that many words.
func codeWords(sql string, limit int) []string {
	var (
		words []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, strings.ToUpper(cur.String()))
			cur.Reset()
		}
	}
	scanCode(sql, func(i int, code bool) {
		if limit > 0 && len(words) >= limit {
			return
		}
		if code && isWordByte(sql[i]) {
			cur.WriteByte(sql[i])
			return
		}
		flush()
	})
	if limit <= 0 || len(words) < limit {
		flush()
	}
	return words
}

// LeadingKeyword returns the first keyword of a statement, upper-cased.
// Leading whitespace and comments are skipped.
func LeadingKeyword(sql string) string {
	words := codeWords(sql, 1)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// ContainsKeyword reports whether kw appears as a whole word outside
// literals and comments. The comparison is case-insensitive.
func ContainsKeyword(sql, kw string) bool {
	kw = strings.ToUpper(kw)
	for _, w := range codeWords(sql, 0) {
		if w == kw {
			return true
		}
	}
	return false
}

// LeadingKeywords returns up to n upper-cased words from the start of a
// statement, ignoring comments, literals and quoted identifiers.
func LeadingKeywords(sql string, n int) []string {
	return codeWords(sql, n)
}
