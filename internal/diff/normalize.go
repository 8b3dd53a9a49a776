package diff

import "strings"

// NormalizeText prepares DDL for the textual diff: line endings become \n,
// trailing whitespace is trimmed from each line, and trailing blank lines are
// dropped. Structure and indentation are preserved so the diff stays readable.
func NormalizeText(sql string) string {
	lines := strings.Split(strings.ReplaceAll(sql, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// NormalizeForComparison reduces DDL to a canonical form for the equality
// check that decides NoChange vs Update: "--" comment text is stripped, all
// whitespace outside quoted strings is removed (so reformatting across lines
// is invisible), and characters outside quoted strings are lower-cased.
// Quoted string contents are preserved exactly. The remote service reformats
// DDL it stores, so this textual normalization is authoritative for equality;
// a pure comment or whitespace edit is not a change.
func NormalizeForComparison(sql string) string {
	var b strings.Builder
	b.Grow(len(sql))
	inQuote := false
	for _, line := range strings.Split(strings.ReplaceAll(sql, "\r\n", "\n"), "\n") {
		if !inQuote {
			line = stripLineComment(line)
		}
		for _, ch := range line {
			if ch == '\'' {
				inQuote = !inQuote
				b.WriteRune(ch)
				continue
			}
			switch {
			case inQuote:
				b.WriteRune(ch)
			case ch == ' ' || ch == '\t':
			default:
				b.WriteRune(toLowerRune(ch))
			}
		}
	}
	return b.String()
}

// stripLineComment removes a trailing "--" comment, ignoring dashes inside
// single-quoted strings.
func stripLineComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\'':
			inQuote = !inQuote
		case !inQuote && line[i] == '-' && i+1 < len(line) && line[i+1] == '-':
			return line[:i]
		}
	}
	return line
}

func toLowerRune(ch rune) rune {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
