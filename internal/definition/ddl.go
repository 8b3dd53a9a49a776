package definition

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	locationRe    = regexp.MustCompile(`(?i)LOCATION\s+'([^']+)'`)
	storedAsRe    = regexp.MustCompile(`(?i)STORED\s+AS\s+(\w+)`)
	partitionedRe = regexp.MustCompile(`(?i)PARTITIONED\s+BY\s*\(([^)]+)\)`)
	tblPropsRe    = regexp.MustCompile(`(?i)TBLPROPERTIES\s*\(([^)]+)\)`)
	tblPropRe     = regexp.MustCompile(`'([^']*)'\s*=\s*'([^']*)'`)
	commentRe     = regexp.MustCompile(`(?i)\s+COMMENT\s+'([^']*)'`)
)

// ScanDDL derives the structural model of a table from its DDL text. This is
// a textual scan, not a SQL parser: it recognizes the column list, PARTITIONED
// BY, LOCATION, STORED AS, and TBLPROPERTIES clauses of a CREATE TABLE
// statement the way Athena renders them. Semantic validation stays with the
// remote service.
func ScanDDL(id TableID, raw string) *TableDefinition {
	def := &TableDefinition{
		ID:      id,
		RawText: raw,
	}

	def.Columns = scanColumns(raw)
	def.PartitionKeys = scanPartitionKeys(raw)

	if m := locationRe.FindStringSubmatch(raw); m != nil {
		def.Storage.Location = m[1]
	}
	if m := storedAsRe.FindStringSubmatch(raw); m != nil {
		def.Properties = append(def.Properties, Property{Key: "format", Value: strings.ToUpper(m[1])})
	}
	if m := tblPropsRe.FindStringSubmatch(raw); m != nil {
		for _, kv := range tblPropRe.FindAllStringSubmatch(m[1], -1) {
			def.Properties = append(def.Properties, Property{Key: kv[1], Value: kv[2]})
		}
	}

	return def
}

// scanColumns extracts the column list from the first balanced paren group of
// the statement. Nested parens and angle brackets (struct, map, decimal types)
// and quoted strings are skipped while looking for the closing paren.
func scanColumns(raw string) []Column {
	section, ok := columnSection(raw)
	if !ok {
		return nil
	}
	var columns []Column
	for _, colDef := range splitColumnDefs(section) {
		if col, ok := parseColumnDef(colDef); ok {
			columns = append(columns, col)
		}
	}
	return columns
}

// scanPartitionKeys extracts partition columns from a PARTITIONED BY clause.
func scanPartitionKeys(raw string) []PartitionKey {
	m := partitionedRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	var keys []PartitionKey
	for _, colDef := range splitColumnDefs(m[1]) {
		if col, ok := parseColumnDef(colDef); ok {
			keys = append(keys, PartitionKey{Name: col.Name, Type: col.Type, Comment: col.Comment})
		}
	}
	return keys
}

// columnSection returns the text between the first opening paren and its
// matching closing paren.
func columnSection(raw string) (string, bool) {
	start := strings.IndexByte(raw, '(')
	if start < 0 {
		return "", false
	}

	depth := 1
	inQuote := false
	for i := start + 1; i < len(raw); i++ {
		ch := raw[i]
		if inQuote {
			if ch == '\'' {
				inQuote = false
			}
			continue
		}
		switch ch {
		case '\'':
			inQuote = true
		case '(', '<':
			depth++
		case ')', '>':
			depth--
			if depth == 0 {
				return raw[start+1 : i], true
			}
		}
	}
	return raw[start+1:], true
}

// splitColumnDefs splits a column list on commas, skipping commas nested in
// type parameters (struct<...>, decimal(...)) and quoted comments.
func splitColumnDefs(input string) []string {
	var result []string
	var current strings.Builder
	depth := 0
	inQuote := false

	for _, ch := range input {
		switch {
		case inQuote:
			current.WriteRune(ch)
			if ch == '\'' {
				inQuote = false
			}
		case ch == '\'':
			inQuote = true
			current.WriteRune(ch)
		case ch == '<' || ch == '(':
			depth++
			current.WriteRune(ch)
		case ch == '>' || ch == ')':
			depth--
			current.WriteRune(ch)
		case ch == ',' && depth == 0:
			if s := strings.TrimSpace(current.String()); s != "" {
				result = append(result, s)
			}
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		result = append(result, s)
	}
	return result
}

// parseColumnDef splits a single "name type [COMMENT '...']" definition.
// Backquotes around the column name are stripped and whitespace inside the
// type is collapsed.
func parseColumnDef(input string) (Column, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Column{}, false
	}

	sep := strings.IndexFunc(trimmed, unicode.IsSpace)
	if sep < 0 {
		return Column{}, false
	}

	name := strings.Trim(trimmed[:sep], "`")
	rest := strings.TrimSpace(trimmed[sep:])

	var comment string
	if m := commentRe.FindStringSubmatch(" " + rest); m != nil {
		comment = m[1]
		rest = strings.TrimSpace(commentRe.ReplaceAllString(" "+rest, ""))
	}

	typ := strings.Join(strings.Fields(rest), " ")
	if name == "" || typ == "" {
		return Column{}, false
	}
	return Column{Name: name, Type: typ, Comment: comment}, true
}
