// Package target filters tables by database and table name patterns.
//
// Patterns take the form <database>.<table> where either segment may use the
// `*` wildcard:
//
//	salesdb.customers  a specific table
//	salesdb.*          all tables in salesdb
//	*.customers        every customers table across databases
package target

import "strings"

// Resolve determines the effective target patterns. CLI targets take
// priority; otherwise the database list from the config file is converted to
// "<database>.*" patterns; otherwise no filtering applies.
func Resolve(cliTargets, configDatabases []string) []string {
	if len(cliTargets) > 0 {
		return cliTargets
	}
	patterns := make([]string, 0, len(configDatabases))
	for _, db := range configDatabases {
		patterns = append(patterns, db+".*")
	}
	return patterns
}

// Matcher reports whether a table falls inside a set of target patterns.
// A Matcher with no patterns matches everything.
type Matcher struct {
	patterns []pattern
	matchAll bool
}

type pattern struct {
	database string
	table    string
}

// NewMatcher builds a Matcher from target patterns. A pattern without a dot
// is treated as a bare table name and matched against the table segment only.
func NewMatcher(targets []string) *Matcher {
	if len(targets) == 0 {
		return &Matcher{matchAll: true}
	}
	m := &Matcher{}
	for _, t := range targets {
		parts := strings.Split(t, ".")
		switch len(parts) {
		case 2:
			m.patterns = append(m.patterns, pattern{database: parts[0], table: parts[1]})
		case 1:
			m.patterns = append(m.patterns, pattern{database: "*", table: parts[0]})
		}
	}
	return m
}

// Match reports whether database.table is selected by any pattern.
func (m *Matcher) Match(database, table string) bool {
	if m.matchAll {
		return true
	}
	for _, p := range m.patterns {
		if matchSegment(database, p.database) && matchSegment(table, p.table) {
			return true
		}
	}
	return false
}

// MatchDatabase reports whether any pattern could select a table in the given
// database. Used to skip remote listing of databases that cannot contribute
// to the working set.
func (m *Matcher) MatchDatabase(database string) bool {
	if m.matchAll {
		return true
	}
	for _, p := range m.patterns {
		if matchSegment(database, p.database) {
			return true
		}
	}
	return false
}

// matchSegment matches a single name segment against a pattern where `*`
// matches any run of characters. A bare `*` requires a non-empty value.
func matchSegment(value, pat string) bool {
	if pat == "*" {
		return value != ""
	}
	return matchWildcard(value, pat)
}

func matchWildcard(value, pat string) bool {
	// Iterative wildcard match with single-star backtracking.
	vi, pi := 0, 0
	star, mark := -1, 0
	for vi < len(value) {
		switch {
		case pi < len(pat) && pat[pi] == '*':
			star, mark = pi, vi
			pi++
		case pi < len(pat) && pat[pi] == value[vi]:
			pi++
			vi++
		case star >= 0:
			mark++
			vi = mark
			pi = star + 1
		default:
			return false
		}
	}
	for pi < len(pat) && pat[pi] == '*' {
		pi++
	}
	return pi == len(pat)
}
