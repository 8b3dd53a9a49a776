package diff

import (
	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff renders a line-oriented unified diff between the remote DDL
// (the "from" side) and the local DDL (the "to" side).
func unifiedDiff(qualifiedName, remote, local string) string {
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(NormalizeText(remote) + "\n"),
		B:        difflib.SplitLines(NormalizeText(local) + "\n"),
		FromFile: "remote: " + qualifiedName,
		ToFile:   "local:  " + qualifiedName,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		// SplitLines never yields the conditions GetUnifiedDiffString
		// reports errors for; fall back to the headers alone.
		return "--- remote: " + qualifiedName + "\n+++ local:  " + qualifiedName + "\n"
	}
	return text
}
