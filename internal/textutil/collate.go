package textutil

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortLabels orders label strings for display using locale-aware collation.
// Numeric substrings compare by value so "2" sorts before "10".
func SortLabels(labels []string, tag language.Tag) {
	collate.New(tag, collate.Numeric, collate.IgnoreCase).SortStrings(labels)
}
