package testsupport

import (
	"testing"

	"labeler/internal/labels"
	"labeler/internal/store"
)

// Pair is one fixture annotation.
type Pair struct {
	Key   string
	Label labels.Value
}

// WriteDocument persists pairs in order as an annotation document at path.
func WriteDocument(t testing.TB, path string, pairs ...Pair) store.Document {
	t.Helper()

	var doc store.Document
	for _, p := range pairs {
		doc.Set(p.Key, p.Label)
	}
	if err := store.Write(path, doc); err != nil {
		t.Fatalf("write annotation document: %v", err)
	}
	return doc
}
