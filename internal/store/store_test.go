package store_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labeler/internal/annotation"
	"labeler/internal/labels"
	"labeler/internal/logging"
	"labeler/internal/services"
	"labeler/internal/store"
)

func TestSaveCollapsesLastWriteWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.json")
	list := []annotation.Annotation{
		{Item: "a.jpg", Label: labels.Text("cat")},
		{Item: "b.jpg", Label: labels.Text("dog")},
		{Item: "a.jpg", Label: labels.Text("fox")},
	}
	require.NoError(t, store.Save(path, list))

	doc, err := store.Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, doc.Len())
	entries := doc.Entries()
	assert.Equal(t, "a.jpg", entries[0].Key, "first insertion keeps its position")
	assert.Equal(t, "fox", entries[0].Label.String())
	assert.Equal(t, "dog", entries[1].Label.String())
}

func TestSavedDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.json")
	require.NoError(t, store.Save(path, []annotation.Annotation{
		{Item: "b.jpg", Label: labels.Int(3)},
		{Item: "a.jpg", Label: labels.Float(0.5)},
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"annotations": {"b.jpg": 3, "a.jpg": 0.5}}`, string(data))
	assert.Less(t, strings.Index(string(data), "b.jpg"), strings.Index(string(data), "a.jpg"))
}

func TestRoundTripIsIdempotentAfterFirstCollapse(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	list := []annotation.Annotation{
		{Item: "x", Label: labels.Text("one")},
		{Item: "y", Label: labels.Int(2)},
		{Item: "x", Label: labels.Text("three")},
	}
	require.NoError(t, store.Save(first, list))
	loaded, err := store.Load(first)
	require.NoError(t, err)
	require.NoError(t, store.Save(second, loaded.Annotations()))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, store.Collapse(list).Map(), loaded.Map())
}

func TestLoadRejectsMalformedDocuments(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"invalid.json":   `{"annotations": {`,
		"missing.json":   `{"labels": {"a": "b"}}`,
		"array.json":     `["a"]`,
		"notobject.json": `{"annotations": ["a"]}`,
		"badlabel.json":  `{"annotations": {"a": true}}`,
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := store.Load(path)
		assert.ErrorIs(t, err, services.ErrMalformedDocument, name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := store.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, services.ErrSourceNotFound)
}

func TestOpenTakesExclusiveLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "annotations.json")
	first, err := store.Open(path, logging.NewNop())
	require.NoError(t, err)

	_, err = store.Open(path, logging.NewNop())
	assert.ErrorIs(t, err, services.ErrLocked)

	require.NoError(t, first.Close())
	again, err := store.Open(path, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestSessionSubmitIsVisibleInDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.json")
	st, err := store.Open(path, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg, err := labels.Enumerated("cat", "dog")
	require.NoError(t, err)
	sess := annotation.New([]annotation.Item{"a.jpg", "b.jpg"}, cfg, annotation.WithPersister(st))
	require.NoError(t, sess.Advance())
	require.NoError(t, sess.Submit(labels.Text("dog")))

	doc, err := store.Load(path)
	require.NoError(t, err)
	label, ok := doc.Get("a.jpg")
	require.True(t, ok)
	assert.Equal(t, "dog", label.String())

	require.NoError(t, sess.Retreat())
	require.NoError(t, sess.Submit(labels.Text("cat")))
	doc, err = store.Load(path)
	require.NoError(t, err)
	label, _ = doc.Get("a.jpg")
	assert.Equal(t, "cat", label.String())
	assert.Equal(t, 1, doc.Len())
}
