package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labeler/internal/annotation"
	"labeler/internal/labels"
)

func TestRunLinesCompletesSession(t *testing.T) {
	cfg, err := labels.Enumerated("cat", "dog")
	require.NoError(t, err)
	var saved []annotation.Annotation
	s := annotation.New([]annotation.Item{"a.jpg", "b.jpg", "c.jpg"}, cfg,
		annotation.WithPersister(annotation.PersisterFunc(func(list []annotation.Annotation) error {
			saved = list
			return nil
		})))

	in := strings.NewReader("cat\n:add bird\n3\n:prev\n2\nbogus\n:skip\n")
	var out bytes.Buffer
	res, err := RunLines(context.Background(), s, staticViews{}, in, &out)
	require.NoError(t, err)
	assert.True(t, res.Completed)

	require.Len(t, saved, 2)
	assert.Equal(t, "a.jpg", saved[0].Item.Key())
	assert.Equal(t, "cat", saved[0].Label.String())
	assert.Equal(t, "dog", saved[1].Label.String(), "re-annotation overwrites in place")

	text := out.String()
	assert.Contains(t, text, "0 examples annotated, 3 examples left")
	assert.Contains(t, text, "Added label \"bird\"")
	assert.Contains(t, text, " *3) bird")
	assert.Contains(t, text, "is not one of the available labels")
	assert.Contains(t, text, "Annotation done.")
}

func TestRunLinesQuitAndEOF(t *testing.T) {
	s := annotation.New([]annotation.Item{"x", "y"}, labels.Freeform())
	res, err := RunLines(context.Background(), s, nil, strings.NewReader(":quit\n"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, res.Completed)

	s = annotation.New([]annotation.Item{"x"}, labels.Freeform())
	res, err = RunLines(context.Background(), s, nil, strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, res.Completed)
}

func TestRunLinesRangedInput(t *testing.T) {
	cfg, err := labels.Ranged(labels.Range{Min: 0, Max: 1, Step: 0.1})
	require.NoError(t, err)
	var saved []annotation.Annotation
	s := annotation.New([]annotation.Item{"x"}, cfg,
		annotation.WithPersister(annotation.PersisterFunc(func(list []annotation.Annotation) error {
			saved = list
			return nil
		})))

	res, err := RunLines(context.Background(), s, nil, strings.NewReader("abc\n0.34\n"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, res.Completed)
	require.Len(t, saved, 1)
	assert.Equal(t, labels.Float(0.3), saved[0].Label)
}
