package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labeler/internal/labels"
	"labeler/internal/store"
	"labeler/internal/testsupport"
)

func TestAnnotatePlainWritesDocument(t *testing.T) {
	env := setupCLITestEnv(t)
	images := filepath.Join(env.baseDir, "images")
	testsupport.WriteFiles(t, images, "a.jpg", "b.jpg", "c.jpg", "notes.txt")

	out, _, err := runCLI(t, []string{"annotate", images, "--plain", "--labels", "cat,dog"}, env.configPath, "1\n2\n:skip\n")
	require.NoError(t, err)
	assert.Contains(t, out, "0 examples annotated, 3 examples left")
	assert.Contains(t, out, "Annotation done.")
	assert.Contains(t, out, "Saved 2 annotations to "+env.cfg.Annotate.Output)

	doc, err := store.Load(env.cfg.Annotate.Output)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Len())
	got, _ := doc.Get("a.jpg")
	assert.Equal(t, "cat", got.String())
	got, _ = doc.Get("b.jpg")
	assert.Equal(t, "dog", got.String())
	_, ok := doc.Get("c.jpg")
	assert.False(t, ok, "skipped item should not be recorded")
}

func TestAnnotateStopsEarlyAndKeepsSubmitted(t *testing.T) {
	env := setupCLITestEnv(t)
	texts := filepath.Join(env.baseDir, "texts.txt")
	testsupport.WriteLines(t, texts, "great movie", "terrible plot", "fine")

	output := filepath.Join(env.baseDir, "sentiment.json")
	out, _, err := runCLI(t, []string{"annotate", texts, "--plain", "--output", output}, env.configPath, "positive\n:quit\n")
	require.NoError(t, err)
	assert.Contains(t, out, "great movie")
	assert.Contains(t, out, "Stopped early; 1 annotations saved to "+output)

	doc, err := store.Load(output)
	require.NoError(t, err)
	got, ok := doc.Get("great movie")
	require.True(t, ok)
	assert.Equal(t, "positive", got.String())
}

func TestAnnotateSkipLabeledResumesDocument(t *testing.T) {
	env := setupCLITestEnv(t)
	images := filepath.Join(env.baseDir, "images")
	testsupport.WriteFiles(t, images, "a.jpg", "b.jpg", "c.jpg")
	testsupport.WriteDocument(t, env.cfg.Annotate.Output, testsupport.Pair{Key: "a.jpg", Label: labels.Text("cat")})

	out, _, err := runCLI(t, []string{"annotate", images, "--plain", "--labels", "cat,dog", "--skip-labeled"}, env.configPath, "2\n2\n")
	require.NoError(t, err)
	assert.Contains(t, out, "1 examples annotated, 2 examples left")

	doc, err := store.Load(env.cfg.Annotate.Output)
	require.NoError(t, err)
	want := map[string]string{"a.jpg": "cat", "b.jpg": "dog", "c.jpg": "dog"}
	assert.Equal(t, len(want), doc.Len())
	for key, label := range want {
		got, _ := doc.Get(key)
		assert.Equal(t, label, got.String(), key)
	}
}

func TestAnnotateRangedLabels(t *testing.T) {
	env := setupCLITestEnv(t)
	texts := filepath.Join(env.baseDir, "texts.txt")
	testsupport.WriteLines(t, texts, "first", "second")

	_, _, err := runCLI(t, []string{"annotate", texts, "--plain", "--range", "0:10"}, env.configPath, "3\n11\n")
	require.NoError(t, err)
	doc, err := store.Load(env.cfg.Annotate.Output)
	require.NoError(t, err)
	got, _ := doc.Get("first")
	assert.Equal(t, "3", got.String())
	got, _ = doc.Get("second")
	assert.Equal(t, "10", got.String(), "out of range input clamps to the maximum")
}

func TestAnnotateRejectsConflictingLabelFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	texts := filepath.Join(env.baseDir, "texts.txt")
	testsupport.WriteLines(t, texts, "only")

	_, _, err := runCLI(t, []string{"annotate", texts, "--plain", "--labels", "a", "--range", "0:1"}, env.configPath, "")
	assert.Error(t, err)
}

func TestAnnotateMissingSource(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"annotate", filepath.Join(env.baseDir, "nope"), "--plain"}, env.configPath, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
