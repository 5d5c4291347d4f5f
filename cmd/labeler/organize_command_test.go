package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labeler/internal/labels"
	"labeler/internal/testsupport"
)

func TestOrganizeCopiesAndReportsMissing(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "src")
	dest := filepath.Join(env.baseDir, "dest")
	testsupport.WriteFiles(t, src, "b.jpg", "c.jpg")
	docPath := filepath.Join(env.baseDir, "labels.json")
	testsupport.WriteDocument(t, docPath,
		testsupport.Pair{Key: "a.jpg", Label: labels.Text("cat")},
		testsupport.Pair{Key: "b.jpg", Label: labels.Text("dog")},
		testsupport.Pair{Key: "c.jpg", Label: labels.Int(3)},
	)

	out, _, err := runCLI(t, []string{"organize", docPath, src, dest, "--copy"}, env.configPath, "")
	require.Error(t, err, "a missing file fails the command")
	assert.Contains(t, err.Error(), "1 of 3 files")
	assert.Contains(t, out, "a.jpg not found in "+src)
	assert.Contains(t, out, "2 of 3 files")

	assert.FileExists(t, filepath.Join(dest, "dog", "b.jpg"))
	assert.FileExists(t, filepath.Join(dest, "3", "c.jpg"))
	assert.FileExists(t, filepath.Join(src, "b.jpg"))
}

func TestOrganizeMovesByDefault(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.baseDir, "src")
	dest := filepath.Join(env.baseDir, "dest")
	testsupport.WriteFiles(t, src, "x.png")
	docPath := filepath.Join(env.baseDir, "labels.json")
	testsupport.WriteDocument(t, docPath, testsupport.Pair{Key: "x.png", Label: labels.Text("keep")})

	out, _, err := runCLI(t, []string{"organize", docPath, src, dest}, env.configPath, "")
	require.NoError(t, err)
	assert.Contains(t, out, "(move)")
	assert.FileExists(t, filepath.Join(dest, "keep", "x.png"))
	assert.NoFileExists(t, filepath.Join(src, "x.png"))
}

func TestOrganizeFailFastStopsAtFirstFailure(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCopy())
	src := filepath.Join(env.baseDir, "src")
	dest := filepath.Join(env.baseDir, "dest")
	testsupport.WriteFiles(t, src, "b.jpg")
	docPath := filepath.Join(env.baseDir, "labels.json")
	testsupport.WriteDocument(t, docPath,
		testsupport.Pair{Key: "a.jpg", Label: labels.Text("cat")},
		testsupport.Pair{Key: "b.jpg", Label: labels.Text("dog")},
	)

	_, _, err := runCLI(t, []string{"organize", docPath, src, dest, "--fail-fast"}, env.configPath, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files")
	assert.NoFileExists(t, filepath.Join(dest, "dog", "b.jpg"), "b.jpg is left alone")
}

func TestOrganizeReportMergesLabelsSharingADirectory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCopy())
	src := filepath.Join(env.baseDir, "src")
	dest := filepath.Join(env.baseDir, "dest")
	testsupport.WriteFiles(t, src, "a.jpg", "b.jpg", "c.jpg")
	docPath := filepath.Join(env.baseDir, "labels.json")
	testsupport.WriteDocument(t, docPath,
		testsupport.Pair{Key: "a.jpg", Label: labels.Text("a/b")},
		testsupport.Pair{Key: "b.jpg", Label: labels.Text("a:b")},
		testsupport.Pair{Key: "c.jpg", Label: labels.Text("a/b")},
	)

	out, _, err := runCLI(t, []string{"organize", docPath, src, dest}, env.configPath, "")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "a-b"), "one row for the shared directory:\n%s", out)
	assert.Contains(t, out, "a/b, a:b")
	assert.Contains(t, out, "3 of 3 files")
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		assert.FileExists(t, filepath.Join(dest, "a-b", name))
	}
}
