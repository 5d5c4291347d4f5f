package fileutil

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyFileKeepsSourceAndMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	dst := filepath.Join(dir, "copy.jpg")
	writeFile(t, src, "pixels", 0o755)

	require.NoError(t, CopyFile(src, dst))
	assert.Equal(t, "pixels", readFile(t, dst))
	assert.Equal(t, "pixels", readFile(t, src), "source unchanged")
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o111, "executable bits copied, got %o", info.Mode().Perm())
}

func TestCopyFileOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, "new", 0o644)
	writeFile(t, dst, "older and longer", 0o644)

	require.NoError(t, CopyFileVerified(src, dst))
	assert.Equal(t, "new", readFile(t, dst))
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, filepath.Join(dir, "dst"))
}

func TestMoveFileRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "b.jpg")
	dst := filepath.Join(dir, "dog", "b.jpg")
	writeFile(t, src, "woof", 0o644)
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))

	require.NoError(t, MoveFile(src, dst, false))
	assert.NoFileExists(t, src)
	assert.Equal(t, "woof", readFile(t, dst))
}

func TestMoveFileFallsBackAcrossDevices(t *testing.T) {
	orig := rename
	t.Cleanup(func() { rename = orig })
	rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "c.jpg")
	dst := filepath.Join(dir, "c-moved.jpg")
	writeFile(t, src, "meow", 0o644)

	require.NoError(t, MoveFile(src, dst, true))
	assert.NoFileExists(t, src, "source removed after cross-device copy")
	assert.Equal(t, "meow", readFile(t, dst))
}

func TestMoveFileReturnsOtherRenameErrors(t *testing.T) {
	dir := t.TempDir()
	err := MoveFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
