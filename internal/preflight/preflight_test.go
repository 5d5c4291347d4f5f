package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir(), ReadWrite)
	assert.True(t, result.Passed, result.Detail)
	assert.Contains(t, result.Detail, "read/write ok")
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), Read)
	assert.False(t, result.Passed)
	assert.Contains(t, result.Detail, "does not exist")
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))
	assert.False(t, CheckDirectoryAccess("test", f, Read).Passed)
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	r := CheckFreeSpace("dest", dir, 1)
	assert.True(t, r.Passed, r.Detail)
	assert.False(t, CheckFreeSpace("dest", dir, 1<<62).Passed, "an exabyte-scale request fails")
	assert.False(t, CheckFreeSpace("dest", filepath.Join(dir, "missing"), 1).Passed, "statfs fails for a missing path")
}

func TestFailures(t *testing.T) {
	assert.NoError(t, Failures([]Result{{Name: "a", Passed: true}}))
	err := Failures([]Result{{Name: "Source", Detail: "gone"}, {Name: "Dest", Passed: true}})
	assert.EqualError(t, err, "Source: gone")
}
