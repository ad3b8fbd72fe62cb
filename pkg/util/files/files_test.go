package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"
)

func TestIsExecutable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test-file")
	err := os.WriteFile(path, []byte{}, 0o644)
	require.NoError(t, err)

	require.False(t, IsExecutable(path))
	require.NoError(t, os.Chmod(path, 0o744))
	require.True(t, IsExecutable(path))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	exists, err := Exists(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = Exists(dir)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestExpand(t *testing.T) {
	path, err := Expand("dist", "/work/project")
	require.NoError(t, err)
	require.Equal(t, "/work/project/dist", path)

	path, err = Expand("/abs/out/", "/work/project")
	require.NoError(t, err)
	require.Equal(t, "/abs/out", path)

	home, err := homedir.Dir()
	require.NoError(t, err)
	path, err = Expand("~/wheels", "/work/project")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "wheels"), path)
}

func TestCopyAndMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.whl")
	require.NoError(t, os.WriteFile(src, []byte("wheel"), 0o644))

	copied := filepath.Join(dir, "b.whl")
	require.NoError(t, CopyFile(src, copied))
	data, err := os.ReadFile(copied)
	require.NoError(t, err)
	require.Equal(t, "wheel", string(data))

	moved := filepath.Join(dir, "c.whl")
	require.NoError(t, MoveFile(src, moved))
	exists, err := Exists(src)
	require.NoError(t, err)
	require.False(t, exists)
	data, err = os.ReadFile(moved)
	require.NoError(t, err)
	require.Equal(t, "wheel", string(data))
}

func TestFirstMatchSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"pkg-2.0-py3-none-any.whl", "pkg-1.0-py3-none-any.whl", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	first, err := FirstMatch(dir, "*.whl")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "pkg-1.0-py3-none-any.whl"), first)

	none, err := FirstMatch(dir, "*.tar.gz")
	require.NoError(t, err)
	require.Equal(t, "", none)
}

func TestRemoveMatches(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.whl", "b.whl", "keep.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, RemoveMatches(dir, "*.whl"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "keep.txt", entries[0].Name())

	require.NoError(t, RemoveMatches(filepath.Join(dir, "missing"), "*.whl"))
}
