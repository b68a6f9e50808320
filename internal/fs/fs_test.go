package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0o644))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.txt"))
	touch(t, filepath.Join(dir, "b.jpg"))
	touch(t, filepath.Join(dir, "sub", "c.txt"))
	touch(t, filepath.Join(dir, "sub", "deeper", "d.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "folder.txt"), 0o755))

	t.Run("direct children only", func(t *testing.T) {
		files, err := List(dir, "*.txt", false)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{filepath.Join(dir, "a.txt")}, files)
	})

	t.Run("recursive", func(t *testing.T) {
		files, err := List(dir, "*.txt", true)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(dir, "a.txt"),
			filepath.Join(dir, "sub", "c.txt"),
			filepath.Join(dir, "sub", "deeper", "d.txt"),
		}, files)
	})

	t.Run("empty pattern matches everything", func(t *testing.T) {
		files, err := List(dir, "", false)
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("bracket class and question mark", func(t *testing.T) {
		files, err := List(dir, "[ab].???", false)
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := List(filepath.Join(dir, "nope"), "*", false)
		require.Error(t, err)
		assert.True(t, IsNotFound(err), "got %T %v", err, err)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := List(dir, "[", false)
		require.Error(t, err)
		assert.False(t, IsNotFound(err))
	})
}

func TestListSkipsSymlinkedDirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "real", "x.txt"))
	if err := os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, err := List(dir, "*.txt", false)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListFollowsSymlinkedFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	link := filepath.Join(dir, "link.txt")
	touch(t, target)
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "gone.txt"), filepath.Join(dir, "dangling.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	for _, recursive := range []bool{false, true} {
		files, err := List(dir, "*.txt", recursive)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{target, link}, files, "recursive=%v", recursive)
	}
}

func TestRename(t *testing.T) {
	t.Run("moves to a free name", func(t *testing.T) {
		dir := t.TempDir()
		src, dst := filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")
		touch(t, src)

		require.NoError(t, Rename(src, dst))
		assert.NoFileExists(t, src)
		assert.FileExists(t, dst)
	})

	t.Run("never replaces an existing file", func(t *testing.T) {
		dir := t.TempDir()
		src, dst := filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")
		touch(t, src)
		touch(t, dst)

		err := Rename(src, dst)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTargetExists), "got %v", err)

		b, _ := os.ReadFile(dst)
		assert.Equal(t, "b.txt", string(b))
		assert.FileExists(t, src)
	})

	t.Run("same path is a no-op", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "a.txt")
		touch(t, src)
		require.NoError(t, Rename(src, src))
		assert.FileExists(t, src)
	})

	t.Run("same path that vanished fails", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "a.txt")
		require.Error(t, Rename(src, src))
	})

	t.Run("hard link at target is an existing file", func(t *testing.T) {
		dir := t.TempDir()
		src, dst := filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")
		touch(t, src)
		if err := os.Link(src, dst); err != nil {
			t.Skipf("hard links unavailable: %v", err)
		}

		err := Rename(src, dst)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTargetExists), "got %v", err)
		assert.FileExists(t, src)
		assert.FileExists(t, dst)
	})

	t.Run("missing source", func(t *testing.T) {
		dir := t.TempDir()
		err := Rename(filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"))
		require.Error(t, err)
	})
}

func TestRenameCrossDevice(t *testing.T) {
	old := renameFunc
	renameFunc = func(src, dst string) error {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: syscall.EXDEV}
	}
	defer func() { renameFunc = old }()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	touch(t, src)

	err := Rename(src, filepath.Join(dir, "b.txt"))
	require.Error(t, err)
	assert.True(t, IsCrossDevice(err), "got %T %v", err, err)
	assert.FileExists(t, src)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("two"), 0o644))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".state.json.tmp-"), "temp file left behind: %s", e.Name())
	}
}

func TestSameFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	touch(t, a)

	assert.True(t, SameFile(a, a))
	assert.True(t, SameFile(a, filepath.Join(dir, ".", "a.txt")))
	assert.False(t, SameFile(a, filepath.Join(dir, "b.txt")))
}

func TestIsCaseVariant(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	touch(t, a)

	assert.True(t, IsCaseVariant(a, a))

	linked := filepath.Join(dir, "b.txt")
	if err := os.Link(a, linked); err != nil {
		t.Skipf("hard links unavailable: %v", err)
	}
	assert.True(t, SameFile(a, linked))
	assert.False(t, IsCaseVariant(a, linked))
}
