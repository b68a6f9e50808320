package conflict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	x := filepath.Join(dir, "x.txt")
	x1 := filepath.Join(dir, "x_1.txt")
	y := filepath.Join(dir, "y.txt")
	touch(t, x, x1, y)

	t.Run("free name is kept", func(t *testing.T) {
		got, err := Resolve(filepath.Join(dir, "z.txt"), y)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "z.txt"), got)
	})

	t.Run("unchanged name is kept", func(t *testing.T) {
		got, err := Resolve(y, y)
		require.NoError(t, err)
		assert.Equal(t, y, got)
	})

	t.Run("skips taken counters", func(t *testing.T) {
		got, err := Resolve(x, y)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "x_2.txt"), got)
	})

	t.Run("counter goes before the extension of the proposal", func(t *testing.T) {
		got, err := Resolve(x1, y)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "x_1_1.txt"), got)
	})

	t.Run("no extension", func(t *testing.T) {
		readme := filepath.Join(dir, "README")
		touch(t, readme)
		got, err := Resolve(readme, y)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "README_1"), got)
	})
}

func TestResolverClaimsWithinBatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "apple.txt")
	b := filepath.Join(dir, "avocado.txt")
	touch(t, a, b)

	r := NewResolver()
	first, err := r.Resolve(filepath.Join(dir, "a.txt"), a)
	require.NoError(t, err)
	second, err := r.Resolve(filepath.Join(dir, "a.txt"), b)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "a.txt"), first)
	assert.Equal(t, filepath.Join(dir, "a_1.txt"), second)

	again, err := r.Resolve(filepath.Join(dir, "a.txt"), a)
	require.NoError(t, err)
	assert.Equal(t, first, again, "an original may reclaim its own target")
}

func TestResolverExhausted(t *testing.T) {
	r := &Resolver{
		owners: map[string]string{},
		exists: func(string) bool { return true },
		same:   func(string, string) bool { return false },
	}
	_, err := r.Resolve("/d/a.txt", "/d/b.txt")
	require.Error(t, err)
	assert.True(t, IsExhausted(err))

	var ee *ExhaustedError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, MaxAttempts, ee.Attempts)
}

func TestResolverSameFile(t *testing.T) {
	r := &Resolver{
		owners: map[string]string{},
		exists: func(string) bool { return true },
		same:   func(a, b string) bool { return a == "/d/A.txt" && b == "/d/a.txt" },
	}
	got, err := r.Resolve("/d/A.txt", "/d/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "/d/A.txt", got)
}

func TestResolveHardLinkIsTaken(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	touch(t, a)
	if err := os.Link(a, b); err != nil {
		t.Skipf("hard links unavailable: %v", err)
	}

	got, err := Resolve(b, a)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b_1.txt"), got)
}
