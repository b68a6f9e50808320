package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokinpui/brn.go/internal/fs"
)

func batch(id string, ops ...Record) Batch {
	return Batch{ID: id, Timestamp: time.Now().Format(TimestampLayout), Operations: ops}
}

func TestOpenMissing(t *testing.T) {
	var warned []error
	l := Open(filepath.Join(t.TempDir(), "h.json"), WithWarn(func(err error) { warned = append(warned, err) }))
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, warned)
	_, ok := l.Last()
	assert.False(t, ok)
}

func TestOpenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var warned []error
	l := Open(path, WithWarn(func(err error) { warned = append(warned, err) }))
	assert.Equal(t, 0, l.Len())
	require.Len(t, warned, 1)
	var pe *PersistenceError
	assert.ErrorAs(t, warned[0], &pe)
	assert.Equal(t, "parse", pe.Op)
}

func TestRecordPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	l := Open(path)
	l.Record(NewBatch([]Record{{Old: "/d/a.txt", New: "/d/new_a.txt"}}))

	reopened := Open(path)
	require.Equal(t, 1, reopened.Len())
	last, ok := reopened.Last()
	require.True(t, ok)
	assert.Equal(t, []Record{{Old: "/d/a.txt", New: "/d/new_a.txt"}}, last.Operations)
	assert.NotEmpty(t, last.ID)
	assert.False(t, last.Time().IsZero())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	assert.Contains(t, raw[0], "timestamp")
	ops := raw[0]["operations"].([]any)
	assert.Equal(t, map[string]any{"old": "/d/a.txt", "new": "/d/new_a.txt"}, ops[0])
}

func TestRecordKeepsLastBatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	l := Open(path)
	for i := 0; i < MaxBatches+10; i++ {
		l.Record(batch(fmt.Sprint(i)))
	}
	assert.Equal(t, MaxBatches, l.Len())

	all := l.Batches(0)
	assert.Equal(t, "10", all[0].ID)
	assert.Equal(t, fmt.Sprint(MaxBatches+9), all[len(all)-1].ID)

	recent := l.Batches(3)
	require.Len(t, recent, 3)
	assert.Equal(t, fmt.Sprint(MaxBatches+9), recent[2].ID)

	assert.Equal(t, MaxBatches, Open(path).Len())
}

func TestOpenTrimsOversizedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	var bs []Batch
	for i := 0; i < MaxBatches+5; i++ {
		bs = append(bs, batch(fmt.Sprint(i)))
	}
	data, err := json.Marshal(bs)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	l := Open(path)
	assert.Equal(t, MaxBatches, l.Len())
	assert.Equal(t, "5", l.Batches(0)[0].ID)
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.json")
	l := Open(path)
	l.Record(batch("a"))
	l.Clear()
	assert.Equal(t, 0, l.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestSaveFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	var warned []error
	l := Open(filepath.Join(blocker, "h.json"), WithWarn(func(err error) { warned = append(warned, err) }))
	l.Record(batch("a"))

	assert.Equal(t, 1, l.Len(), "in-memory state survives a failed save")
	require.NotEmpty(t, warned)
	var pe *PersistenceError
	require.ErrorAs(t, warned[len(warned)-1], &pe)
	assert.Equal(t, "write", pe.Op)
}

func TestBatchTime(t *testing.T) {
	b := Batch{Timestamp: "2024-03-05T14:07:09.123456"}
	assert.Equal(t, 2024, b.Time().Year())
	assert.True(t, Batch{Timestamp: "garbage"}.Time().IsZero())
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestUndo(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		l := Open(filepath.Join(t.TempDir(), "h.json"))
		res := l.Undo(nil)
		assert.True(t, res.Nothing)
		assert.Equal(t, "Nothing to undo.", res.Message())
	})

	t.Run("restores in reverse order", func(t *testing.T) {
		dir := t.TempDir()
		a, b, c := filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"), filepath.Join(dir, "c.txt")
		// b.txt was renamed to c.txt, then a.txt took b.txt.
		write(t, c, "was b")
		write(t, b, "was a")

		l := Open(filepath.Join(dir, "h.json"))
		l.Record(batch("1", Record{Old: b, New: c}, Record{Old: a, New: b}))

		var calls int
		res := l.Undo(func(done, total int) {
			calls++
			assert.Equal(t, 2, total)
		})
		require.True(t, res.OK, res.Errors)
		assert.Empty(t, res.Errors)
		assert.Len(t, res.Restored, 2)
		assert.Equal(t, 2, calls)
		assert.Equal(t, 0, l.Len())

		got, _ := os.ReadFile(a)
		assert.Equal(t, "was a", string(got))
		got, _ = os.ReadFile(b)
		assert.Equal(t, "was b", string(got))
		assert.NoFileExists(t, c)
	})

	t.Run("partial undo drops the batch", func(t *testing.T) {
		dir := t.TempDir()
		write(t, filepath.Join(dir, "new_a.txt"), "")

		l := Open(filepath.Join(dir, "h.json"))
		l.Record(batch("1",
			Record{Old: filepath.Join(dir, "a.txt"), New: filepath.Join(dir, "new_a.txt")},
			Record{Old: filepath.Join(dir, "b.txt"), New: filepath.Join(dir, "new_b.txt")},
		))

		res := l.Undo(nil)
		assert.True(t, res.OK)
		assert.Len(t, res.Restored, 1)
		require.Len(t, res.Errors, 1)
		assert.Contains(t, res.Errors[0], "new_b.txt")
		assert.Equal(t, 0, l.Len())
		assert.FileExists(t, filepath.Join(dir, "a.txt"))
	})

	t.Run("nothing restored keeps the batch", func(t *testing.T) {
		dir := t.TempDir()
		l := Open(filepath.Join(dir, "h.json"))
		l.Record(batch("1", Record{Old: filepath.Join(dir, "a.txt"), New: filepath.Join(dir, "gone.txt")}))

		res := l.Undo(nil)
		assert.False(t, res.OK)
		assert.False(t, res.Nothing)
		assert.Len(t, res.Errors, 1)
		assert.Equal(t, 1, l.Len())
		assert.Equal(t, "Undo failed; the batch was kept in history.", res.Message())
	})

	t.Run("does not overwrite a reused original path", func(t *testing.T) {
		dir := t.TempDir()
		old, renamed := filepath.Join(dir, "a.txt"), filepath.Join(dir, "new_a.txt")
		write(t, old, "newcomer")
		write(t, renamed, "original")

		l := Open(filepath.Join(dir, "h.json"))
		l.Record(batch("1", Record{Old: old, New: renamed}))

		res := l.Undo(nil)
		assert.False(t, res.OK)
		require.Len(t, res.Errors, 1)
		got, _ := os.ReadFile(old)
		assert.Equal(t, "newcomer", string(got))
		assert.FileExists(t, renamed)
	})
}

func TestRevertVanished(t *testing.T) {
	err := revert(Record{Old: "/nowhere/a", New: filepath.Join(t.TempDir(), "b")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrVanished))
	var re *fs.RenameError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "undo", re.Op)
}
