package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sokinpui/brn.go/internal/fs"
)

const (
	// DefaultFileName is the store file kept in the user's home directory.
	DefaultFileName = ".batch_renamer_history.json"
	// MaxBatches is the number of batches the ledger keeps.
	MaxBatches = 50
	// TimestampLayout is the layout of Batch.Timestamp.
	TimestampLayout = "2006-01-02T15:04:05.000000"
)

// Record is one executed rename.
type Record struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Batch is one executed run of the tool.
type Batch struct {
	ID         string   `json:"id,omitempty"`
	Timestamp  string   `json:"timestamp"`
	Operations []Record `json:"operations"`
}

// NewBatch stamps a batch with a fresh id and the current local time.
func NewBatch(ops []Record) Batch {
	return Batch{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().Format(TimestampLayout),
		Operations: ops,
	}
}

// Time parses the batch timestamp. It returns the zero time when the stored
// value is not in TimestampLayout or RFC 3339.
func (b Batch) Time() time.Time {
	for _, layout := range []string{TimestampLayout, "2006-01-02T15:04:05", time.RFC3339Nano} {
		if t, err := time.ParseInLocation(layout, b.Timestamp, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

// PersistenceError describes a failed read or write of the store. It is only
// ever passed to the warn hook, never returned.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Option configures a Ledger.
type Option func(*Ledger)

// WithWarn sets the hook that receives persistence failures.
func WithWarn(fn func(error)) Option {
	return func(l *Ledger) { l.warn = fn }
}

// Ledger keeps the most recent executed batches, oldest first, and mirrors
// them to a JSON file after every mutation.
type Ledger struct {
	path    string
	batches []Batch
	warn    func(error)
}

// DefaultPath returns the store location in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, DefaultFileName), nil
}

// Open loads the ledger stored at path. A missing, unreadable or corrupt
// store yields an empty ledger.
func Open(path string, opts ...Option) *Ledger {
	l := &Ledger{path: path}
	for _, opt := range opts {
		opt(l)
	}
	l.load()
	return l
}

// Path returns the store location.
func (l *Ledger) Path() string { return l.path }

// Len returns the number of recorded batches.
func (l *Ledger) Len() int { return len(l.batches) }

func (l *Ledger) load() {
	l.batches = nil

	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.report(&PersistenceError{Op: "read", Path: l.path, Err: err})
		}
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}

	var batches []Batch
	if err := json.Unmarshal(data, &batches); err != nil {
		l.report(&PersistenceError{Op: "parse", Path: l.path, Err: err})
		return
	}
	l.batches = trim(batches)
}

func (l *Ledger) save() {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	batches := l.batches
	if batches == nil {
		batches = []Batch{}
	}
	if err := enc.Encode(batches); err != nil {
		l.report(&PersistenceError{Op: "encode", Path: l.path, Err: err})
		return
	}
	if err := fs.WriteFileAtomic(l.path, buf.Bytes(), 0o644); err != nil {
		l.report(&PersistenceError{Op: "write", Path: l.path, Err: err})
	}
}

func (l *Ledger) report(err error) {
	if l.warn != nil {
		l.warn(err)
	}
}

// Record appends b, keeps the last MaxBatches entries and persists.
func (l *Ledger) Record(b Batch) {
	l.batches = trim(append(l.batches, b))
	l.save()
}

// Last returns the most recent batch.
func (l *Ledger) Last() (Batch, bool) {
	if len(l.batches) == 0 {
		return Batch{}, false
	}
	return l.batches[len(l.batches)-1], true
}

// Batches returns up to limit of the most recent batches, oldest first.
// A limit <= 0 returns all of them.
func (l *Ledger) Batches(limit int) []Batch {
	start := 0
	if limit > 0 && len(l.batches) > limit {
		start = len(l.batches) - limit
	}
	out := make([]Batch, len(l.batches)-start)
	copy(out, l.batches[start:])
	return out
}

// Clear removes every batch and persists the empty ledger.
func (l *Ledger) Clear() {
	l.batches = nil
	l.save()
}

// pop removes the most recent batch and persists.
func (l *Ledger) pop() {
	if len(l.batches) == 0 {
		return
	}
	l.batches = l.batches[:len(l.batches)-1]
	l.save()
}

func trim(batches []Batch) []Batch {
	if len(batches) <= MaxBatches {
		return batches
	}
	out := make([]Batch, MaxBatches)
	copy(out, batches[len(batches)-MaxBatches:])
	return out
}
