// Package engine previews and executes rename batches.
package engine

import (
	"fmt"
	"path/filepath"

	"github.com/sokinpui/brn.go/internal/conflict"
	"github.com/sokinpui/brn.go/internal/fs"
	"github.com/sokinpui/brn.go/internal/history"
	"github.com/sokinpui/brn.go/internal/transform"
)

// Pair is one planned rename.
type Pair struct {
	Old string
	New string
}

// Unchanged reports whether the pair keeps the file where it is.
func (p Pair) Unchanged() bool { return p.Old == p.New }

// Plan is the ordered output of Preview.
type Plan []Pair

// Changes returns the number of pairs that actually rename something.
func (p Plan) Changes() int {
	n := 0
	for _, pair := range p {
		if !pair.Unchanged() {
			n++
		}
	}
	return n
}

// Result is the outcome of Execute.
type Result struct {
	Renamed   []Pair
	Unchanged []Pair
	Failures  []error
	// Batch is the batch written to the ledger, nil when nothing was recorded.
	Batch *history.Batch
}

// Succeeded counts renamed and unchanged pairs.
func (r Result) Succeeded() int { return len(r.Renamed) + len(r.Unchanged) }

// Errors returns the failure descriptions in plan order.
func (r Result) Errors() []string {
	out := make([]string, len(r.Failures))
	for i, err := range r.Failures {
		out[i] = err.Error()
	}
	return out
}

// Engine runs batches and records successful ones in a ledger.
type Engine struct {
	ledger *history.Ledger
}

// New creates an engine. A nil ledger disables recording.
func New(ledger *history.Ledger) *Engine {
	return &Engine{ledger: ledger}
}

// Preview proposes a new path for every file, in input order. It only reads
// the filesystem.
func (e *Engine) Preview(files []string, t transform.Transformer) (Plan, error) {
	resolver := conflict.NewResolver()
	plan := make(Plan, 0, len(files))

	for i, path := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("could not resolve %q: %w", path, err)
		}
		entry := transform.Entry{Path: abs, Index: i}

		name, err := t.Apply(entry)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if err := transform.Validate(entry.Name(), name); err != nil {
			return nil, err
		}

		target, err := resolver.Resolve(filepath.Join(filepath.Dir(abs), name), abs)
		if err != nil {
			return nil, err
		}
		plan = append(plan, Pair{Old: abs, New: target})
	}
	return plan, nil
}

// Execute renames every pair of plan in order. A failing pair is recorded and
// the remaining pairs still run. Every succeeded pair, unchanged ones
// included, is appended to the ledger as one batch.
func (e *Engine) Execute(plan Plan, progress func(done, total int)) Result {
	var res Result
	renamed, failed := processSequentially(plan, func(p Pair) error {
		if err := fs.Rename(p.Old, p.New); err != nil {
			return &fs.RenameError{Op: "rename", Name: filepath.Base(p.Old), Err: err}
		}
		return nil
	}, progress)
	res.Failures = failed

	records := make([]history.Record, 0, len(renamed))
	for _, p := range renamed {
		if p.Unchanged() {
			res.Unchanged = append(res.Unchanged, p)
		} else {
			res.Renamed = append(res.Renamed, p)
		}
		records = append(records, history.Record{Old: p.Old, New: p.New})
	}

	if len(records) > 0 && e.ledger != nil {
		b := history.NewBatch(records)
		e.ledger.Record(b)
		res.Batch = &b
	}
	return res
}

// Undo reverts the most recent recorded batch.
func (e *Engine) Undo(progress func(done, total int)) history.UndoResult {
	if e.ledger == nil {
		return history.UndoResult{Nothing: true}
	}
	return e.ledger.Undo(progress)
}

// processSequentially runs fn over items in order without stopping at
// failures, reporting progress after each item.
func processSequentially[T any](
	items []T,
	fn func(item T) error,
	progress func(done, total int),
) (succeeded []T, failed []error) {
	total := len(items)
	for i, item := range items {
		if err := fn(item); err != nil {
			failed = append(failed, err)
		} else {
			succeeded = append(succeeded, item)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	return succeeded, failed
}
