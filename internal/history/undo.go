package history

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sokinpui/brn.go/internal/fs"
)

// UndoResult reports the outcome of Undo.
type UndoResult struct {
	// Nothing is set when the ledger was empty.
	Nothing bool
	// OK is true when at least one rename was reverted and the batch removed.
	OK       bool
	Batch    Batch
	Restored []Record
	Errors   []string
}

// Undo reverts the most recent batch, last rename first. Records whose renamed
// file is gone, or whose original path is taken again, are reported and
// skipped. The batch leaves the ledger only if something was restored.
func (l *Ledger) Undo(progress func(done, total int)) UndoResult {
	b, ok := l.Last()
	if !ok {
		return UndoResult{Nothing: true}
	}

	res := UndoResult{Batch: b}
	total := len(b.Operations)
	for i := total - 1; i >= 0; i-- {
		op := b.Operations[i]
		if err := revert(op); err != nil {
			res.Errors = append(res.Errors, err.Error())
		} else {
			res.Restored = append(res.Restored, op)
		}
		if progress != nil {
			progress(total-i, total)
		}
	}

	if len(res.Restored) > 0 {
		res.OK = true
		l.pop()
	}
	return res
}

func revert(op Record) error {
	name := filepath.Base(op.New)
	if _, err := os.Lstat(op.New); err != nil {
		if os.IsNotExist(err) {
			err = fs.ErrVanished
		}
		return &fs.RenameError{Op: "undo", Name: name, Err: err}
	}
	if err := fs.Rename(op.New, op.Old); err != nil {
		return &fs.RenameError{Op: "undo", Name: name, Err: err}
	}
	return nil
}

// Message summarises r in one line.
func (r UndoResult) Message() string {
	switch {
	case r.Nothing:
		return "Nothing to undo."
	case r.OK && len(r.Errors) > 0:
		return fmt.Sprintf("Restored %d file(s); %d failed.", len(r.Restored), len(r.Errors))
	case r.OK:
		return fmt.Sprintf("Restored %d file(s).", len(r.Restored))
	default:
		return "Undo failed; the batch was kept in history."
	}
}
