package brn

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/sokinpui/brn.go/internal/engine"
	"github.com/sokinpui/brn.go/internal/fs"
	"github.com/sokinpui/brn.go/internal/history"
	"github.com/sokinpui/brn.go/internal/transform"
	"github.com/sokinpui/brn.go/model"
)

// Options selects a naming mode and its parameters.
type Options = transform.Options

// Mode names a naming strategy.
type Mode = transform.Mode

const (
	ModePrefix   = transform.ModePrefix
	ModeSuffix   = transform.ModeSuffix
	ModeReplace  = transform.ModeReplace
	ModeNumber   = transform.ModeNumber
	ModeCase     = transform.ModeCase
	ModeDateTime = transform.ModeDateTime
	ModeRemove   = transform.ModeRemove
	ModeInsert   = transform.ModeInsert
	ModeTruncate = transform.ModeTruncate
)

// DefaultOptions returns the default parameters of every mode.
func DefaultOptions() Options { return transform.DefaultOptions() }

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// Config for constructing an App.
type Config struct {
	// HistoryFile is the ledger location. Empty means ~/.batch_renamer_history.json.
	HistoryFile string
	// Warn receives history persistence failures. Nil ignores them.
	Warn func(error)
}

// App orchestrates discovery, preview, execute and undo.
type App struct {
	ledger           *history.Ledger
	engine           *engine.Engine
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error { return e.Err }

// New creates an App and loads the history ledger.
func New(cfg Config) (*App, error) {
	path := cfg.HistoryFile
	if path == "" {
		p, err := history.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate history file: %w", err)
		}
		path = p
	}

	var opts []history.Option
	if cfg.Warn != nil {
		opts = append(opts, history.WithWarn(cfg.Warn))
	}
	ledger := history.Open(path, opts...)

	return &App{
		ledger: ledger,
		engine: engine.New(ledger),
	}, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// HistoryFile returns the ledger location.
func (a *App) HistoryFile() string { return a.ledger.Path() }

// List returns the regular files under dir matching pattern.
func (a *App) List(dir, pattern string, recursive bool) ([]string, error) {
	return fs.List(dir, pattern, recursive)
}

// Preview computes the rename plan for files without touching them.
func (a *App) Preview(files []string, opts Options) ([]model.Pair, error) {
	t, err := transform.FromOptions(opts)
	if err != nil {
		return nil, err
	}
	plan, err := a.engine.Preview(files, t)
	if err != nil {
		return nil, fmt.Errorf("failed to create rename plan: %w", err)
	}

	pairs := make([]model.Pair, len(plan))
	for i, p := range plan {
		pairs[i] = model.Pair{Old: p.Old, New: p.New}
	}
	return pairs, nil
}

// Execute renames the pairs of a plan returned by Preview.
func (a *App) Execute(plan []model.Pair) (summary model.Summary, err error) {
	defer recoverPanic(&err)

	ep := make(engine.Plan, len(plan))
	for i, p := range plan {
		ep[i] = engine.Pair{Old: p.Old, New: p.New}
	}

	res := a.engine.Execute(ep, a.progress(len(ep)))

	summary = model.Summary{
		Failed:    res.Errors(),
		Succeeded: res.Succeeded(),
	}
	for _, p := range res.Renamed {
		summary.Renamed = append(summary.Renamed, model.Pair{Old: p.Old, New: p.New})
	}
	for _, p := range res.Unchanged {
		summary.Unchanged = append(summary.Unchanged, p.Old)
	}
	switch {
	case len(plan) == 0:
		summary.Message = "Nothing to rename."
	case len(res.Renamed) == 0 && len(res.Failures) == 0:
		summary.Message = "All names are unchanged."
	default:
		summary.Message = fmt.Sprintf("Renamed %d of %d file(s).", summary.Succeeded, len(plan))
	}
	relativizeSummaryPaths(&summary)
	return summary, nil
}

// Undo reverts the most recent recorded batch.
func (a *App) Undo() (summary model.Summary, err error) {
	defer recoverPanic(&err)

	total := 0
	if b, ok := a.ledger.Last(); ok {
		total = len(b.Operations)
	}
	res := a.engine.Undo(a.progress(total))

	summary = model.Summary{
		Failed:    res.Errors,
		Succeeded: len(res.Restored),
		Message:   res.Message(),
	}
	for _, r := range res.Restored {
		summary.Renamed = append(summary.Renamed, model.Pair{Old: r.New, New: r.Old})
	}
	relativizeSummaryPaths(&summary)
	if !res.Nothing && !res.OK {
		return summary, fmt.Errorf("undo failed: no file could be restored")
	}
	return summary, nil
}

// History returns up to limit of the most recent batches, oldest first.
func (a *App) History(limit int) []model.Batch {
	batches := a.ledger.Batches(limit)
	out := make([]model.Batch, len(batches))
	for i, b := range batches {
		mb := model.Batch{ID: b.ID, Time: b.Time()}
		for _, op := range b.Operations {
			mb.Pairs = append(mb.Pairs, model.Pair{Old: op.Old, New: op.New})
		}
		out[i] = mb
	}
	return out
}

// ClearHistory empties the ledger.
func (a *App) ClearHistory() {
	a.ledger.Clear()
}

func (a *App) progress(total int) func(done, total int) {
	if a.progressCallback == nil {
		return nil
	}
	a.progressCallback(0, total)
	return func(done, total int) {
		a.progressCallback(done, total)
	}
}

// recoverPanic converts a panic into a DetailedError with a stack trace.
func recoverPanic(err *error) {
	if r := recover(); r != nil {
		*err = &DetailedError{
			Err:   fmt.Errorf("internal panic: %v", r),
			Stack: debug.Stack(),
		}
	}
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func relativizeSummaryPaths(summary *model.Summary) {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	rel := func(p string) string {
		r, err := filepath.Rel(wd, p)
		if err != nil {
			return p
		}
		return r
	}

	for i, p := range summary.Renamed {
		summary.Renamed[i] = model.Pair{Old: rel(p.Old), New: rel(p.New)}
	}
	for i, p := range summary.Unchanged {
		summary.Unchanged[i] = rel(p)
	}
}
