// Package conflict picks final rename targets that do not collide with
// existing files or with targets already claimed in the same batch.
package conflict

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/sokinpui/brn.go/internal/fs"
	"github.com/sokinpui/brn.go/internal/transform"
)

// MaxAttempts bounds the "_N" counter for a single proposal.
const MaxAttempts = 10000

// ExhaustedError is returned when no free name was found within MaxAttempts.
type ExhaustedError struct {
	Proposed string
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no free name found for %s after %d attempts", e.Proposed, e.Attempts)
}

// IsExhausted reports whether err is an *ExhaustedError.
func IsExhausted(err error) bool {
	var e *ExhaustedError
	return errors.As(err, &e)
}

// Resolver resolves proposals for one batch. Besides the filesystem it
// remembers which original owns each returned target, so two files of the
// same batch never end up with the same final path.
type Resolver struct {
	owners map[string]string // final path → original path
	exists func(string) bool
	same   func(a, b string) bool
}

// NewResolver creates a resolver backed by the real filesystem.
func NewResolver() *Resolver {
	return &Resolver{
		owners: make(map[string]string),
		exists: fs.Exists,
		same:   fs.IsCaseVariant,
	}
}

// Resolve returns proposed unchanged when it equals original or is free.
// Otherwise it appends _1, _2, ... to the stem until the candidate is free or
// is the original file itself.
func (r *Resolver) Resolve(proposed, original string) (string, error) {
	proposed = filepath.Clean(proposed)
	original = filepath.Clean(original)

	if r.available(proposed, original) {
		r.owners[proposed] = original
		return proposed, nil
	}

	dir := filepath.Dir(proposed)
	stem, ext := transform.SplitName(filepath.Base(proposed))
	for n := 1; n <= MaxAttempts; n++ {
		candidate := filepath.Join(dir, stem+"_"+strconv.Itoa(n)+ext)
		if r.available(candidate, original) {
			r.owners[candidate] = original
			return candidate, nil
		}
	}
	return "", &ExhaustedError{Proposed: proposed, Attempts: MaxAttempts}
}

func (r *Resolver) available(candidate, original string) bool {
	if candidate == original {
		return true
	}
	if owner, ok := r.owners[candidate]; ok && owner != original {
		return false
	}
	if !r.exists(candidate) {
		return true
	}
	// A case change of the original on a case-insensitive filesystem.
	return r.same(candidate, original)
}

// Resolve resolves a single proposal against the filesystem only.
func Resolve(proposed, original string) (string, error) {
	return NewResolver().Resolve(proposed, original)
}
