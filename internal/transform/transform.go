// Package transform holds the naming strategies used by a rename batch.
//
// Every strategy is a concrete type implementing Transformer. The set is
// closed: only this package can add variants, and callers select one through
// FromOptions instead of switching on mode strings themselves.
package transform

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode names a transformer variant.
type Mode string

const (
	ModePrefix   Mode = "prefix"
	ModeSuffix   Mode = "suffix"
	ModeReplace  Mode = "replace"
	ModeNumber   Mode = "number"
	ModeCase     Mode = "case"
	ModeDateTime Mode = "datetime"
	ModeRemove   Mode = "remove"
	ModeInsert   Mode = "insert"
	ModeTruncate Mode = "truncate"
)

// Modes lists every variant in display order.
var Modes = []Mode{
	ModePrefix, ModeSuffix, ModeReplace, ModeNumber, ModeCase,
	ModeDateTime, ModeRemove, ModeInsert, ModeTruncate,
}

// Entry is the input of a transformer: a file path and its zero-based
// position within the batch.
type Entry struct {
	Path  string
	Index int
}

// Name returns the base name of the entry.
func (e Entry) Name() string { return filepath.Base(e.Path) }

// Transformer maps an entry to a proposed base name.
type Transformer interface {
	Mode() Mode
	Apply(e Entry) (string, error)
	sealed()
}

// InvalidNameError is returned when a transformer produces a name that cannot
// be used as a file name in the entry's directory.
type InvalidNameError struct {
	Original string
	Proposed string
	Reason   string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid new name %q for %q: %s", e.Proposed, e.Original, e.Reason)
}

// Validate checks that name is usable as a single path element.
func Validate(original, name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Original: original, Proposed: name, Reason: "name is empty"}
	case name == "." || name == "..":
		return &InvalidNameError{Original: original, Proposed: name, Reason: "reserved name"}
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator):
		return &InvalidNameError{Original: original, Proposed: name, Reason: "contains a path separator"}
	case strings.ContainsRune(name, 0):
		return &InvalidNameError{Original: original, Proposed: name, Reason: "contains a NUL byte"}
	}
	return nil
}

// SplitName splits a base name into stem and extension. A leading dot does not
// start an extension (".bashrc" has none) and neither does a trailing dot.
func SplitName(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return name, ""
	}
	return name[:i], name[i:]
}
