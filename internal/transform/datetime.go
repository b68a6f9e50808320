package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/lestrrat-go/strftime"
)

// DefaultDateFormat is the strftime layout used when none is given.
const DefaultDateFormat = "%Y%m%d_%H%M%S"

// TimeSource selects which file timestamp DateTime reads.
type TimeSource string

const (
	TimeModified TimeSource = "modified"
	// TimeChanged is the last status change (ctime). Platforms without it use
	// the creation time, then the modification time.
	TimeChanged TimeSource = "changed"
)

// ParseTimeSource validates s as a TimeSource.
func ParseTimeSource(s string) (TimeSource, error) {
	switch ts := TimeSource(strings.ToLower(strings.TrimSpace(s))); ts {
	case TimeModified, TimeChanged:
		return ts, nil
	case "ctime", "created", "creation":
		return TimeChanged, nil
	case "mtime":
		return TimeModified, nil
	}
	return "", fmt.Errorf("invalid time source %q (want modified or changed)", s)
}

// DateTime names a file after one of its timestamps, formatted with a
// strftime layout in local time:
// Prefix + date [+ "_" + stem] + Suffix + extension.
type DateTime struct {
	Format       string
	Source       TimeSource
	Prefix       string
	Suffix       string
	KeepOriginal bool
}

func (DateTime) Mode() Mode { return ModeDateTime }
func (DateTime) sealed()    {}

// statFunc is replaceable in tests.
var statFunc = times.Stat

func (t DateTime) Apply(e Entry) (string, error) {
	ts, err := statFunc(e.Path)
	if err != nil {
		return "", fmt.Errorf("could not read timestamps of %s: %w", e.Name(), err)
	}
	when := ts.ModTime()
	if t.Source == TimeChanged {
		switch {
		case ts.HasChangeTime():
			when = ts.ChangeTime()
		case ts.HasBirthTime():
			when = ts.BirthTime()
		}
	}

	layout := t.Format
	if layout == "" {
		layout = DefaultDateFormat
	}
	date, err := strftime.Format(layout, when.In(time.Local))
	if err != nil {
		return "", fmt.Errorf("invalid date format %q: %w", layout, err)
	}

	stem, ext := SplitName(e.Name())
	if t.KeepOriginal {
		return t.Prefix + date + "_" + stem + t.Suffix + ext, nil
	}
	return t.Prefix + date + t.Suffix + ext, nil
}
