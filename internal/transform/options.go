package transform

import (
	"fmt"
	"strings"
)

// Options is the flat parameter set a caller gathers from a form or flags.
// Only the fields relevant to Mode are read.
type Options struct {
	Mode Mode

	Prefix string
	Suffix string

	Find          string
	ReplaceWith   string
	Regex         bool
	CaseSensitive bool

	Start        int
	Digits       int
	KeepOriginal bool

	Case CaseMode

	DateFormat string
	TimeSource TimeSource

	RemoveSpaces  bool
	RemoveSpecial bool
	RemoveChars   string

	InsertText string
	Position   int

	MaxLength int
	FromEnd   bool
}

// DefaultOptions returns the defaults of every mode.
func DefaultOptions() Options {
	return Options{
		Mode:          ModePrefix,
		CaseSensitive: true,
		Start:         1,
		Digits:        3,
		Case:          CaseLower,
		DateFormat:    DefaultDateFormat,
		TimeSource:    TimeModified,
		MaxLength:     50,
	}
}

// ParseMode validates s as a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// FromOptions builds the transformer selected by o.Mode.
func FromOptions(o Options) (Transformer, error) {
	switch o.Mode {
	case ModePrefix:
		return Prefix{Text: o.Prefix}, nil
	case ModeSuffix:
		return Suffix{Text: o.Suffix}, nil
	case ModeReplace:
		t := Replace{Old: o.Find, New: o.ReplaceWith, Regex: o.Regex, CaseSensitive: o.CaseSensitive}
		if t.Regex || !t.CaseSensitive {
			if _, err := t.compile(); err != nil {
				return nil, err
			}
		}
		return t, nil
	case ModeNumber:
		if o.Digits < 0 {
			return nil, fmt.Errorf("digits must not be negative, got %d", o.Digits)
		}
		return Number{Start: o.Start, Digits: o.Digits, Prefix: o.Prefix, KeepOriginal: o.KeepOriginal}, nil
	case ModeCase:
		m, err := ParseCaseMode(string(o.Case))
		if err != nil {
			return nil, err
		}
		return Case{To: m}, nil
	case ModeDateTime:
		src := o.TimeSource
		if src == "" {
			src = TimeModified
		}
		src, err := ParseTimeSource(string(src))
		if err != nil {
			return nil, err
		}
		return DateTime{
			Format:       o.DateFormat,
			Source:       src,
			Prefix:       o.Prefix,
			Suffix:       o.Suffix,
			KeepOriginal: o.KeepOriginal,
		}, nil
	case ModeRemove:
		return Remove{Spaces: o.RemoveSpaces, Special: o.RemoveSpecial, Chars: o.RemoveChars}, nil
	case ModeInsert:
		return Insert{Text: o.InsertText, Position: o.Position}, nil
	case ModeTruncate:
		if o.MaxLength < 0 {
			return nil, fmt.Errorf("max length must not be negative, got %d", o.MaxLength)
		}
		return Truncate{MaxLength: o.MaxLength, FromEnd: o.FromEnd}, nil
	}
	return nil, fmt.Errorf("unknown mode %q", o.Mode)
}
