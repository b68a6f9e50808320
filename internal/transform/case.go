package transform

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CaseMode selects a case conversion.
type CaseMode string

const (
	CaseLower    CaseMode = "lower"
	CaseUpper    CaseMode = "upper"
	CaseTitle    CaseMode = "title"
	CaseSentence CaseMode = "sentence"
)

// ParseCaseMode validates s as a CaseMode.
func ParseCaseMode(s string) (CaseMode, error) {
	switch m := CaseMode(strings.ToLower(strings.TrimSpace(s))); m {
	case CaseLower, CaseUpper, CaseTitle, CaseSentence:
		return m, nil
	}
	return "", fmt.Errorf("invalid case mode %q (want lower, upper, title or sentence)", s)
}

// Case converts the stem; the extension is always lower-cased.
type Case struct {
	To CaseMode
}

func (Case) Mode() Mode { return ModeCase }
func (Case) sealed()    {}

func (t Case) Apply(e Entry) (string, error) {
	stem, ext := SplitName(e.Name())
	ext = strings.ToLower(ext)

	switch t.To {
	case CaseLower:
		stem = strings.ToLower(stem)
	case CaseUpper:
		stem = strings.ToUpper(stem)
	case CaseTitle:
		stem = cases.Title(language.Und).String(stem)
	case CaseSentence:
		stem = sentence(stem)
	default:
		return "", fmt.Errorf("invalid case mode %q", t.To)
	}
	return stem + ext, nil
}

func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return strings.ToLower(s)
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
