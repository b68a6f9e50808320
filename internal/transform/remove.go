package transform

import (
	"strings"
	"unicode"
)

// Remove strips characters from the stem, in this order: spaces, every
// character outside letters, numbers, underscore, hyphen and CJK ideographs,
// then each character of Chars.
type Remove struct {
	Spaces  bool
	Special bool
	Chars   string
}

func (Remove) Mode() Mode { return ModeRemove }
func (Remove) sealed()    {}

func (t Remove) Apply(e Entry) (string, error) {
	stem, ext := SplitName(e.Name())
	if t.Spaces {
		stem = strings.ReplaceAll(stem, " ", "")
	}
	if t.Special {
		stem = strings.Map(func(r rune) rune {
			if keepRune(r) {
				return r
			}
			return -1
		}, stem)
	}
	for _, c := range t.Chars {
		stem = strings.ReplaceAll(stem, string(c), "")
	}
	return stem + ext, nil
}

func keepRune(r rune) bool {
	switch {
	case r == '_' || r == '-':
		return true
	case unicode.IsLetter(r), unicode.IsNumber(r):
		return true
	case r >= 0x4e00 && r <= 0x9fff:
		return true
	}
	return false
}
