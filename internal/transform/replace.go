package transform

import (
	"fmt"
	"regexp"
	"strings"
)

// Replace substitutes Old with New in the full name.
//
// With Regex, Old is a Go regular expression and New may reference groups as
// $1 or ${name}. Without Regex, Old is literal and every occurrence is
// replaced. CaseSensitive=false applies to both modes; literal matching then
// uses the regexp engine's simple case folding over the quoted text.
type Replace struct {
	Old           string
	New           string
	Regex         bool
	CaseSensitive bool
}

func (Replace) Mode() Mode { return ModeReplace }
func (Replace) sealed()    {}

func (t Replace) Apply(e Entry) (string, error) {
	name := e.Name()
	if t.Old == "" {
		return name, nil
	}
	if !t.Regex && t.CaseSensitive {
		return strings.ReplaceAll(name, t.Old, t.New), nil
	}

	re, err := t.compile()
	if err != nil {
		return "", err
	}
	if t.Regex {
		return re.ReplaceAllString(name, t.New), nil
	}
	return re.ReplaceAllLiteralString(name, t.New), nil
}

func (t Replace) compile() (*regexp.Regexp, error) {
	expr := t.Old
	if !t.Regex {
		expr = regexp.QuoteMeta(expr)
	}
	if !t.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", t.Old, err)
	}
	return re, nil
}
