package transform

import "fmt"

// Number names files by their position in the batch: Prefix, the number
// Start+index zero-padded to Digits, then optionally "_" and the old stem.
type Number struct {
	Start        int
	Digits       int
	Prefix       string
	KeepOriginal bool
}

func (Number) Mode() Mode { return ModeNumber }
func (Number) sealed()    {}

func (t Number) Apply(e Entry) (string, error) {
	stem, ext := SplitName(e.Name())
	num := fmt.Sprintf("%0*d", max(t.Digits, 0), t.Start+e.Index)
	if t.KeepOriginal {
		return t.Prefix + num + "_" + stem + ext, nil
	}
	return t.Prefix + num + ext, nil
}
