package transform

// Prefix prepends Text to the full name.
type Prefix struct {
	Text string
}

func (Prefix) Mode() Mode { return ModePrefix }
func (Prefix) sealed()    {}

func (t Prefix) Apply(e Entry) (string, error) {
	return t.Text + e.Name(), nil
}

// Suffix inserts Text between the stem and the extension.
type Suffix struct {
	Text string
}

func (Suffix) Mode() Mode { return ModeSuffix }
func (Suffix) sealed()    {}

func (t Suffix) Apply(e Entry) (string, error) {
	stem, ext := SplitName(e.Name())
	return stem + t.Text + ext, nil
}

// Insert splices Text into the stem at character offset Position.
// 0 inserts at the start; -1 or any offset past the stem inserts right before
// the extension. Other negative offsets count back from the end of the stem.
type Insert struct {
	Text     string
	Position int
}

func (Insert) Mode() Mode { return ModeInsert }
func (Insert) sealed()    {}

func (t Insert) Apply(e Entry) (string, error) {
	stem, ext := SplitName(e.Name())
	runes := []rune(stem)

	pos := t.Position
	switch {
	case pos == -1 || pos >= len(runes):
		return stem + t.Text + ext, nil
	case pos == 0:
		return t.Text + stem + ext, nil
	case pos < 0:
		pos = max(len(runes)+pos, 0)
	}
	return string(runes[:pos]) + t.Text + string(runes[pos:]) + ext, nil
}

// Truncate shortens stems longer than MaxLength characters, keeping either the
// first or the last MaxLength characters.
type Truncate struct {
	MaxLength int
	FromEnd   bool
}

func (Truncate) Mode() Mode { return ModeTruncate }
func (Truncate) sealed()    {}

func (t Truncate) Apply(e Entry) (string, error) {
	name := e.Name()
	stem, ext := SplitName(name)
	runes := []rune(stem)
	if len(runes) <= t.MaxLength {
		return name, nil
	}
	n := max(t.MaxLength, 0)
	if t.FromEnd {
		return string(runes[len(runes)-n:]) + ext, nil
	}
	return string(runes[:n]) + ext, nil
}
