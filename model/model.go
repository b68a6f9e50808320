package model

import "time"

// Pair is one planned or executed rename.
type Pair struct {
	Old string
	New string
}

// Unchanged reports whether the pair keeps the file where it is.
func (p Pair) Unchanged() bool { return p.Old == p.New }

// Summary holds the results of an execute or undo run for display.
type Summary struct {
	Renamed   []Pair
	Unchanged []string
	Failed    []string
	Succeeded int
	Message   string
}

// Batch is one recorded run in the history.
type Batch struct {
	ID    string
	Time  time.Time
	Pairs []Pair
}
