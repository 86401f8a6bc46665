package session

import (
	"github.com/verte-zerg/taja/internal/model"
)

// Snapshot is a read-only view of the controller for presentation.
type Snapshot struct {
	State       State
	Index       int
	Total       int
	Sentence    model.Sentence
	Next        model.Sentence
	HasNext     bool
	Target      []rune
	Cursor      int
	Statuses    []model.CharStatus
	Buffer      string
	Composing   bool
	Pending     string
	CurrentWord string

	Typed      int
	Correct    int
	Keystrokes int
	Metrics    model.Metrics
	Running    bool
	Generation uint64

	History []string
}

// Snapshot captures the current state.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:      c.state,
		Index:      c.index,
		Total:      len(c.sentences),
		Target:     c.tracker.Target(),
		Cursor:     c.tracker.Cursor(),
		Statuses:   c.tracker.Statuses(),
		Buffer:     c.engine.Previous(),
		Composing:  c.gate.Composing(),
		Pending:    c.gate.Pending(),
		Typed:      c.tracker.Typed(),
		Correct:    c.tracker.Correct(),
		Keystrokes: c.counter.Keystrokes(),
		Metrics:    c.Metrics(),
		Running:    c.watch.Running(),
		Generation: c.watch.Generation(),
		History:    c.history.Entries(),
	}
	if len(c.sentences) > 0 {
		snap.Sentence = c.sentences[c.index]
		if c.index+1 < len(c.sentences) {
			snap.Next = c.sentences[c.index+1]
			snap.HasNext = true
		}
	}
	snap.CurrentWord = currentWord(snap.Target, snap.Cursor)
	return snap
}
