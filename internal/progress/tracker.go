// Package progress tracks per-character resolution of a target sentence.
package progress

import "github.com/verte-zerg/taja/internal/model"

// Tracker holds the cursor, per-character status and counters for one
// sentence. The zero value is an empty, already complete tracker.
type Tracker struct {
	target  []rune
	status  []model.CharStatus
	cursor  int
	typed   int
	correct int
}

// New returns a tracker for the given target text.
func New(target []rune) *Tracker {
	t := make([]rune, len(target))
	copy(t, target)
	return &Tracker{
		target: t,
		status: make([]model.CharStatus, len(t)),
	}
}

// Resolve marks the slot at index as correct or incorrect. The cursor only
// moves when index is the next unresolved slot. Out of range indexes are
// ignored.
func (t *Tracker) Resolve(index int, actual, expected rune) {
	if index < 0 || index >= len(t.target) {
		return
	}
	if actual == expected {
		t.status[index] = model.Correct
		t.correct++
	} else {
		t.status[index] = model.Incorrect
	}
	t.typed++
	if index == t.cursor {
		t.cursor = index + 1
	}
}

// UnresolveLast reverses the resolution at cursor-1.
func (t *Tracker) UnresolveLast() {
	if t.cursor == 0 {
		return
	}
	t.cursor--
	if t.status[t.cursor] == model.Correct && t.correct > 0 {
		t.correct--
	}
	t.status[t.cursor] = model.Unresolved
	if t.typed > 0 {
		t.typed--
	}
}

// IsComplete reports whether every target character has been resolved.
func (t *Tracker) IsComplete() bool {
	return t.cursor == len(t.target)
}

// Expected returns the target rune at index.
func (t *Tracker) Expected(index int) (rune, bool) {
	if index < 0 || index >= len(t.target) {
		return 0, false
	}
	return t.target[index], true
}

// Cursor returns the index of the next unresolved slot.
func (t *Tracker) Cursor() int { return t.cursor }

// Len returns the number of target code points.
func (t *Tracker) Len() int { return len(t.target) }

// Typed returns the number of resolved slots.
func (t *Tracker) Typed() int { return t.typed }

// Correct returns the number of slots resolved as correct.
func (t *Tracker) Correct() int { return t.correct }

// Status returns the status at index, Unresolved when out of range.
func (t *Tracker) Status(index int) model.CharStatus {
	if index < 0 || index >= len(t.status) {
		return model.Unresolved
	}
	return t.status[index]
}

// Statuses returns a copy of all statuses.
func (t *Tracker) Statuses() []model.CharStatus {
	out := make([]model.CharStatus, len(t.status))
	copy(out, t.status)
	return out
}

// Target returns a copy of the target runes.
func (t *Tracker) Target() []rune {
	out := make([]rune, len(t.target))
	copy(out, t.target)
	return out
}
