// Package session orchestrates sentence transitions, input handling and
// completion for a typing run.
package session

// State is the controller phase.
type State uint8

const (
	Idle      State = iota // No sentences loaded yet
	Active                 // Sentence in progress
	Completed              // Sentence just finished, transient
)

// String returns the lowercase phase name.
func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "idle"
	}
}

// KeyKind classifies discrete key presses.
type KeyKind uint8

const (
	KeyOther KeyKind = iota
	KeyRune
	KeySpace
	KeyBackspace
	KeyEnter
)

// Key is a discrete key press signal from the shell.
type Key struct {
	Kind KeyKind
	Rune rune
}

// Counted reports whether the key contributes to the keystroke total.
// Enter only ever advances the queue, so it is not counted.
func (k Key) Counted() bool {
	switch k.Kind {
	case KeyRune, KeySpace, KeyBackspace:
		return true
	}
	return false
}
