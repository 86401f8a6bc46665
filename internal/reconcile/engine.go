// Package reconcile turns raw input buffer snapshots into progress updates.
package reconcile

import (
	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/taja/internal/progress"
)

// Kind identifies how a buffer change was interpreted.
type Kind uint8

const (
	Noop Kind = iota
	Append
	Truncate
	Rescan
)

// String returns the lowercase branch name.
func (k Kind) String() string {
	switch k {
	case Append:
		return "append"
	case Truncate:
		return "truncate"
	case Rescan:
		return "rescan"
	default:
		return "noop"
	}
}

// Result describes the effect of one Apply call.
type Result struct {
	Kind       Kind
	Prefix     int
	Resolved   int
	Unresolved int
	Completed  bool
}

// Engine diffs successive buffer snapshots against the previous one.
type Engine struct {
	previous []rune
}

// New returns an engine with an empty previous buffer.
func New() *Engine {
	return &Engine{}
}

// Normalize converts text to NFC code points so that precomposed and
// decomposed Hangul compare equal.
func Normalize(s string) []rune {
	return []rune(norm.NFC.String(s))
}

// Previous returns the last reconciled buffer.
func (e *Engine) Previous() string {
	return string(e.previous)
}

// Reset forgets the previous buffer.
func (e *Engine) Reset() {
	e.previous = nil
}

// Apply reconciles current against the previous buffer and updates t.
// Appends are checked first, then truncations, and anything else is
// re-scanned from the longest common prefix of the two buffers.
func (e *Engine) Apply(t *progress.Tracker, current string) Result {
	cur := Normalize(current)
	prev := e.previous
	e.previous = cur

	var res Result
	switch {
	case equalRunes(prev, cur):
		return Result{Kind: Noop, Prefix: len(cur)}
	case len(cur) > len(prev) && hasPrefix(cur, prev):
		res = Result{Kind: Append, Prefix: len(prev)}
		res.Resolved = resolveFrom(t, cur, len(prev))
	case len(cur) < len(prev) && hasPrefix(prev, cur):
		res = Result{Kind: Truncate, Prefix: len(cur)}
		res.Unresolved = unresolveTo(t, len(cur))
	default:
		p := commonPrefix(prev, cur)
		res = Result{Kind: Rescan, Prefix: p}
		res.Unresolved = unresolveTo(t, p)
		res.Resolved = resolveFrom(t, cur, p)
	}
	res.Completed = t.IsComplete()
	return res
}

// resolveFrom resolves buffer runes from position start onward at the
// tracker cursor. Runes past the end of the target are ignored.
func resolveFrom(t *progress.Tracker, buf []rune, start int) int {
	n := 0
	for i := start; i < len(buf); i++ {
		pos := t.Cursor()
		expected, ok := t.Expected(pos)
		if !ok {
			break
		}
		t.Resolve(pos, buf[i], expected)
		n++
	}
	return n
}

// unresolveTo walks the cursor back until it is at most length.
func unresolveTo(t *progress.Tracker, length int) int {
	n := 0
	for t.Cursor() > length {
		t.UnresolveLast()
		n++
	}
	return n
}

func hasPrefix(s, prefix []rune) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}

func commonPrefix(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func equalRunes(a, b []rune) bool {
	return len(a) == len(b) && hasPrefix(a, b)
}
