package reconcile

import (
	"testing"

	"github.com/verte-zerg/taja/internal/model"
	"github.com/verte-zerg/taja/internal/progress"
)

func newTracker(target string) *progress.Tracker {
	return progress.New(Normalize(target))
}

func TestApplyPureAppend(t *testing.T) {
	tr := newTracker("가는 말이 고와야")
	e := New()
	buf := ""
	for _, r := range "가는 말이" {
		buf += string(r)
		res := e.Apply(tr, buf)
		if res.Kind != Append || res.Resolved != 1 {
			t.Fatalf("expected single append, got %+v", res)
		}
	}
	if tr.Cursor() != 5 {
		t.Fatalf("expected cursor 5, got %d", tr.Cursor())
	}
	if tr.Correct() != 5 || tr.Typed() != 5 {
		t.Fatalf("unexpected counters typed=%d correct=%d", tr.Typed(), tr.Correct())
	}
}

func TestApplyBackspaceAfterWord(t *testing.T) {
	tr := newTracker("가는 말이 고와야")
	e := New()
	e.Apply(tr, "가는 말이")
	typed := tr.Typed()

	res := e.Apply(tr, "가는 말")
	if res.Kind != Truncate || res.Unresolved != 1 {
		t.Fatalf("expected single truncate, got %+v", res)
	}
	if tr.Cursor() != 4 {
		t.Fatalf("expected cursor 4, got %d", tr.Cursor())
	}
	if tr.Status(4) != model.Unresolved {
		t.Fatalf("expected last char unresolved, got %s", tr.Status(4))
	}
	if tr.Typed() != typed-1 {
		t.Fatalf("expected typed %d, got %d", typed-1, tr.Typed())
	}
}

func TestApplyComposedCommit(t *testing.T) {
	tr := newTracker("바늘 도둑이 소 도둑 된다.")
	e := New()
	res := e.Apply(tr, "바늘")
	if res.Kind != Append || res.Resolved != 2 {
		t.Fatalf("expected two resolutions in one pass, got %+v", res)
	}
	if tr.Cursor() != 2 || tr.Status(0) != model.Correct || tr.Status(1) != model.Correct {
		t.Fatalf("expected both chars correct, cursor=%d statuses=%v", tr.Cursor(), tr.Statuses())
	}
}

func TestApplyMidBufferCorrection(t *testing.T) {
	tr := newTracker("바늘 도둑이")
	e := New()
	e.Apply(tr, "바능")
	if tr.Status(1) != model.Incorrect {
		t.Fatalf("expected incorrect second char before correction")
	}

	res := e.Apply(tr, "바늘")
	if res.Kind != Rescan {
		t.Fatalf("expected rescan, got %s", res.Kind)
	}
	if res.Prefix != 1 || res.Unresolved != 1 || res.Resolved != 1 {
		t.Fatalf("expected re-resolution of index 1 only, got %+v", res)
	}
	if tr.Status(0) != model.Correct || tr.Status(1) != model.Correct {
		t.Fatalf("expected both correct after rescan: %v", tr.Statuses())
	}
	if tr.Typed() != 2 || tr.Correct() != 2 {
		t.Fatalf("unexpected counters typed=%d correct=%d", tr.Typed(), tr.Correct())
	}
}

func TestApplyNonPrefixShrink(t *testing.T) {
	tr := newTracker("abcdef")
	e := New()
	e.Apply(tr, "abcd")
	res := e.Apply(tr, "abx")
	if res.Kind != Rescan || res.Prefix != 2 {
		t.Fatalf("expected rescan from 2, got %+v", res)
	}
	if tr.Cursor() != 3 || tr.Status(2) != model.Incorrect || tr.Status(3) != model.Unresolved {
		t.Fatalf("unexpected state cursor=%d statuses=%v", tr.Cursor(), tr.Statuses())
	}
}

func TestApplyEmptyBuffersNoop(t *testing.T) {
	tr := newTracker("abc")
	e := New()
	res := e.Apply(tr, "")
	if res.Kind != Noop || res.Completed {
		t.Fatalf("expected noop, got %+v", res)
	}
	e.Apply(tr, "ab")
	if res := e.Apply(tr, "ab"); res.Kind != Noop {
		t.Fatalf("expected identical buffer to be a noop, got %s", res.Kind)
	}
}

func TestApplyIgnoresOverflow(t *testing.T) {
	tr := newTracker("ab")
	e := New()
	res := e.Apply(tr, "abcd")
	if res.Resolved != 2 || !res.Completed {
		t.Fatalf("expected two resolutions and completion, got %+v", res)
	}
	if tr.Typed() != 2 {
		t.Fatalf("overflow chars must not be counted, typed=%d", tr.Typed())
	}
}

func TestApplyTruncateClampsAtZero(t *testing.T) {
	tr := newTracker("abc")
	e := New()
	e.Apply(tr, "ab")
	e.Apply(tr, "")
	if tr.Cursor() != 0 || tr.Typed() != 0 || tr.Correct() != 0 {
		t.Fatalf("expected empty tracker, cursor=%d typed=%d", tr.Cursor(), tr.Typed())
	}
}

func TestApplyNormalizesDecomposedHangul(t *testing.T) {
	tr := newTracker("\ud55c")
	e := New()
	// U+1112 U+1161 U+11AB is the conjoining jamo spelling of 한.
	res := e.Apply(tr, "\u1112\u1161\u11ab")
	if res.Resolved != 1 || tr.Status(0) != model.Correct {
		t.Fatalf("expected decomposed input to match, got %+v %v", res, tr.Statuses())
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	target := "가는 말이 고와야 오는 말이 곱다."
	edits := []string{"가", "가늘", "가는", "가는 ", "가는 맘", "가는 말", "가는 말이", "가는 말"}
	run := func() []model.CharStatus {
		tr := newTracker(target)
		e := New()
		for _, b := range edits {
			e.Apply(tr, b)
			if tr.Correct() > tr.Typed() {
				t.Fatalf("correct %d exceeds typed %d", tr.Correct(), tr.Typed())
			}
		}
		return tr.Statuses()
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("replay differs at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestGateSwallowsWhileComposing(t *testing.T) {
	var g Gate
	if !g.Update("a") {
		t.Fatalf("expected pass-through when idle")
	}
	g.Begin()
	if g.Update("ㅂ") || g.Update("바") {
		t.Fatalf("expected updates to be swallowed while composing")
	}
	if g.Pending() != "바" {
		t.Fatalf("expected pending 바, got %q", g.Pending())
	}
	if got := g.End("바"); got != "바" {
		t.Fatalf("expected released buffer 바, got %q", got)
	}
	if g.Composing() || g.Pending() != "" {
		t.Fatalf("expected idle gate after End")
	}
}
