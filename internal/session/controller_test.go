package session

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/taja/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func testSentences() []model.Sentence {
	return []model.Sentence{
		{Text: "가는 말이 고와야", Author: "속담"},
		{Text: "바늘 도둑이", Author: "속담"},
		{Text: "ab", Author: "test"},
	}
}

func newTestController(autoNext bool) (*Controller, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := New(Options{
		AutoNext: autoNext,
		Policy:   model.PolicyKeystrokes,
		Now:      clock.Now,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	c.Load(testSentences())
	return c, clock
}

func typeRunes(c *Controller, text string) {
	for _, r := range text {
		kind := KeyRune
		if r == ' ' {
			kind = KeySpace
		}
		c.KeyPress(Key{Kind: kind, Rune: r})
		c.Type(string(r))
	}
}

func TestLoadEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty sentence list")
		}
	}()
	New(Options{}).Load(nil)
}

func TestIdleIgnoresInput(t *testing.T) {
	c := New(Options{})
	c.InputChanged("abc")
	c.KeyPress(Key{Kind: KeyRune, Rune: 'a'})
	c.Advance()
	snap := c.Snapshot()
	if snap.State != Idle || snap.Cursor != 0 || snap.Keystrokes != 0 || len(snap.History) != 0 {
		t.Fatalf("idle controller changed state: %+v", snap)
	}
}

func TestBackspaceAfterTyping(t *testing.T) {
	c, _ := newTestController(true)
	typeRunes(c, "가는 말이")
	before := c.Snapshot()
	c.KeyPress(Key{Kind: KeyBackspace})
	snap := c.Snapshot()
	if snap.Cursor != before.Cursor-1 {
		t.Fatalf("expected cursor %d, got %d", before.Cursor-1, snap.Cursor)
	}
	if snap.Statuses[snap.Cursor] != model.Unresolved {
		t.Fatalf("expected last char unresolved")
	}
	if snap.Typed != before.Typed-1 {
		t.Fatalf("expected resolution count %d, got %d", before.Typed-1, snap.Typed)
	}
	if snap.Buffer != "가는 말" {
		t.Fatalf("expected buffer to shrink, got %q", snap.Buffer)
	}
	// A shell echoing the already-truncated buffer must not unresolve again.
	c.InputChanged("가는 말")
	if c.Snapshot().Cursor != snap.Cursor {
		t.Fatalf("echoed buffer changed the cursor")
	}
}

func TestCompositionReconciledOnce(t *testing.T) {
	c, _ := newTestController(true)
	c.Advance()
	c.CompositionStart()
	c.CompositionUpdate("ㅂ")
	c.CompositionUpdate("바")
	c.CompositionUpdate("바ㄴ")
	if snap := c.Snapshot(); snap.Cursor != 0 || !snap.Composing || snap.Pending != "바ㄴ" {
		t.Fatalf("composition updates must not reconcile: %+v", snap)
	}
	c.KeyPress(Key{Kind: KeyBackspace})
	if c.Snapshot().Cursor != 0 {
		t.Fatalf("backspace during composition belongs to the input method")
	}
	c.CompositionEnd("바늘")
	snap := c.Snapshot()
	if snap.Cursor != 2 || snap.Statuses[0] != model.Correct || snap.Statuses[1] != model.Correct {
		t.Fatalf("expected both chars resolved correct, got cursor=%d statuses=%v", snap.Cursor, snap.Statuses)
	}
	if snap.Composing {
		t.Fatalf("expected gate to be closed")
	}
}

func TestMidBufferCorrection(t *testing.T) {
	c, _ := newTestController(true)
	c.Advance()
	c.InputChanged("바능")
	c.InputChanged("바늘")
	snap := c.Snapshot()
	if snap.Cursor != 2 || snap.Statuses[1] != model.Correct {
		t.Fatalf("expected corrected second char, got %v", snap.Statuses)
	}
	if snap.Typed != 2 || snap.Correct != 2 {
		t.Fatalf("unexpected counters typed=%d correct=%d", snap.Typed, snap.Correct)
	}
}

func TestCompletionPushesHistoryAndAdvances(t *testing.T) {
	c, _ := newTestController(true)
	var completed int
	c.Subscribe(func(s Snapshot) {
		if s.State == Completed {
			completed++
		}
	})
	c.Advance()
	c.Advance()
	before := c.History()

	typeRunes(c, "ab")
	snap := c.Snapshot()
	if completed != 1 {
		t.Fatalf("expected one completion notification, got %d", completed)
	}
	if snap.Index != 0 || snap.State != Active {
		t.Fatalf("expected wrap to index 0, got %d (%s)", snap.Index, snap.State)
	}
	if len(snap.History) != len(before)+1 {
		t.Fatalf("expected exactly one history push")
	}
	if snap.History[0] != "ab — 정확도 100%" {
		t.Fatalf("unexpected history entry %q", snap.History[0])
	}
	if snap.Cursor != 0 || snap.Buffer != "" || snap.Running || snap.Keystrokes != 0 {
		t.Fatalf("expected fresh sentence state: %+v", snap)
	}
}

func TestHistoryBounded(t *testing.T) {
	c, _ := newTestController(true)
	for i := 0; i < 10; i++ {
		snap := c.Snapshot()
		c.InputChanged(snap.Sentence.Text)
	}
	if n := len(c.History()); n != HistoryLimit {
		t.Fatalf("expected %d history entries, got %d", HistoryLimit, n)
	}
}

func TestEnterForcesAdvance(t *testing.T) {
	c, _ := newTestController(true)
	typeRunes(c, "가x")
	c.KeyPress(Key{Kind: KeyEnter})
	snap := c.Snapshot()
	if snap.Index != 1 {
		t.Fatalf("expected advance to 1, got %d", snap.Index)
	}
	// 2 keystrokes, 1 correct char. Enter itself is not counted.
	if want := "가는 말이 고와야 — 정확도 50%"; snap.History[0] != want {
		t.Fatalf("expected %q, got %q", want, snap.History[0])
	}
}

func TestEnterKeepsAccuracy(t *testing.T) {
	c, _ := newTestController(true)
	typeRunes(c, "가는")
	c.KeyPress(Key{Kind: KeyEnter})
	snap := c.Snapshot()
	if want := "가는 말이 고와야 — 정확도 100%"; snap.History[0] != want {
		t.Fatalf("expected %q, got %q", want, snap.History[0])
	}
	if snap.Keystrokes != 0 {
		t.Fatalf("expected fresh counter after advance, got %d", snap.Keystrokes)
	}
}

func TestComposedInputScoresFully(t *testing.T) {
	c, _ := newTestController(true)
	c.Advance()
	c.CompositionStart()
	provisional := []string{"ㅂ", "바", "반", "바느", "바늘"}
	for i, r := range []rune("ㅂㅏㄴㅡㄹ") {
		c.KeyPress(Key{Kind: KeyRune, Rune: r})
		c.CompositionUpdate(provisional[i])
	}
	if snap := c.Snapshot(); snap.Keystrokes != 0 || !snap.Running {
		t.Fatalf("jamo presses should start the timer without counting: %+v", snap)
	}
	c.CompositionEnd("바늘")
	snap := c.Snapshot()
	if snap.Cursor != 2 || snap.Keystrokes != 2 {
		t.Fatalf("expected 2 committed keystrokes at cursor 2, got cursor=%d keystrokes=%d", snap.Cursor, snap.Keystrokes)
	}
	if snap.Metrics.AccuracyPercent != 100 {
		t.Fatalf("expected 100%% accuracy, got %v", snap.Metrics.AccuracyPercent)
	}
}

func TestSkipWrapsAround(t *testing.T) {
	c, _ := newTestController(true)
	for i := 0; i < 3; i++ {
		c.Skip()
	}
	if c.Snapshot().Index != 0 {
		t.Fatalf("expected wrap to index 0")
	}
	if len(c.History()) != 3 {
		t.Fatalf("expected one entry per skip")
	}
}

func TestResetRebuildsInPlace(t *testing.T) {
	c, clock := newTestController(true)
	c.Advance()
	typeRunes(c, "바")
	clock.Advance(5 * time.Second)
	c.Reset()
	snap := c.Snapshot()
	if snap.Index != 1 {
		t.Fatalf("reset must keep index, got %d", snap.Index)
	}
	if snap.Cursor != 0 || snap.Keystrokes != 0 || snap.Running || snap.Buffer != "" {
		t.Fatalf("expected cleared sentence state: %+v", snap)
	}
	if snap.Metrics.ElapsedSeconds != 0 || snap.Metrics.AccuracyPercent != 100 {
		t.Fatalf("expected zeroed metrics: %+v", snap.Metrics)
	}
	if len(snap.History) != 1 {
		t.Fatalf("reset must not push history")
	}
}

func TestCompletionWithoutAutoNextRestarts(t *testing.T) {
	c, _ := newTestController(false)
	c.Advance()
	c.Advance()
	c.InputChanged("ax")
	snap := c.Snapshot()
	if snap.Index != 2 {
		t.Fatalf("expected to stay on sentence 2, got %d", snap.Index)
	}
	if snap.Cursor != 0 || snap.State != Active {
		t.Fatalf("expected restarted sentence: %+v", snap)
	}
	if !strings.HasPrefix(snap.History[0], "ab — ") {
		t.Fatalf("expected completion recorded, got %q", snap.History[0])
	}
}

func TestTimerLifecycle(t *testing.T) {
	c, clock := newTestController(true)
	if c.Snapshot().Running {
		t.Fatalf("timer must not run before the first keystroke")
	}
	c.KeyPress(Key{Kind: KeyRune, Rune: '가'})
	gen := c.Snapshot().Generation
	if !c.TickLive(gen) {
		t.Fatalf("expected live tick after first keystroke")
	}
	clock.Advance(90 * time.Second)
	c.Type("가")
	m := c.Metrics()
	if m.ElapsedSeconds != 90 {
		t.Fatalf("expected 90s elapsed, got %d", m.ElapsedSeconds)
	}
	c.Skip()
	if c.TickLive(gen) {
		t.Fatalf("tick must stop after advance")
	}
}

func TestCorrectNeverExceedsTyped(t *testing.T) {
	c, _ := newTestController(true)
	edits := []string{"가", "가늘", "가는", "가", "가는 말", "가는 ", "가는 말이 고"}
	for _, e := range edits {
		c.InputChanged(e)
		snap := c.Snapshot()
		if snap.Correct > snap.Typed {
			t.Fatalf("after %q: correct %d > typed %d", e, snap.Correct, snap.Typed)
		}
		if snap.Metrics.AccuracyPercent < 0 || snap.Metrics.AccuracyPercent > 100 {
			t.Fatalf("accuracy out of range: %v", snap.Metrics.AccuracyPercent)
		}
	}
}

func TestSnapshotPreviewAndWord(t *testing.T) {
	c, _ := newTestController(true)
	snap := c.Snapshot()
	if !snap.HasNext || snap.Next.Text != "바늘 도둑이" {
		t.Fatalf("expected next preview, got %+v", snap.Next)
	}
	if snap.CurrentWord != "가는" {
		t.Fatalf("expected current word 가는, got %q", snap.CurrentWord)
	}
	c.InputChanged("가는")
	if w := c.Snapshot().CurrentWord; w != "말이" {
		t.Fatalf("expected current word 말이, got %q", w)
	}
	c.Advance()
	c.Advance()
	if c.Snapshot().HasNext {
		t.Fatalf("last sentence has no preview")
	}
}

func TestReloadReplacesQueue(t *testing.T) {
	c, _ := newTestController(true)
	c.Advance()
	typeRunes(c, "바")
	c.Reload([]model.Sentence{{Text: "새 문장", Author: "x"}})
	snap := c.Snapshot()
	if snap.Index != 0 || snap.Total != 1 {
		t.Fatalf("expected fresh queue at index 0, got %d/%d", snap.Index, snap.Total)
	}
	if snap.Sentence.Text != "새 문장" || snap.Cursor != 0 || snap.Running {
		t.Fatalf("unexpected state after reload: %+v", snap)
	}
	if len(snap.History) != 1 {
		t.Fatalf("reload must keep history and not record the unfinished sentence")
	}
}
