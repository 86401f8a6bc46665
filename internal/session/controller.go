package session

import (
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/verte-zerg/taja/internal/metrics"
	"github.com/verte-zerg/taja/internal/model"
	"github.com/verte-zerg/taja/internal/progress"
	"github.com/verte-zerg/taja/internal/reconcile"
)

// Options configures a Controller.
type Options struct {
	// AutoNext advances to the next sentence on completion. When false the
	// finished sentence is recorded and restarted in place.
	AutoNext bool
	Policy   string
	Now      func() time.Time
	Logger   *slog.Logger
}

// Controller owns the live session state. It is not safe for concurrent
// use; callers serialize events.
type Controller struct {
	opts   Options
	logger *slog.Logger

	state     State
	sentences []model.Sentence
	index     int
	attempt   string

	tracker *progress.Tracker
	engine  *reconcile.Engine
	gate    reconcile.Gate
	counter *metrics.Counter
	watch   metrics.Stopwatch
	history History

	listeners []func(Snapshot)
}

// New returns an idle controller.
func New(opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		opts:    opts,
		logger:  opts.Logger,
		state:   Idle,
		tracker: progress.New(nil),
		engine:  reconcile.New(),
		counter: metrics.NewCounter(opts.Policy),
	}
}

// Load installs the sentence queue and activates the first sentence.
// An empty queue is a programming error.
func (c *Controller) Load(sentences []model.Sentence) {
	if len(sentences) == 0 {
		panic("session: empty sentence list")
	}
	c.sentences = append([]model.Sentence(nil), sentences...)
	c.index = 0
	c.rebuild()
	c.logger.Info("sentences loaded", "count", len(c.sentences))
	c.notify()
}

// Reload replaces the queue of an already loaded controller and starts
// over at index 0. The unfinished sentence is not recorded.
func (c *Controller) Reload(sentences []model.Sentence) {
	if len(sentences) == 0 {
		panic("session: empty sentence list")
	}
	c.sentences = append([]model.Sentence(nil), sentences...)
	c.index = 0
	c.rebuild()
	c.logger.Info("sentences reloaded", "count", len(c.sentences))
	c.notify()
}

// Subscribe registers fn to receive a snapshot after every state change.
func (c *Controller) Subscribe(fn func(Snapshot)) {
	c.listeners = append(c.listeners, fn)
}

// State returns the controller phase.
func (c *Controller) State() State { return c.state }

// InputChanged reconciles a raw buffer change. Changes arriving during a
// composition are held until CompositionEnd.
func (c *Controller) InputChanged(buf string) {
	if c.state != Active {
		return
	}
	if !c.gate.Update(buf) {
		c.notify()
		return
	}
	c.reconcile(buf)
	c.notify()
}

// Type appends text to the current buffer, for shells that deliver
// committed characters instead of whole buffers.
func (c *Controller) Type(text string) {
	if c.state != Active || text == "" {
		return
	}
	c.InputChanged(c.engine.Previous() + text)
}

// CompositionStart opens the composition gate.
func (c *Controller) CompositionStart() {
	if c.state != Active {
		return
	}
	c.gate.Begin()
	c.notify()
}

// CompositionUpdate reports a provisional buffer while composing.
func (c *Controller) CompositionUpdate(buf string) {
	c.InputChanged(buf)
}

// CompositionEnd closes the gate and reconciles buf once. Each committed
// code point counts as one keystroke, since the jamo presses that built it
// were left uncounted.
func (c *Controller) CompositionEnd(buf string) {
	if c.state != Active {
		return
	}
	res := c.apply(c.gate.End(buf))
	c.counter.Add(res.Resolved)
	c.settle(res)
	c.notify()
}

// KeyPress counts a discrete key press and handles Backspace and Enter.
// While composing, keys belong to the input method: they start the timer
// but are neither counted nor handled.
func (c *Controller) KeyPress(k Key) {
	if c.state != Active {
		return
	}
	if c.gate.Composing() {
		if k.Counted() {
			c.startTimer()
		}
		c.notify()
		return
	}
	if k.Kind == KeyEnter {
		c.Advance()
		return
	}
	if k.Counted() {
		c.counter.Press()
		c.startTimer()
	}
	if k.Kind == KeyBackspace {
		prev := []rune(c.engine.Previous())
		if len(prev) > 0 {
			c.reconcile(string(prev[:len(prev)-1]))
		}
	}
	c.notify()
}

// Advance records the current sentence in history and moves to the next
// one, wrapping around at the end of the queue.
func (c *Controller) Advance() {
	if c.state == Idle {
		return
	}
	c.record()
	c.index = (c.index + 1) % len(c.sentences)
	c.rebuild()
	c.notify()
}

// Skip moves on without requiring completion.
func (c *Controller) Skip() {
	c.Advance()
}

// Reset restarts the current sentence from an empty buffer.
func (c *Controller) Reset() {
	if c.state == Idle {
		return
	}
	c.rebuild()
	c.logger.Debug("sentence reset", "index", c.index, "attempt", c.attempt)
	c.notify()
}

// Metrics returns the live metrics at the controller clock.
func (c *Controller) Metrics() model.Metrics {
	typed, correct := c.counter.Counts(c.tracker.Typed(), c.tracker.Correct())
	return metrics.Compute(c.opts.Now(), c.watch.StartedAt(), typed, correct)
}

// History returns the completed-sentence summaries, most recent first.
func (c *Controller) History() []string {
	return c.history.Entries()
}

// TickLive reports whether a metrics tick scheduled for gen should keep
// running.
func (c *Controller) TickLive(gen uint64) bool {
	return c.watch.Live(gen)
}

func (c *Controller) reconcile(buf string) {
	c.settle(c.apply(buf))
}

// apply runs the engine and logs the outcome without acting on completion.
func (c *Controller) apply(buf string) reconcile.Result {
	res := c.engine.Apply(c.tracker, buf)
	if res.Kind == reconcile.Noop {
		return res
	}
	if res.Resolved > 0 {
		c.startTimer()
	}
	c.logger.Debug("reconciled",
		"attempt", c.attempt,
		"kind", res.Kind.String(),
		"prefix", res.Prefix,
		"resolved", res.Resolved,
		"unresolved", res.Unresolved,
		"cursor", c.tracker.Cursor(),
	)
	return res
}

func (c *Controller) settle(res reconcile.Result) {
	if res.Completed {
		c.complete()
	}
}

func (c *Controller) complete() {
	c.state = Completed
	c.watch.Stop()
	c.notify()
	if c.opts.AutoNext {
		c.Advance()
		return
	}
	c.record()
	c.rebuild()
}

func (c *Controller) record() {
	acc := c.Metrics().AccuracyPercent
	c.history.Push(historyEntry(c.sentences[c.index].Text, acc))
	c.watch.Stop()
	c.logger.Info("sentence finished",
		"attempt", c.attempt,
		"index", c.index,
		"cursor", c.tracker.Cursor(),
		"length", c.tracker.Len(),
		"accuracy", acc,
	)
}

// rebuild replaces all per-sentence state for the current index.
func (c *Controller) rebuild() {
	c.watch.Stop()
	c.counter.Reset()
	c.tracker = progress.New(reconcile.Normalize(c.sentences[c.index].Text))
	c.engine.Reset()
	c.gate.Reset()
	c.attempt = uuid.NewString()
	c.state = Active
}

func (c *Controller) startTimer() {
	if c.watch.Start(c.opts.Now()) {
		c.logger.Debug("timer started", "attempt", c.attempt, "generation", c.watch.Generation())
	}
}

func (c *Controller) notify() {
	if len(c.listeners) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range c.listeners {
		fn(snap)
	}
}

// currentWord returns the first whitespace-delimited token at or after
// cursor.
func currentWord(target []rune, cursor int) string {
	i := cursor
	for i < len(target) && unicode.IsSpace(target[i]) {
		i++
	}
	j := i
	for j < len(target) && !unicode.IsSpace(target[j]) {
		j++
	}
	return string(target[i:j])
}
