// Package metrics computes live typing speed and accuracy.
package metrics

import (
	"math"
	"strconv"
	"time"

	"github.com/verte-zerg/taja/internal/model"
)

// minElapsed keeps the first instant of a run from dividing by zero.
const minElapsed = time.Second

// Compute derives elapsed seconds, characters per minute and accuracy.
// A nil start means the timer has not been started.
func Compute(now time.Time, start *time.Time, typed, correct int) model.Metrics {
	out := model.Metrics{AccuracyPercent: Accuracy(typed, correct)}
	if start == nil {
		return out
	}
	elapsed := now.Sub(*start)
	if elapsed < 0 {
		elapsed = 0
	}
	out.ElapsedSeconds = int64(elapsed / time.Second)

	minutes := math.Max(elapsed.Minutes(), minElapsed.Minutes())
	cpm := math.Round(float64(typed) / minutes)
	if math.IsNaN(cpm) || math.IsInf(cpm, 0) {
		cpm = 0
	}
	out.CharsPerMinute = int64(cpm)
	return out
}

// Accuracy returns correct/typed as a percentage rounded to two decimals,
// 100 when nothing has been typed.
func Accuracy(typed, correct int) float64 {
	if typed <= 0 {
		return 100
	}
	acc := math.Round(10000*float64(correct)/float64(typed)) / 100
	switch {
	case acc < 0:
		return 0
	case acc > 100:
		return 100
	}
	return acc
}

// FormatPercent renders a percentage with the shortest exact decimal form.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Counter counts key presses and picks which counters feed the metrics.
type Counter struct {
	policy     string
	keystrokes int
}

// NewCounter returns a counter for the given policy. Unknown policies fall
// back to keystroke counting.
func NewCounter(policy string) *Counter {
	if policy != model.PolicyResolutions {
		policy = model.PolicyKeystrokes
	}
	return &Counter{policy: policy}
}

// Press records one counted key press.
func (c *Counter) Press() {
	c.keystrokes++
}

// Add records n counted key presses at once.
func (c *Counter) Add(n int) {
	if n > 0 {
		c.keystrokes += n
	}
}

// Keystrokes returns the number of counted key presses.
func (c *Counter) Keystrokes() int {
	return c.keystrokes
}

// Policy returns the active counting policy.
func (c *Counter) Policy() string {
	return c.policy
}

// Reset zeroes the keystroke count.
func (c *Counter) Reset() {
	c.keystrokes = 0
}

// Counts returns the typed/correct pair used for metrics given the
// tracker's resolution counters.
func (c *Counter) Counts(resolvedTyped, resolvedCorrect int) (typed, correct int) {
	if c.policy == model.PolicyResolutions {
		return resolvedTyped, resolvedCorrect
	}
	typed = c.keystrokes
	correct = resolvedCorrect
	if correct > typed {
		correct = typed
	}
	return typed, correct
}
