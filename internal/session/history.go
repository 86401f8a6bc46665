package session

import (
	"fmt"

	"github.com/verte-zerg/taja/internal/metrics"
)

// HistoryLimit is the number of completed-sentence summaries kept.
const HistoryLimit = 6

// History is a bounded most-recent-first list of summaries.
type History struct {
	entries []string
}

// Push prepends entry, evicting the oldest beyond HistoryLimit.
func (h *History) Push(entry string) {
	h.entries = append([]string{entry}, h.entries...)
	if len(h.entries) > HistoryLimit {
		h.entries = h.entries[:HistoryLimit]
	}
}

// Entries returns a copy of the entries, most recent first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of stored entries.
func (h *History) Len() int { return len(h.entries) }

func historyEntry(text string, accuracy float64) string {
	return fmt.Sprintf("%s — 정확도 %s%%", text, metrics.FormatPercent(accuracy))
}
