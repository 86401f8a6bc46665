// Package source supplies practice sentences and falls back to a built-in
// list when the configured supplier fails.
package source

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/verte-zerg/taja/internal/model"
)

// DefaultAuthor is used when a record carries no author.
const DefaultAuthor = "익명"

// ErrEmpty is returned when a supplier yields no usable sentences.
var ErrEmpty = errors.New("no sentences")

// Supplier fetches an ordered list of sentences.
type Supplier interface {
	Fetch(ctx context.Context) ([]model.Sentence, error)
}

// SupplierFunc adapts a function to Supplier.
type SupplierFunc func(ctx context.Context) ([]model.Sentence, error)

// Fetch implements Supplier.
func (f SupplierFunc) Fetch(ctx context.Context) ([]model.Sentence, error) {
	return f(ctx)
}

// Resolve fetches once from supplier and normalizes the result. Any error
// or empty result is logged and replaced by Fallback. The returned list is
// never empty.
func Resolve(ctx context.Context, supplier Supplier, logger *slog.Logger) []model.Sentence {
	if logger == nil {
		logger = slog.Default()
	}
	if supplier == nil {
		logger.Warn("no sentence supplier configured, using fallback")
		return Fallback()
	}
	raw, err := supplier.Fetch(ctx)
	if err == nil {
		sentences := Normalize(raw)
		if len(sentences) > 0 {
			logger.Info("sentences fetched", "count", len(sentences))
			return sentences
		}
		err = ErrEmpty
	}
	logger.Warn("sentence fetch failed, using fallback", "error", err)
	return Fallback()
}

// Normalize trims texts, drops empty ones and fills default author and
// profile values.
func Normalize(raw []model.Sentence) []model.Sentence {
	out := make([]model.Sentence, 0, len(raw))
	for _, s := range raw {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		author := s.Author
		if author == "" {
			author = DefaultAuthor
		}
		out = append(out, model.Sentence{Text: text, Author: author, Profile: s.Profile})
	}
	return out
}

// Fallback returns the built-in sentence list.
func Fallback() []model.Sentence {
	return []model.Sentence{
		{Text: "반드시 이겨야 하는 건 아니지만 진실할 필요는 있다.", Author: "에이브러햄 링컨", Profile: "미국 16대 대통령"},
		{Text: "바늘 도둑이 소 도둑 된다.", Author: "속담"},
		{Text: "가는 말이 고와야 오는 말이 곱다.", Author: "속담"},
	}
}
