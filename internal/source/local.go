package source

import (
	"context"
	"fmt"

	"github.com/verte-zerg/taja/internal/generator"
	"github.com/verte-zerg/taja/internal/model"
	"github.com/verte-zerg/taja/internal/wordlist"
)

// File reads sentences from a "text|author|profile" file.
type File struct {
	Path string
}

// Fetch implements Supplier.
func (f *File) Fetch(_ context.Context) ([]model.Sentence, error) {
	if f.Path == "" {
		return nil, fmt.Errorf("sentence file path is empty")
	}
	sentences, err := wordlist.LoadSentences(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence file: %w", err)
	}
	return sentences, nil
}

// SentenceLister is the part of the library store used by Library.
type SentenceLister interface {
	ListSentences(ctx context.Context, limit int) ([]model.Sentence, error)
}

// Library reads sentences from the local SQLite library.
type Library struct {
	Store SentenceLister
	Limit int
}

// Fetch implements Supplier.
func (l *Library) Fetch(ctx context.Context) ([]model.Sentence, error) {
	if l.Store == nil {
		return nil, fmt.Errorf("sentence library is not open")
	}
	sentences, err := l.Store.ListSentences(ctx, l.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list library sentences: %w", err)
	}
	return sentences, nil
}

// Shuffled wraps a supplier and shuffles whatever it returns.
type Shuffled struct {
	Supplier Supplier
	Gen      *generator.Generator
}

// Fetch implements Supplier.
func (s *Shuffled) Fetch(ctx context.Context) ([]model.Sentence, error) {
	sentences, err := s.Supplier.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return s.Gen.Shuffle(sentences), nil
}
