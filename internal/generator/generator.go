// Package generator orders practice sentences.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/taja/internal/model"
)

// Generator produces randomized sentence orders.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Shuffle returns a shuffled copy of sentences.
func (g *Generator) Shuffle(sentences []model.Sentence) []model.Sentence {
	out := make([]model.Sentence, len(sentences))
	copy(out, sentences)
	g.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

