// Package model defines shared data structures.
package model

import "time"

// Source kinds accepted by Config.Source.
const (
	SourceRemote  = "remote"
	SourceFile    = "file"
	SourceLibrary = "library"
)

// Metric counting policies accepted by Config.Policy.
const (
	PolicyKeystrokes  = "keystrokes"
	PolicyResolutions = "resolutions"
)

// Config defines practice settings.
type Config struct {
	Source      string
	URL         string
	File        string
	LibraryPath string
	Timeout     time.Duration
	Shuffle     bool
	AutoNext    bool
	ShowCaret   bool
	Policy      string
}

// Sentence is one practice record supplied by a source.
type Sentence struct {
	Text    string
	Author  string
	Profile string
}

// Runes returns the sentence text as code points.
func (s Sentence) Runes() []rune {
	return []rune(s.Text)
}

// CharStatus is the resolution state of one target character.
type CharStatus uint8

const (
	Unresolved CharStatus = iota
	Correct
	Incorrect
)

// String returns the lowercase status name.
func (s CharStatus) String() string {
	switch s {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unresolved"
	}
}

// Metrics is a point-in-time view of typing speed and accuracy.
type Metrics struct {
	ElapsedSeconds  int64
	CharsPerMinute  int64
	AccuracyPercent float64
}
