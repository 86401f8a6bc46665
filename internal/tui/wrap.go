// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/taja/internal/model"
)

const wrongSpaceMark = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func buildStyledRunes(target []rune, statuses []model.CharStatus, cursorIndex int, showCaret bool) []styledRune {
	word := wordForCursor(findWords(target), cursorIndex)

	out := make([]styledRune, 0, len(target))
	for i, r := range target {
		displayed := r
		style := pendingStyle
		status := model.Unresolved
		if i < len(statuses) {
			status = statuses[i]
		}
		space := unicode.IsSpace(r)
		switch {
		case status == model.Correct:
			style = correctStyle
		case status == model.Incorrect && space:
			displayed = wrongSpaceMark
			style = incorrectStyle
		case status == model.Incorrect:
			style = incorrectStyle
		case !space && word != nil && i >= word.start && i < word.end:
			style = currentWordStyle
		}
		if showCaret && i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: space,
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(target []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range target {
		if unicode.IsSpace(r) {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(target)})
	}
	return words
}

// wordForCursor returns the word containing the cursor, or the next one
// when the cursor sits on whitespace. Nil once the cursor is past the end.
func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	for i := range words {
		if cursorIndex < words[i].end {
			return &words[i]
		}
	}
	return nil
}

// wrappedLine is one rendered line and the target index it starts at.
type wrappedLine struct {
	text  string
	start int
}

// wrapStyledRunes breaks runes into lines no wider than width, preferring
// to break after a space. A width of zero or less yields a single line.
func wrapStyledRunes(runes []styledRune, width int) []wrappedLine {
	if width <= 0 {
		return []wrappedLine{{text: renderStyledRunes(runes)}}
	}
	var lines []wrappedLine
	start := 0
	for start < len(runes) {
		end, lineWidth, lastBreak := start, 0, -1
		for end < len(runes) && lineWidth+runes[end].width <= width {
			lineWidth += runes[end].width
			if runes[end].isSpace {
				lastBreak = end
			}
			end++
		}
		switch {
		case end == start:
			// A single rune wider than the line still has to go somewhere.
			end++
		case end < len(runes) && runes[end].isSpace:
			// Keep the breaking space as a trailing cell of this line.
			end++
		case end < len(runes) && lastBreak >= 0:
			end = lastBreak + 1
		}
		lines = append(lines, wrappedLine{text: renderStyledRunes(runes[start:end]), start: start})
		start = end
	}
	if len(lines) == 0 {
		lines = append(lines, wrappedLine{})
	}
	return lines
}

// visibleLines returns at most height lines, scrolled so the line holding
// cursorIndex stays in view.
func visibleLines(lines []wrappedLine, cursorIndex, height int) []wrappedLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	cursorLine := 0
	for i, l := range lines {
		if l.start <= cursorIndex {
			cursorLine = i
		}
	}
	first := cursorLine - height/2
	if first < 0 {
		first = 0
	}
	if first+height > len(lines) {
		first = len(lines) - height
	}
	return lines[first : first+height]
}

func joinLines(lines []wrappedLine) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.text
	}
	return strings.Join(parts, "\n")
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}
