// Package wordlist loads practice sentences from plain text files.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/taja/internal/model"
)

// LoadSentences reads one sentence per line from the provided file path.
func LoadSentences(path string) ([]model.Sentence, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only sentence file.
			_ = cerr
		}
	}()
	return ReadSentences(file)
}

// ReadSentences parses sentence lines from r. Blank lines and lines
// starting with '#' are skipped.
func ReadSentences(r io.Reader) ([]model.Sentence, error) {
	var sentences []model.Sentence
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		sentences = append(sentences, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("sentence list is empty")
	}
	return sentences, nil
}

// ParseLine parses "text|author|profile". Author and profile are optional.
func ParseLine(line string) (model.Sentence, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return model.Sentence{}, false
	}
	parts := strings.SplitN(line, "|", 3)
	s := model.Sentence{Text: strings.TrimSpace(parts[0])}
	if s.Text == "" {
		return model.Sentence{}, false
	}
	if len(parts) > 1 {
		s.Author = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		s.Profile = strings.TrimSpace(parts[2])
	}
	return s, true
}
