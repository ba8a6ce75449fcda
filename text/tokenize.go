package text

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Mode selects how text is cut into merge elements
type Mode int

const (
	ModeLines Mode = iota
	ModeWords
	ModeRunes
)

// String returns the name accepted by ParseMode
func (m Mode) String() string {
	switch m {
	case ModeLines:
		return "lines"
	case ModeWords:
		return "words"
	case ModeRunes:
		return "runes"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name. The empty string selects ModeLines.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "lines", "line":
		return ModeLines, nil
	case "words", "word":
		return ModeWords, nil
	case "runes", "rune", "chars", "characters":
		return ModeRunes, nil
	default:
		return ModeLines, fmt.Errorf("unknown mode %q (want lines, words or runes)", s)
	}
}

// Split cuts s into tokens whose concatenation is s.
// Lines keep their trailing newline; in word mode whitespace runs are tokens
// of their own.
func Split(s string, mode Mode) []string {
	switch mode {
	case ModeRunes:
		return lo.Map([]rune(s), func(r rune, _ int) string { return string(r) })
	case ModeWords:
		return splitWords(s)
	default:
		return splitLines(s)
	}
}

// Join concatenates tokens produced by Split
func Join(tokens []string) string {
	return strings.Join(tokens, "")
}

// splitLines splits text after each newline and drops the trailing empty element
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func splitWords(s string) []string {
	var tokens []string
	start := 0
	prevSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if i > 0 && space != prevSpace {
			tokens = append(tokens, s[start:i])
			start = i
		}
		prevSpace = space
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}
