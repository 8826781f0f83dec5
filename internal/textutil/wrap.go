package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies Unicode NFC normalization and collapses runs of
// whitespace into single spaces. Leading and trailing whitespace is removed.
func NormalizeText(text string) string {
	text = norm.NFC.String(text)
	return strings.Join(strings.Fields(text), " ")
}

// WrapLines splits text into lines no longer than maxChars, breaking on word
// boundaries. Words longer than maxChars occupy a line of their own rather
// than being split mid-word. A maxChars of zero or less returns the text as
// a single line.
func WrapLines(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxChars <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	var current strings.Builder
	for _, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if current.Len()+1+len(word) > maxChars {
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
			continue
		}
		current.WriteByte(' ')
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
