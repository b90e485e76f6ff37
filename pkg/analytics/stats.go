package analytics

import (
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/wordrank/models"
)

const vowels = "aeiouyáàâãäæéèêëíìïóòôõöœøúùüý"

// TextStats counts characters, words, lines and vowels of text.
// Language fields are left empty; see the detector package.
func (a *Analytics) TextStats(text string) models.TextStats {
	stats := models.TextStats{
		Chars: utf8.RuneCountInString(text),
		Words: len(strings.FieldsFunc(text, isSpace)),
		Lines: countLines(text),
	}

	spaces := 0
	for _, r := range text {
		if isSpace(r) {
			spaces++
		}
	}
	stats.CharsWithoutSpace = stats.Chars - spaces

	for _, r := range strings.ToLower(text) {
		if strings.ContainsRune(vowels, r) {
			stats.Vowels++
		}
	}

	return stats
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// countLines counts lines the way a line splitter would: a trailing line break
// does not open a new line, "\r\n" is one break, and "" has no lines.
func countLines(text string) int {
	lines := 0
	open := false
	prevCR := false
	for _, r := range text {
		if r == '\n' && prevCR {
			prevCR = false
			continue
		}
		prevCR = r == '\r'
		if isLineBreak(r) {
			lines++
			open = false
			continue
		}
		open = true
	}
	if open {
		lines++
	}
	return lines
}
