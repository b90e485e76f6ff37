// Package analytics ranks the words of a text by frequency.
//
// A word is a maximal run of characters left after the text is lowercased,
// folded to ASCII (NFKD decomposition, then every non-ASCII code point is
// dropped) and stripped of ASCII punctuation. Scripts with no ASCII
// decomposition (Cyrillic, CJK, ...) therefore produce no words at all.
//
// Everything in this package is pure: no I/O, no logging, no shared state.
package analytics

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dtnitsch/wordrank/models"
	"github.com/dtnitsch/wordrank/pkg/mapreduce"
)

var (
	// ErrInvalidN is returned when the requested number of words is below 1.
	ErrInvalidN = errors.New("n must be a positive integer")
	// ErrEmptyInput is returned by RequireText for text that is blank after
	// trimming. Rank itself accepts such text.
	ErrEmptyInput = errors.New("no text provided")
)

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

type Analytics struct{}

// isSpace reports whether r separates words. On top of unicode.IsSpace it
// treats the ASCII file/group/record/unit separators as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func isNonASCII(r rune) bool {
	return r > unicode.MaxASCII
}

// foldASCII decomposes text (NFKD) and keeps only its ASCII code points.
// Transformers carry state, so the chain is built per call.
func foldASCII(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(isNonASCII)))
	folded, _, err := transform.String(t, text)
	if err != nil {
		return strings.Map(func(r rune) rune {
			if isNonASCII(r) {
				return -1
			}
			return r
		}, norm.NFKD.String(text))
	}
	return folded
}

func stripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && strings.ContainsRune(asciiPunctuation, r) {
			return ' '
		}
		return r
	}, text)
}

// Normalize lowercases text, folds it to ASCII and replaces each ASCII
// punctuation character with a space, in that order.
func Normalize(text string) string {
	lowered := cases.Lower(language.Und).String(text)
	return stripPunctuation(foldASCII(lowered))
}

// TrimText strips leading and trailing word separators, the same set Tokenize
// splits on.
func TrimText(text string) string {
	return strings.TrimFunc(text, isSpace)
}

// RequireText returns text trimmed by TrimText, or ErrEmptyInput when nothing
// is left.
func RequireText(text string) (string, error) {
	trimmed := TrimText(text)
	if trimmed == "" {
		return "", ErrEmptyInput
	}
	return trimmed, nil
}

// Tokenize normalizes text and splits it on whitespace runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(Normalize(text), isSpace)
}

// WordFrequency counts every token of text.
func (a *Analytics) WordFrequency(text string) map[string]int {
	return mapreduce.Map(Tokenize(text))
}

// Rank returns the n most frequent words of text, most frequent first, ties in
// ascending byte order. Blank text yields an empty slice, not an error.
func (a *Analytics) Rank(text string, n int) ([]models.WordCount, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidN, n)
	}
	return a.RankCounts(a.WordFrequency(text), n)
}

// RankCounts ranks a frequency table built by WordFrequency.
func (a *Analytics) RankCounts(counts map[string]int, n int) ([]models.WordCount, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidN, n)
	}
	return mapreduce.TopN(counts, n), nil
}

// Render ranks text and formats the result with FormatReport.
func (a *Analytics) Render(text string, n int) (string, error) {
	items, err := a.Rank(text, n)
	if err != nil {
		return "", err
	}
	return FormatReport(n, items), nil
}

// FormatReport renders a numbered list headed by the requested n:
//
//	Top 3 most common words:
//	1. ola -> 2
//	2. mundo -> 1
func FormatReport(n int, items []models.WordCount) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Top %d most common words:\n", n)
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s -> %d\n", i+1, item.Word, item.Count)
	}
	return b.String()
}
