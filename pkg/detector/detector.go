// Package detector guesses the language of a text.
//
// Only Latin-script languages are loaded: the ranker folds text to ASCII,
// so texts in other scripts produce no words to begin with.
package detector

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// MinConfidence is the confidence below which a guess is discarded.
const MinConfidence = 0.25

var supportedLanguages = []lingua.Language{
	lingua.English,
	lingua.Portuguese,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Dutch,
	lingua.Catalan,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// languageDetector builds the shared detector on first use. Building it loads
// language models, so it is done once per process.
func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(supportedLanguages...).
			WithMinimumRelativeDistance(0.1).
			Build()
	})
	return detector
}

// Detect returns the lowercase ISO-639-1 code of the most likely language of
// text and its confidence in [0, 1]. ok is false when text is blank or no
// language is a reliable match.
func Detect(text string) (code string, confidence float64, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", 0, false
	}

	d := languageDetector()
	language, exists := d.DetectLanguageOf(text)
	if !exists {
		return "", 0, false
	}

	confidence = d.ComputeLanguageConfidence(text, language)
	if confidence < MinConfidence {
		return "", confidence, false
	}
	return strings.ToLower(language.IsoCode639_1().String()), confidence, true
}
