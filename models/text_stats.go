package models

// TextStats holds simple character/word/line counts for a text.
type TextStats struct {
	Chars              int     `json:"char" yaml:"char"`
	CharsWithoutSpace  int     `json:"char_without_space" yaml:"char_without_space"`
	Words              int     `json:"words" yaml:"words"`
	Lines              int     `json:"lines" yaml:"lines"`
	Vowels             int     `json:"vowels" yaml:"vowels"`
	Language           string  `json:"language,omitempty" yaml:"language,omitempty"` // ISO-639-1, lowercase
	LanguageConfidence float64 `json:"language_confidence,omitempty" yaml:"language_confidence,omitempty"`
}
