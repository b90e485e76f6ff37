package models

// WordCount is one entry of a ranked frequency table.
type WordCount struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// RankedWord is a WordCount with its 1-indexed position in the ranking.
// This is the shape written by every exporter and returned over HTTP.
type RankedWord struct {
	Rank  int    `json:"rank" yaml:"rank"`
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// ToRanked numbers items in the order given, starting at 1.
func ToRanked(items []WordCount) []RankedWord {
	ranked := make([]RankedWord, len(items))
	for i, item := range items {
		ranked[i] = RankedWord{
			Rank:  i + 1,
			Word:  item.Word,
			Count: item.Count,
		}
	}
	return ranked
}
