package mapreduce

import (
	"sort"

	"github.com/dtnitsch/wordrank/models"
)

// TopN returns the n most frequent words from counts.
// Order is by descending count, ties broken by ascending byte order of the word,
// so the result never depends on map iteration order.
// If n exceeds the number of distinct words, all of them are returned.
func TopN(counts map[string]int, n int) []models.WordCount {
	ss := make([]models.WordCount, 0, len(counts))
	for k, v := range counts {
		ss = append(ss, models.WordCount{Word: k, Count: v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Word < ss[j].Word
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}

	return ss[:limit]
}
