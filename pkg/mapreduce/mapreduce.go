package mapreduce

// Map builds a word frequency table from tokens in a single pass.
// Every key in the result has a count of at least 1.
func Map(tokens []string) map[string]int {
	counts := make(map[string]int)
	for _, token := range tokens {
		if token == "" {
			continue
		}
		counts[token]++
	}
	return counts
}
