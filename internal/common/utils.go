package common

import (
	"crypto/sha256"
	"fmt"

	"github.com/dtnitsch/wordrank/models"
)

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// NewRun builds the journal row for one analysis of text.
func NewRun(kind, ref, text string, n int, counts map[string]int, returned int) *models.Run {
	total := 0
	for _, c := range counts {
		total += c
	}
	return &models.Run{
		Source:         kind,
		SourceRef:      ref,
		N:              n,
		TotalTokens:    total,
		DistinctTokens: len(counts),
		Returned:       returned,
		ContentHash:    ContentHash([]byte(text)),
	}
}
