package models

import "time"

// Run source kinds.
const (
	SourceText = "text"
	SourceFile = "file"
	SourceURL  = "url"
	SourceHTTP = "http"
)

// Run is one journal row. It describes an analysis without storing its result.
type Run struct {
	RunID          string
	CreatedAt      time.Time
	Source         string // text, file, url, http
	SourceRef      string // file path or URL; empty for inline text
	N              int
	TotalTokens    int
	DistinctTokens int
	Returned       int
	ContentHash    string
}
