package models

// AnalyzeRequest is the body of POST /analyze.
// Pointers distinguish a missing field from its zero value.
type AnalyzeRequest struct {
	Text *string `json:"text"`
	N    *int    `json:"n"`
}

// AnalyzeResponse is the body returned by POST /analyze.
type AnalyzeResponse struct {
	N      int          `json:"n"`
	Report string       `json:"report"`
	Items  []RankedWord `json:"items"`
}

// StatsRequest is the body of POST /stats.
type StatsRequest struct {
	Text *string `json:"text"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is returned for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
