package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dtnitsch/wordrank/pkg/caching"
	"github.com/dtnitsch/wordrank/pkg/parser"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 10 << 20 // 10 MB
	userAgent      = "wordrank/1.0"
)

type Fetcher struct {
	client *http.Client
	parser *parser.Parser
	cache  *caching.Cache // optional
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: defaultTimeout},
		parser: &parser.Parser{},
	}
}

// WithCache makes f serve pages from cache when fresh and store what it fetches.
func (f *Fetcher) WithCache(cache *caching.Cache) *Fetcher {
	f.cache = cache
	return f
}

// GetText fetches url and returns the readable text of the page.
func (f *Fetcher) GetText(ctx context.Context, url string) (string, error) {
	bodyBytes, err := f.GetHtmlBytes(ctx, url)
	if err != nil {
		return "", err
	}

	text, err := f.parser.ExtractText(url, string(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return text, nil
}

func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(url); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if f.cache != nil {
		// A failed cache write only costs a refetch next time.
		_ = f.cache.Set(url, bodyBytes)
	}
	return bodyBytes, nil
}
