// Package caching keeps fetched web pages on disk so repeated --url runs do
// not hit the network. Only source pages are cached, never rankings.
package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a directory of page bodies keyed by URL, each valid for ttl.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates the cache directory if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("cache directory is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{path: path, ttl: ttl}, nil
}

func (c *Cache) file(url string) string {
	hash := sha256.Sum256([]byte(url))
	return filepath.Join(c.path, fmt.Sprintf("%x.html", hash))
}

// Get returns the cached body of url when present and younger than the ttl.
func (c *Cache) Get(url string) ([]byte, bool) {
	filePath := c.file(url)

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the body of url.
func (c *Cache) Set(url string, data []byte) error {
	if err := os.WriteFile(c.file(url), data, 0o644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

// Prune removes expired entries and returns how many were deleted.
func (c *Cache) Prune() (int, error) {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".html" {
			continue
		}
		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) <= c.ttl {
			continue
		}
		if err := os.Remove(filepath.Join(c.path, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}
