package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

type Storage struct {
	Logger *slog.Logger
}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
	IsDir     bool
}

func (s *Storage) log() *slog.Logger {
	if s == nil || s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// SaveFile writes content to filePath, creating parent directories as needed.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filePath, content, 0o644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

// ReadText reads a text file as UTF-8, falling back to ISO-8859-1 when the
// bytes are not valid UTF-8. A missing or unreadable file is logged and
// yields "", which callers treat the same as empty input.
func (s *Storage) ReadText(filePath string) string {
	stats, err := s.GetFileStats(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log().Error("file not found", "path", filePath)
		} else {
			s.log().Error("failed to read file", "path", filePath, "error", err)
		}
		return ""
	}
	if stats.IsDir {
		s.log().Error("path is a directory, not a text file", "path", filePath)
		return ""
	}
	s.log().Info("reading text file", "path", filePath, "encoding", "utf-8",
		"size_bytes", stats.SizeBytes, "modified", stats.ModTime)

	data, err := s.ReadFile(filePath)
	if err != nil {
		s.log().Error("failed to read file", "path", filePath, "error", err)
		return ""
	}

	text, err := DecodeText(data)
	if err != nil {
		s.log().Error("failed to decode file", "path", filePath, "error", err)
		return ""
	}
	if !utf8.Valid(data) {
		s.log().Warn("file is not valid utf-8, decoded as latin-1", "path", filePath)
	}
	return text
}

// DecodeText returns data as a string, decoding it as ISO-8859-1 when it is
// not valid UTF-8. Every byte sequence is valid ISO-8859-1.
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("error decoding latin-1: %w", err)
	}
	return string(decoded), nil
}

// IsDir reports whether path exists and is a directory.
func (s *Storage) IsDir(path string) bool {
	stats, err := s.GetFileStats(path)
	return err == nil && stats.IsDir
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error getting file stats: %w", err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
		IsDir:     info.IsDir(),
	}, nil
}
