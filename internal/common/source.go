package common

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dtnitsch/wordrank/models"
	"github.com/dtnitsch/wordrank/pkg/caching"
	"github.com/dtnitsch/wordrank/pkg/fetcher"
	"github.com/dtnitsch/wordrank/pkg/parser"
	"github.com/dtnitsch/wordrank/pkg/storage"
	"github.com/urfave/cli/v2"
)

// Source is the text an action works on and where it came from.
type Source struct {
	Kind string // models.SourceText, SourceFile or SourceURL
	Ref  string // file path or URL; empty for inline text
	Text string
}

// SourceFlags are shared by every command that reads text.
func SourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "path to a text file (.html/.htm files are converted to text)",
		},
		&cli.StringFlag{
			Name:    "text",
			Aliases: []string{"t"},
			Usage:   "text passed directly on the command line",
		},
		&cli.StringFlag{
			Name:  "url",
			Usage: "fetch a web page and use its readable text",
		},
	}
}

// SourceFromFlags checks that exactly one of --input, --text and --url is set.
// A violation is a usage error (exit code 2).
func SourceFromFlags(c *cli.Context) (Source, error) {
	var set []string
	for _, name := range []string{"input", "text", "url"} {
		if c.IsSet(name) {
			set = append(set, "--"+name)
		}
	}
	switch len(set) {
	case 0:
		return Source{}, cli.Exit("one of --input, --text or --url is required", 2)
	case 1:
	default:
		return Source{}, cli.Exit("only one of --input, --text or --url may be given, got "+strings.Join(set, ", "), 2)
	}

	switch {
	case c.IsSet("input"):
		return Source{Kind: models.SourceFile, Ref: c.String("input")}, nil
	case c.IsSet("url"):
		return Source{Kind: models.SourceURL, Ref: c.String("url")}, nil
	default:
		return Source{Kind: models.SourceText, Text: c.String("text")}, nil
	}
}

// Load fills in src.Text for file and URL sources. Unreadable files and failed
// fetches are logged and leave the text empty.
func (e *Env) Load(ctx context.Context, src Source) Source {
	switch src.Kind {
	case models.SourceFile:
		s := &storage.Storage{Logger: e.Logger.Logger}
		text := s.ReadText(src.Ref)
		if isHTML(src.Ref) && text != "" {
			p := &parser.Parser{}
			extracted, err := p.ExtractText("", text)
			if err != nil {
				e.Logger.Error("failed to extract text from html file", "path", src.Ref, "error", err)
				text = ""
			} else {
				text = extracted
			}
		}
		src.Text = text
	case models.SourceURL:
		f := fetcher.NewFetcher()
		if e.Config.CacheDir != "" {
			cache, err := caching.NewCache(e.Config.CacheDir, e.Config.CacheTTLDuration())
			if err != nil {
				e.Logger.Warn("page cache disabled", "dir", e.Config.CacheDir, "error", err)
			} else {
				f.WithCache(cache)
			}
		}
		text, err := f.GetText(ctx, src.Ref)
		if err != nil {
			e.Logger.Error("failed to fetch url", "url", src.Ref, "error", err)
			text = ""
		}
		src.Text = text
	}
	return src
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	}
	return false
}
