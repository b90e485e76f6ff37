package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// defaultPageURL is handed to readability when the caller has no URL
// (local .html files). It only affects relative link resolution.
const defaultPageURL = "http://localhost/"

var skippedNodes = map[string]bool{
	"#comment": true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"head":     true,
}

var blockNodes = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

type Parser struct{}

// ExtractText returns the readable text of an HTML document, one block per
// line. go-readability picks the main article; when it fails or finds
// nothing, the whole <body> is used instead.
func (p *Parser) ExtractText(rawURL, html string) (string, error) {
	if rawURL == "" {
		rawURL = defaultPageURL
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err == nil {
		doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
		if docErr == nil {
			body := textFromSelection(doc.Find("body"))
			if body != "" {
				if title := normalizeText(article.Title); title != "" {
					return title + "\n" + body, nil
				}
				return body, nil
			}
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return textFromSelection(doc.Find("body")), nil
}

// textFromSelection walks s in document order, keeping inline text together
// and putting block elements on their own lines.
func textFromSelection(s *goquery.Selection) string {
	var b strings.Builder
	walk(s, &b)
	return cleanLines(b.String())
}

func walk(s *goquery.Selection, b *strings.Builder) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case name == "#text":
			b.WriteString(child.Text())
		case skippedNodes[name]:
		case blockNodes[name]:
			b.WriteString("\n")
			walk(child, b)
			b.WriteString("\n")
		default:
			walk(child, b)
		}
	})
}

// cleanLines trims every line and drops the empty ones.
func cleanLines(input string) string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for scanner.Scan() {
		if line := normalizeText(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// normalizeText collapses internal whitespace runs to single spaces.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
