package stats

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dtnitsch/wordrank/internal/common"
	"github.com/dtnitsch/wordrank/pkg/analytics"
	"github.com/dtnitsch/wordrank/pkg/detector"
	"github.com/urfave/cli/v2"
)

func Flags() []cli.Flag {
	return append(common.SourceFlags(),
		&cli.BoolFlag{Name: "json", Usage: "print the statistics as JSON"},
	)
}

// StatsAction prints character, word, line and vowel counts plus a language
// guess for the selected source.
func StatsAction(c *cli.Context) error {
	env := common.GetEnv(c)

	src, err := common.SourceFromFlags(c)
	if err != nil {
		return err
	}
	src = env.Load(c.Context, src)
	if _, err := analytics.RequireText(src.Text); err != nil {
		fmt.Fprintln(c.App.Writer, "no text provided (or empty/unreadable file)")
		return cli.Exit("", 1)
	}

	a := &analytics.Analytics{}
	stats := a.TextStats(src.Text)
	if code, confidence, ok := detector.Detect(src.Text); ok {
		stats.Language = code
		stats.LanguageConfidence = confidence
	}
	env.Logger.Info("text stats computed", "source", src.Kind, "words", stats.Words, "language", stats.Language)

	if c.Bool("json") {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		fmt.Fprintln(c.App.Writer, string(data))
		return nil
	}

	language := "unknown"
	if stats.Language != "" {
		language = fmt.Sprintf("%s (%.2f)", stats.Language, stats.LanguageConfidence)
	}
	rows := [][]string{
		{"Characters", strconv.Itoa(stats.Chars)},
		{"Characters (no spaces)", strconv.Itoa(stats.CharsWithoutSpace)},
		{"Words", strconv.Itoa(stats.Words)},
		{"Lines", strconv.Itoa(stats.Lines)},
		{"Vowels", strconv.Itoa(stats.Vowels)},
		{"Language", language},
	}
	fmt.Fprintln(c.App.Writer, common.RenderTable([]string{"Metric", "Value"}, rows,
		[]common.ColumnAlignment{common.AlignLeft, common.AlignRight}))
	return nil
}
