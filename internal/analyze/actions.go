package analyze

import (
	"errors"
	"fmt"

	"github.com/dtnitsch/wordrank/internal/common"
	"github.com/dtnitsch/wordrank/pkg/analytics"
	"github.com/dtnitsch/wordrank/pkg/export"
	"github.com/dtnitsch/wordrank/pkg/storage"
	"github.com/urfave/cli/v2"
)

const (
	msgInvalidN  = "--n must be greater than 0"
	msgEmptyText = "no text provided (or empty/unreadable file)"
)

// Flags are the root command's flags.
func Flags() []cli.Flag {
	flags := common.SourceFlags()
	return append(flags,
		&cli.IntFlag{
			Name:  "n",
			Usage: "number of words to show (default: default_n from config, 10)",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "report path; a directory gets report.txt, a bare name gets .txt",
		},
		&cli.BoolFlag{Name: "csv", Usage: "also save rank,word,count as CSV next to the report"},
		&cli.BoolFlag{Name: "json", Usage: "also save the ranking as JSON next to the report"},
		&cli.BoolFlag{Name: "yaml", Usage: "also save the ranking as YAML next to the report"},
	)
}

// AnalyzeAction ranks the words of the selected source, prints the report and
// optionally saves it.
func AnalyzeAction(c *cli.Context) error {
	env := common.GetEnv(c)
	logger := env.Logger

	src, err := common.SourceFromFlags(c)
	if err != nil {
		return err
	}

	n := env.Config.DefaultN
	if c.IsSet("n") {
		n = c.Int("n")
	}
	if n <= 0 {
		logger.Info("invalid n", "n", n)
		fmt.Fprintln(c.App.Writer, msgInvalidN)
		return cli.Exit("", 1)
	}

	src = env.Load(c.Context, src)
	if _, err := analytics.RequireText(src.Text); err != nil {
		if errors.Is(err, analytics.ErrEmptyInput) {
			logger.Info("empty input", "source", src.Kind, "ref", src.Ref)
			fmt.Fprintln(c.App.Writer, msgEmptyText)
			return cli.Exit("", 1)
		}
		return cli.Exit(err.Error(), 1)
	}

	a := &analytics.Analytics{}
	counts := a.WordFrequency(src.Text)
	items, err := a.RankCounts(counts, n)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	report := analytics.FormatReport(n, items)
	logger.Info("text ranked", "source", src.Kind, "n", n, "distinct", len(counts), "returned", len(items))

	fmt.Fprintln(c.App.Writer, report)

	opts := export.Options{
		Out:       c.String("out"),
		OutputDir: env.Config.OutputDir,
		CSV:       c.Bool("csv"),
		JSON:      c.Bool("json"),
		YAML:      c.Bool("yaml"),
	}
	if opts.Enabled() {
		exporter := export.NewExporter(&storage.Storage{Logger: logger.Logger})
		paths, err := exporter.Write(report, items, opts)
		if err != nil {
			logger.Error("export failed", "error", err)
			return cli.Exit(fmt.Sprintf("failed to save report: %v", err), 1)
		}
		logger.Info("report saved", "report", paths.Report, "csv", paths.CSV, "json", paths.JSON, "yaml", paths.YAML)
	}

	env.RecordRun(common.NewRun(src.Kind, src.Ref, src.Text, n, counts, len(items)))
	return nil
}
