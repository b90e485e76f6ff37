// Package app assembles the wordrank command line.
package app

import (
	"fmt"
	"io"

	"github.com/dtnitsch/wordrank/internal/analyze"
	"github.com/dtnitsch/wordrank/internal/common"
	"github.com/dtnitsch/wordrank/internal/runs"
	"github.com/dtnitsch/wordrank/internal/serve"
	"github.com/dtnitsch/wordrank/internal/stats"
	"github.com/dtnitsch/wordrank/models"
	"github.com/dtnitsch/wordrank/pkg/help"
	"github.com/urfave/cli/v2"
)

const Version = "1.0.0"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Value: models.DefaultConfigPath,
			Usage: "YAML config file (optional unless given explicitly)",
		},
		&cli.StringFlag{
			Name:  "log-dir",
			Usage: "directory for wordrank.log (default: logs)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log file level: debug, info, warn, error (default: info)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "only show errors on stderr",
		},
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "cache pages fetched with --url in this directory (disabled when empty)",
		},
		&cli.StringFlag{
			Name:  "journal",
			Usage: "SQLite file recording run metadata (disabled when empty)",
		},
	}
}

// usageError turns flag parsing failures into exit code 2.
func usageError(c *cli.Context, err error, _ bool) error {
	return cli.Exit(fmt.Sprintf("Incorrect Usage: %v", err), 2)
}

// New builds the application. Output goes to w, diagnostics to errW, and the
// process is never exited from inside the app.
func New(w, errW io.Writer) *cli.App {
	return &cli.App{
		Name:                 "wordrank",
		Usage:                "Rank the most common words of a text",
		UsageText:            "wordrank (--input <path> | --text <string> | --url <url>) [--n 10] [--out <path>] [--csv] [--json] [--yaml]",
		Version:              Version,
		Writer:               w,
		ErrWriter:            errW,
		EnableBashCompletion: true,
		Metadata:             map[string]interface{}{},
		Flags:                append(globalFlags(), analyze.Flags()...),
		Before:               common.Setup,
		After:                common.Teardown,
		Action:               analyze.AnalyzeAction,
		OnUsageError:         usageError,
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			if msg := err.Error(); msg != "" {
				fmt.Fprintln(errW, msg)
			}
		},
		Commands: []*cli.Command{
			{
				Name:         "serve",
				Usage:        "Serve the ranker over HTTP (GET /health, POST /analyze, POST /stats)",
				OnUsageError: usageError,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "listen address (default: server.addr from config, :8000)",
					},
				},
				Action: serve.ServeAction,
			},
			{
				Name:         "stats",
				Usage:        "Show character, word, line and vowel counts and a language guess",
				OnUsageError: usageError,
				Flags:        stats.Flags(),
				Action:       stats.StatsAction,
			},
			{
				Name:         "runs",
				Usage:        "List runs recorded in the journal",
				OnUsageError: usageError,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "maximum number of runs to show (0 = all)",
					},
				},
				Action: runs.ListAction,
				Subcommands: []*cli.Command{
					{
						Name:         "show",
						Usage:        "Show one run (latest when no ID is given)",
						ArgsUsage:    "[run-id or prefix]",
						OnUsageError: usageError,
						Action:       runs.ShowAction,
					},
					{
						Name:         "prune",
						Usage:        "Delete runs older than a duration",
						OnUsageError: usageError,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "older-than",
								Usage:    "age cutoff, e.g. 720h",
								Required: true,
							},
						},
						Action: runs.PruneAction,
					},
				},
			},
			{
				Name:  "quickstart",
				Usage: "Print usage examples as YAML",
				Action: func(c *cli.Context) error {
					fmt.Fprint(c.App.Writer, help.QuickstartYAML)
					return nil
				},
			},
		},
	}
}
