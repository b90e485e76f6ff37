package runs

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dtnitsch/wordrank/internal/common"
	"github.com/dtnitsch/wordrank/models"
	dbpkg "github.com/dtnitsch/wordrank/pkg/db"
	"github.com/urfave/cli/v2"
)

const displayTime = "2006-01-02 15:04:05"

func openJournal(c *cli.Context) (*dbpkg.DB, error) {
	env := common.GetEnv(c)
	database, err := env.OpenJournal()
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	if database == nil {
		return nil, cli.Exit("journal is disabled; pass --journal <path> or set journal_path in the config", 1)
	}
	return database, nil
}

// ListAction prints the most recent runs.
func ListAction(c *cli.Context) error {
	database, err := openJournal(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(c.App.Writer, "No runs found")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.RunID),
			r.CreatedAt.Local().Format(displayTime),
			sourceLabel(r),
			strconv.Itoa(r.N),
			strconv.Itoa(r.TotalTokens),
			strconv.Itoa(r.DistinctTokens),
			strconv.Itoa(r.Returned),
		})
	}
	fmt.Fprintln(c.App.Writer, common.RenderTable(
		[]string{"ID", "Created", "Source", "N", "Tokens", "Distinct", "Returned"},
		rows,
		[]common.ColumnAlignment{common.AlignLeft, common.AlignLeft, common.AlignLeft,
			common.AlignRight, common.AlignRight, common.AlignRight, common.AlignRight},
	))
	fmt.Fprintf(c.App.Writer, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintln(c.App.Writer, "Tip: Use 'wordrank runs show <id>' to see details")
	return nil
}

// ShowAction prints one run. Without an argument it shows the latest run.
func ShowAction(c *cli.Context) error {
	database, err := openJournal(c)
	if err != nil {
		return err
	}
	defer database.Close()

	run, err := runFromArgsOrLatest(c, database)
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Run ID", run.RunID},
		{"Created", run.CreatedAt.Local().Format(displayTime)},
		{"Source", run.Source},
		{"Reference", run.SourceRef},
		{"N", strconv.Itoa(run.N)},
		{"Tokens", strconv.Itoa(run.TotalTokens)},
		{"Distinct tokens", strconv.Itoa(run.DistinctTokens)},
		{"Returned", strconv.Itoa(run.Returned)},
		{"Content SHA-256", run.ContentHash},
	}
	fmt.Fprintln(c.App.Writer, common.RenderTable([]string{"Field", "Value"}, rows, nil))
	return nil
}

// PruneAction deletes runs older than --older-than.
func PruneAction(c *cli.Context) error {
	olderThan, err := time.ParseDuration(c.String("older-than"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid --older-than duration: %v", err), 2)
	}
	if olderThan <= 0 {
		return cli.Exit("--older-than must be a positive duration", 2)
	}

	database, err := openJournal(c)
	if err != nil {
		return err
	}
	defer database.Close()

	deleted, err := database.PruneRuns(time.Now().Add(-olderThan))
	if err != nil {
		return fmt.Errorf("failed to prune runs: %w", err)
	}
	common.GetEnv(c).Logger.Info("runs pruned", "deleted", deleted, "older_than", olderThan)
	fmt.Fprintf(c.App.Writer, "Deleted %d runs older than %s\n", deleted, olderThan)
	return nil
}

func runFromArgsOrLatest(c *cli.Context, database *dbpkg.DB) (*models.Run, error) {
	if c.NArg() == 0 {
		runs, err := database.ListRuns(1)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest run: %w", err)
		}
		if len(runs) == 0 {
			return nil, cli.Exit("no runs found. Run 'wordrank --text \"...\"' with --journal first", 1)
		}
		return &runs[0], nil
	}

	run, err := database.GetRun(c.Args().First())
	if errors.Is(err, dbpkg.ErrRunNotFound) || errors.Is(err, dbpkg.ErrAmbiguousRun) {
		return nil, cli.Exit(err.Error(), 1)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sourceLabel(r models.Run) string {
	if r.SourceRef == "" {
		return r.Source
	}
	return r.Source + ": " + r.SourceRef
}
