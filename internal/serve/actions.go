package serve

import (
	"os/signal"
	"syscall"

	"github.com/dtnitsch/wordrank/internal/common"
	"github.com/urfave/cli/v2"
)

// ServeAction runs the HTTP service until SIGINT or SIGTERM.
func ServeAction(c *cli.Context) error {
	env := common.GetEnv(c)
	cfg := env.Config.Server
	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}

	journal, err := env.OpenJournal()
	if err != nil {
		env.Logger.Warn("journal disabled", "error", err)
	}
	if journal != nil {
		defer journal.Close()
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := New(cfg, env.Config.DefaultN, env.Logger.Logger, journal)
	if err := srv.ListenAndServe(ctx); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}
