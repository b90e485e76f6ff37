// Package common holds the pieces every wordrank command shares: the loaded
// config, the process logger, the run journal and text-source resolution.
package common

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dtnitsch/wordrank/internal/logging"
	"github.com/dtnitsch/wordrank/models"
	dbpkg "github.com/dtnitsch/wordrank/pkg/db"
	"github.com/urfave/cli/v2"
)

const envKey = "wordrank.env"

// Env is built once per process by Setup and read by every action.
type Env struct {
	Config *models.Config
	Logger *logging.Logger
}

// Setup loads the config file, applies global flag overrides and opens the
// logger. It runs as the app's Before hook.
func Setup(c *cli.Context) error {
	cfg, err := models.LoadConfig(c.String("config"), c.IsSet("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.IsSet("log-dir") {
		cfg.LogDir = c.String("log-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(c.String("log-level")))
	}
	if c.IsSet("journal") {
		cfg.JournalPath = c.String("journal")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(fmt.Sprintf("invalid configuration: %v", err), 1)
	}

	logger := logging.New(logging.Options{
		Dir:     cfg.LogDir,
		Level:   cfg.LogLevel,
		Quiet:   c.Bool("quiet"),
		Console: c.App.ErrWriter,
	})
	logger.Debug("configuration loaded", "config", c.String("config"), "log_dir", cfg.LogDir)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[envKey] = &Env{Config: cfg, Logger: logger}
	return nil
}

// Teardown closes the log file. It runs as the app's After hook.
func Teardown(c *cli.Context) error {
	env, ok := c.App.Metadata[envKey].(*Env)
	if !ok {
		return nil
	}
	return env.Logger.Close()
}

// GetEnv returns the Env stored by Setup, or a default one when Setup did not
// run (help output, direct action calls).
func GetEnv(c *cli.Context) *Env {
	if env, ok := c.App.Metadata[envKey].(*Env); ok {
		return env
	}
	return &Env{
		Config: models.DefaultConfig(),
		Logger: &logging.Logger{Logger: slog.Default()},
	}
}

// JournalEnabled reports whether runs should be recorded.
func (e *Env) JournalEnabled() bool {
	return strings.TrimSpace(e.Config.JournalPath) != ""
}

// OpenJournal opens the run journal. It returns nil, nil when the journal is
// disabled.
func (e *Env) OpenJournal() (*dbpkg.DB, error) {
	if !e.JournalEnabled() {
		return nil, nil
	}
	database, err := dbpkg.Open(e.Config.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return database, nil
}

// RecordRun appends run to the journal when it is enabled. Failures are
// logged and otherwise ignored.
func (e *Env) RecordRun(run *models.Run) {
	database, err := e.OpenJournal()
	if err != nil {
		e.Logger.Warn("run not recorded", "error", err)
		return
	}
	if database == nil {
		return
	}
	defer database.Close()

	if err := database.InsertRun(run); err != nil {
		e.Logger.Warn("run not recorded", "error", err)
		return
	}
	e.Logger.Info("run recorded", "run_id", run.RunID, "journal", database.Path())
}
