package main

import (
	"errors"
	"os"

	"github.com/dtnitsch/wordrank/internal/app"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := app.New(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}
