package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/clairvox/vocalis/logging"
)

func main() {
	ctx := context.Background()

	app := &cli.Command{
		Name:  "vocalis",
		Usage: "Vocal pitch and energy diagnostics",
		Commands: []*cli.Command{
			analyzeCommand(),
			partsCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logging.Error(err, "command failed")
		os.Exit(1)
	}
}
