package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/clairvox/vocalis/vocal/config"
)

func partsCommand() *cli.Command {
	return &cli.Command{
		Name:  "parts",
		Usage: "List the voice-part profiles in use",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "profiles",
				Usage: "YAML file overriding the built-in voice-part table",
			},
		},
		Action: runParts,
	}
}

func runParts(ctx context.Context, cmd *cli.Command) error {
	profiles := config.DefaultProfiles()
	if path := cmd.String("profiles"); path != "" {
		loaded, err := config.LoadProfiles(path)
		if err != nil {
			return err
		}
		profiles = loaded
	}

	for _, part := range config.Parts {
		p, ok := profiles[part]
		if !ok {
			continue
		}
		fmt.Printf("%-9s range %.0f-%.0f Hz, passaggio %v, target %s  (%s)\n",
			p.Part, p.RangeHz[0], p.RangeHz[1], p.PassaggioHz, p.DefaultTargetNote, p.Desc)
	}
	return nil
}
