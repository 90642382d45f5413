package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/clairvox/vocalis/logging"
	"github.com/clairvox/vocalis/vocal"
	"github.com/clairvox/vocalis/vocal/config"
)

var errMissingFile = errors.New("expected exactly one argument: path to an audio recording")

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze a vocal recording and print pitch metrics",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "part",
				Aliases:  []string{"p"},
				Usage:    "Voice part: Soprano, Alto, Tenor, Baritone, Bass",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "target-note",
				Aliases: []string{"n"},
				Usage:   "Reference pitch in scientific notation (e.g. F4, Eb4); defaults to the part's reference for sustained tests",
			},
			&cli.StringFlag{
				Name:    "test",
				Aliases: []string{"t"},
				Usage:   "Battery test id (T1..T6)",
			},
			&cli.StringFlag{
				Name:  "profiles",
				Usage: "YAML file overriding the built-in voice-part table",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit the full result as JSON",
			},
			&cli.BoolFlag{
				Name:  "with-series",
				Usage: "Include the per-frame series in JSON output",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return errMissingFile
	}
	path := cmd.Args().First()

	if cmd.Bool("verbose") {
		logging.SetLevel(logging.DebugLevel)
	}

	part, err := config.ParsePart(cmd.String("part"))
	if err != nil {
		return err
	}

	cfg := vocal.DefaultAnalyzerConfig()
	if profilesPath := cmd.String("profiles"); profilesPath != "" {
		profiles, err := config.LoadProfiles(profilesPath)
		if err != nil {
			return err
		}
		cfg.Profiles = profiles
	}

	analyzer, err := vocal.NewAnalyzer(cfg)
	if err != nil {
		return err
	}

	result, err := analyzer.AnalyzeFile(ctx, path, vocal.AnalysisRequest{
		Part:       part,
		TargetNote: cmd.String("target-note"),
		TestID:     cmd.String("test"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return printJSON(result, cmd.Bool("with-series"))
	}

	printSummary(result)
	return nil
}

// printJSON emits the result as JSON. encoding/json rejects NaN, so the
// series' unvoiced frames are rewritten to 0 before marshaling.
func printJSON(result *vocal.TestResult, withSeries bool) error {
	out := *result
	if withSeries {
		out.Series = sanitizeSeries(result.Series)
	} else {
		out.Series = nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(&out)
}

func sanitizeSeries(series *vocal.FrameSeries) *vocal.FrameSeries {
	if series == nil {
		return nil
	}

	clean := *series
	clean.F0 = make([]float64, len(series.F0))
	for i, f := range series.F0 {
		if math.IsNaN(f) {
			clean.F0[i] = 0
		} else {
			clean.F0[i] = f
		}
	}
	return &clean
}

func printSummary(result *vocal.TestResult) {
	m := result.Metrics

	if result.TestName != "" {
		fmt.Printf("Test:            %s (%s)\n", result.TestName, result.TestID)
	}
	fmt.Printf("Duration:        %.1f s (%d frames)\n", result.Series.Duration(), result.Series.Len())
	fmt.Printf("Voiced ratio:    %.0f%%  [confidence: %s]\n", m.VoicedRatio*100, m.ConfidenceLabel)
	if m.TargetHz > 0 {
		fmt.Printf("Target:          %.2f Hz\n", m.TargetHz)
		fmt.Printf("Accuracy:        %.1f cents\n", m.AccuracyCents)
		fmt.Printf("On target:       %.0f%%\n", m.OnTargetRatio*100)
	}
	fmt.Printf("Mean pitch:      %.2f Hz\n", m.MeanPitchHz)
	fmt.Printf("Stability:       %.1f cents\n", m.StabilityCents)
	fmt.Printf("Drift:           %+.1f cents\n", m.DriftCents)

	fmt.Println("\nDiagnosis:")
	for _, tag := range result.Tags {
		fmt.Printf("  [%s] %s\n", tag.Label, tag.Description)
	}
}
