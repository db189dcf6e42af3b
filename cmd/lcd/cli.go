package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
	"github.com/j-veylop/lc-dashboard-tui/internal/services/mastery"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/tabs/dashboard"
)

// mode selects what a single invocation does.
type mode int

const (
	modeTUI mode = iota
	modeVersion
	modeHelp
	modeCollect
	modeImport
)

// options are the parsed command-line flags.
type options struct {
	mode       mode
	importPath string
}

var errUsage = errors.New("invalid usage")

// parseArgs parses the arguments following the program name.
func parseArgs(args []string) (options, error) {
	var opts options

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-v" || arg == "--version":
			return options{mode: modeVersion}, nil

		case arg == "-h" || arg == "--help":
			return options{mode: modeHelp}, nil

		case arg == "--collect":
			opts.mode = modeCollect

		case arg == "--import-mastery":
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
				return opts, fmt.Errorf("%w: --import-mastery requires a file", errUsage)
			}
			i++
			opts.mode = modeImport
			opts.importPath = args[i]

		case strings.HasPrefix(arg, "--import-mastery="):
			opts.mode = modeImport
			opts.importPath = strings.TrimPrefix(arg, "--import-mastery=")
			if opts.importPath == "" {
				return opts, fmt.Errorf("%w: --import-mastery requires a file", errUsage)
			}

		default:
			return opts, fmt.Errorf("%w: unknown flag %q", errUsage, arg)
		}
	}

	return opts, nil
}

// printCollectSummary writes the result of a one-shot collection.
func printCollectSummary(w io.Writer, snapshot *models.ProgressSnapshot, d *models.Dashboard) {
	fmt.Fprintf(w, "Collected at %s\n", snapshot.Time().Local().Format("Jan 2, 2006 15:04"))
	fmt.Fprintf(w, "  Solved:   %d / %d (E%d M%d H%d)\n",
		snapshot.Total(), d.Targets.Sum(), snapshot.Easy, snapshot.Medium, snapshot.Hard)
	fmt.Fprintf(w, "  Progress: %.1f%%\n", d.ProgressPercent)

	if len(d.Activity) > 0 {
		today := d.Activity[0]
		fmt.Fprintf(w, "  Today:    %s\n", dashboard.FormatDelta(today.Total, today.Easy, today.Medium, today.Hard))
	}
	fmt.Fprintf(w, "  Week:     %s\n",
		dashboard.FormatDelta(d.Weekly.Total, d.Weekly.Easy, d.Weekly.Medium, d.Weekly.Hard))
	fmt.Fprintf(w, "  Top 150:  %s\n", dashboard.FormatPrediction(d.ProgressPrediction, d.ProgressPercent))

	if d.HasMastery() {
		fmt.Fprintf(w, "  Mastery:  %.1f%%, %s\n",
			d.MasteryPercent, dashboard.FormatPrediction(d.MasteryPrediction, d.MasteryPercent))
	}
}

// printImportSummary writes the result of a one-shot mastery import.
func printImportSummary(w io.Writer, result mastery.Result) {
	fmt.Fprintf(w, "Imported %d mastery snapshot(s) from %s, %d skipped\n",
		result.Imported, result.Path, result.Skipped)
}
