package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"hsl/internal/diag"
	"hsl/internal/diagfmt"
	"hsl/internal/observ"
	"hsl/internal/source"
)

type diagFormat string

const (
	diagPretty diagFormat = "pretty"
	diagShort  diagFormat = "short"
	diagJSON   diagFormat = "json"
)

func readDiagFormat(value string) (diagFormat, error) {
	switch f := diagFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return diagPretty, nil
	case diagPretty, diagShort, diagJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown diagnostics format %q (expected pretty|short|json)", value)
}

// printDiagnostics writes bag to w in format.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, format diagFormat) error {
	if bag == nil || bag.Len() == 0 {
		if format == diagJSON {
			return diagfmt.JSON(w, diag.NewBag(1), fs, diagfmt.JSONOpts{})
		}
		return nil
	}
	bag.Sort()
	switch format {
	case diagJSON:
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     true,
		})
	case diagShort:
		_, err := fmt.Fprintln(w, diag.FormatShort(bag.Items(), fs, true))
		return err
	default:
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     current.color,
			Context:   1,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
			ShowPhase: true,
		})
		return nil
	}
}

// printTimings writes the phase table to stderr when --timings is set.
func printTimings(r *observ.Report) {
	if !current.timings || r == nil {
		return
	}
	fmt.Fprint(os.Stderr, r.String())
}
