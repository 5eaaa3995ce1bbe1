package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hsl/internal/diagfmt"
	"hsl/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.hsl>",
	Short: "Parse an HSL script and print its syntax tree",
	Long:  `Parse builds the syntax tree of a script, including extension syntax of enabled modules`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "text", "tree format (text|sexpr|json|yaml)")
}

func runParse(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := diagfmt.ParseTreeFormat(formatStr)
	if err != nil {
		return err
	}

	res, err := driver.Parse(cmd.Context(), args[0], current.opts)
	if err != nil {
		return err
	}
	printTimings(res.Timing)
	if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag, res.FileSet, diagPretty); err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return errReported
	}
	return diagfmt.FormatTree(cmd.OutOrStdout(), res.Program, format)
}
