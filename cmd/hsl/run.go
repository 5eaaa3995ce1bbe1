package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hsl/internal/driver"
	"hsl/internal/interp"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <file.hsl>",
	Short: "Check and execute an HSL script",
	Long:  `Run lexes, parses and resolves a script and interprets it when no errors were found`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExecution,
}

func init() {
	runCmd.Flags().StringP("eval", "e", "", "run the given source instead of a file")
	runCmd.Flags().Bool("print-result", false, "print the value of the last expression statement")
	runCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
}

func runExecution(cmd *cobra.Command, args []string) error {
	src, err := cmd.Flags().GetString("eval")
	if err != nil {
		return fmt.Errorf("failed to get eval flag: %w", err)
	}
	printResult, err := cmd.Flags().GetBool("print-result")
	if err != nil {
		return fmt.Errorf("failed to get print-result flag: %w", err)
	}
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readDiagFormat(formatStr)
	if err != nil {
		return err
	}

	var res *driver.Result
	switch {
	case len(args) == 1 && src != "":
		return fmt.Errorf("use either a file or --eval, not both")
	case len(args) == 1:
		res, err = driver.RunFile(cmd.Context(), args[0], current.opts)
		if err != nil {
			return err
		}
	case src != "":
		res = driver.RunSource(cmd.Context(), "<eval>", src, current.opts)
	default:
		return fmt.Errorf("expected a script file or --eval")
	}

	printTimings(res.Timing)
	if err := printDiagnostics(cmd.ErrOrStderr(), res.Bag, res.FileSet, format); err != nil {
		return err
	}
	if !res.OK() {
		return errReported
	}
	if printResult && res.Value != nil {
		fmt.Fprintln(cmd.OutOrStdout(), interp.Stringify(res.Value))
	}
	return nil
}
