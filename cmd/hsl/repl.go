package main

import (
	"os"

	"github.com/spf13/cobra"

	"hsl/internal/ui"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Long: `Repl evaluates statements one input at a time; globals and declared
prefix/infix functions persist between inputs. When stdin is not a terminal
the input is read line by line without the interactive UI.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := ui.REPLOptions{Driver: current.opts, Color: current.color}
		if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
			return ui.RunREPL(cmd.Context(), opts)
		}
		return ui.RunPlain(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
	},
}
