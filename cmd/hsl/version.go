package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hsl/internal/stdlib"
	"hsl/internal/version"
)

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information and bundled modules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := version.Current()
		out := cmd.OutOrStdout()
		switch strings.ToLower(versionFormat) {
		case "json":
			payload := struct {
				version.Info
				Modules []string `json:"modules"`
			}{info, stdlib.Names}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		case "pretty":
			fmt.Fprint(out, info.String(current.color))
			fmt.Fprintf(out, "modules: %s\n", strings.Join(stdlib.Names, ", "))
			return nil
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
	},
}
