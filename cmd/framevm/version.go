package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		switch strings.ToLower(format) {
		case "json":
			output, err := getOutputJSON(map[string]any{
				"version": version,
				"commit":  commit,
				"date":    date,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
		case "", "text":
			fmt.Fprintf(cmd.OutOrStdout(), "framevm %s (commit %s, built %s)\n", version, commit, date)
		default:
			return fmt.Errorf("unknown output format: %s", format)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().StringP("output", "o", "", "Output format: json or text")
}
