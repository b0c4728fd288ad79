// Package cmd holds the verdant command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the verdant binary.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verdant",
		Short: "Verdant Agriculture - marketing site server",
		Long: `Verdant serves the Verdant Agriculture marketing site: the pages, the
per-visitor session API and the operational endpoints.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewRoutesCommand())
	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), PrintVersion())
		},
	})

	return cmd
}

// Version information, set through -ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func PrintVersion() string {
	return fmt.Sprintf("verdant v%s (commit: %s, built on: %s)", Version, Commit, Date)
}
