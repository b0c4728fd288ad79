package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GoCodeAlone/verdant/navigation"
)

// NewRoutesCommand prints the page route table.
func NewRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the page routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATTERN\tVIEW\tTITLE")
			for _, r := range navigation.DefaultTable().Routes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Pattern, r.View, r.Title)
			}
			fmt.Fprintf(w, "*\t%s\t%s\n", navigation.ViewNotFound, "Not Found")
			return w.Flush()
		},
	}
}
