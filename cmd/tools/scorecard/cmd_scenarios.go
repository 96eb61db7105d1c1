package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/scorecard/backend/internal/model/scenario"
)

func newScenariosCommand(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLINES")
			for _, sc := range scenario.Seed() {
				fmt.Fprintf(w, "%s\t%s\t%d\n", sc.ID, sc.Name, len(sc.Lines))
			}
			return w.Flush()
		},
	}
}
