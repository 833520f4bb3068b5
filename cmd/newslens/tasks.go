package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/newslens/internal/analyze"
	"github.com/hyperifyio/newslens/internal/report"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the analysis tasks in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tSECTION\tCOLUMN\tLABEL\tINSTRUCTION")
		for _, t := range analyze.DefaultTasks() {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", t.Key, report.GroupTitle(t.Group), t.Column+1, t.Label, t.Instruction)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
