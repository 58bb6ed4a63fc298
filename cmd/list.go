package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/brk3/consistent/internal/apiclient"
	"github.com/brk3/consistent/pkg/habit"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	Long:  `The "list" command lets you list your tracked habits.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return list(cmd.Context(), cmd.OutOrStdout(), newClient())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func target(h habit.Habit) string {
	if !h.HasTarget() {
		return "-"
	}
	return fmt.Sprintf("%d/%s", h.TargetCount, h.TargetPeriod)
}

func list(ctx context.Context, out io.Writer, c *apiclient.Client) error {
	habits, err := c.ListHabits(ctx)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Fprintln(out, "No habits yet")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTARGET\tSHARED")
	for _, h := range habits {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h.ID, h.Name, target(h), h.SharedHabitID)
	}
	return tw.Flush()
}
