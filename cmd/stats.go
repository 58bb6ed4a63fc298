package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/brk3/consistent/internal/apiclient"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <habit-id>",
	Short: "Show streaks, completion rate and milestones for a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStats(cmd.Context(), cmd.OutOrStdout(), newClient(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func showStats(ctx context.Context, out io.Writer, c *apiclient.Client, habitID string) error {
	st, err := c.GetHabitStats(ctx, habitID)
	if err != nil {
		return err
	}
	a, err := c.GetMilestones(ctx, habitID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Current streak:   %d\n", st.CurrentStreak)
	fmt.Fprintf(out, "Longest streak:   %d\n", st.LongestStreak)
	fmt.Fprintf(out, "Total:            %d\n", st.TotalCompletions)
	fmt.Fprintf(out, "This week:        %d\n", st.CompletionsThisWeek)
	fmt.Fprintf(out, "This month:       %d\n", st.CompletionsThisMonth)
	fmt.Fprintf(out, "30 day rate:      %d%%\n", st.CompletionRate)
	if st.TotalCompletions > 0 {
		fmt.Fprintf(out, "Last entry:       %d days ago\n", st.DaysSinceLastEntry)
	}
	if len(a.StreakMilestones) > 0 {
		fmt.Fprintf(out, "Streak badges:    %v\n", a.StreakMilestones)
	}
	if len(a.TotalMilestones) > 0 {
		fmt.Fprintf(out, "Total badges:     %v\n", a.TotalMilestones)
	}
	return nil
}
