package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/brk3/consistent/internal/apiclient"
	"github.com/brk3/consistent/internal/server"

	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard <shared-id>",
	Short: "Show the 30 day leaderboard of a shared habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return leaderboard(cmd.Context(), cmd.OutOrStdout(), newClient(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
}

var medalEmoji = map[string]string{
	"gold":   "🥇",
	"silver": "🥈",
	"bronze": "🥉",
}

func leaderboard(ctx context.Context, out io.Writer, c *apiclient.Client, sharedID string) error {
	resp, err := c.GetLeaderboard(ctx, sharedID)
	if err != nil {
		return err
	}
	return printLeaderboard(out, resp)
}

func printLeaderboard(out io.Writer, resp *server.LeaderboardResponse) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tMEMBER\tSTREAK\tENTRIES\tRATE")
	for i, e := range resp.Leaderboard {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d%%\n", i+1, e.DisplayLabel, e.CurrentStreak, e.TotalEntries, e.CompletionRate)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := resp.Summary
	fmt.Fprintf(out, "\n%d/%d members active, average streak %d, average rate %d%%\n",
		s.ActiveMembers, s.Members, s.AverageStreak, s.AverageCompletionRate)
	for _, m := range resp.Medals {
		fmt.Fprintf(out, "%s %s\n", medalEmoji[m.Medal], m.Entry.DisplayLabel)
	}
	return nil
}
