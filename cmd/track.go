package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/brk3/consistent/internal/apiclient"

	"github.com/spf13/cobra"
)

var trackDate string

var trackCmd = &cobra.Command{
	Use:   "track <habit-id> [note]",
	Short: "Log a completion for a habit",
	Long: `The "track" command logs a completion for today, or for --date, and prints
any celebration it earned along with the updated streak.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var note string
		if len(args) == 2 {
			note = args[1]
		}
		return track(cmd.Context(), cmd.OutOrStdout(), newClient(), args[0], note, trackDate)
	},
}

func init() {
	trackCmd.Flags().StringVar(&trackDate, "date", "", "day to log in YYYY-MM-DD (default today)")
	rootCmd.AddCommand(trackCmd)
}

func track(ctx context.Context, out io.Writer, c *apiclient.Client, habitID, note, date string) error {
	resp, err := c.LogEntry(ctx, habitID, date, note)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Logged %s for %s\n", habitID, resp.Entry.Date)
	if cel := resp.Celebration; cel != nil {
		fmt.Fprintf(out, "%s %s %s\n", cel.Emoji, cel.Title, cel.Description)
	}
	fmt.Fprintf(out, "Streak: %d (best %d)\n", resp.Stats.CurrentStreak, resp.Stats.LongestStreak)
	return nil
}
