package cmd

import (
	"fmt"
	"time"

	"github.com/brk3/consistent/internal/nudge"
	"github.com/brk3/consistent/internal/nudge/resend"

	"github.com/spf13/cobra"
)

var nudgeCmd = &cobra.Command{
	Use:   "nudge",
	Short: "Email a reminder for habit streaks that end at midnight",
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Nudge.ResendAPIKey == "" {
			return fmt.Errorf("resend api key is not set (nudge.resend_api_key or HABITS_RESEND_API_KEY)")
		}
		if cfg.Nudge.Email == "" {
			return fmt.Errorf("notify email is not set (nudge.email or HABITS_NOTIFY_EMAIL)")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		n := resend.ResendNotifier{
			ApiKey: cfg.Nudge.ResendAPIKey,
			Email:  cfg.Nudge.Email,
			From:   cfg.Nudge.From,
		}
		sent, err := nudge.Nudge(cmd.Context(), newClient(), &n, time.Now())
		if err != nil {
			return err
		}
		cmd.Printf("Nudged about %d habits\n", len(sent))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nudgeCmd)
}
