package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/brk3/consistent/internal/apiclient"
	"github.com/brk3/consistent/internal/config"
	"github.com/brk3/consistent/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	userFlag string
)

var rootCmd = &cobra.Command{
	Use:   "habits",
	Short: "Track habits, streaks and shared leaderboards",
	Long: `
	Habits logs daily completions against your habits and turns them into streaks,
	completion rates and celebrations. Habits can be shared with a group to compete
	on a 30 day leaderboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadOptional()
		if err != nil {
			return fmt.Errorf("error loading config file: %w", err)
		}
		if userFlag != "" {
			cfg.UserID = userFlag
		}
		logger.Configure(cfg.LogFormat, cfg.SlogLevel())
		return nil
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(cfg.APIBaseURL, cfg.UserID)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user id to act as (overrides config)")
}
