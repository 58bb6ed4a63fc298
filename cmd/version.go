package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/brk3/consistent/internal/apiclient"
	"github.com/brk3/consistent/pkg/versioninfo"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `The "version" command displays the current version info for both client
and server if available.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version(cmd.Context(), cmd.OutOrStdout(), newClient())
	},
}

func version(ctx context.Context, out io.Writer, c *apiclient.Client) {
	fmt.Fprintf(out, "Client Version: %s\n", versioninfo.Version)

	info, err := c.Version(ctx)
	if err != nil {
		fmt.Fprintln(out, "Error fetching server version:", err)
		return
	}
	fmt.Fprintf(out, "Server Version: %s\n", info.Version)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
