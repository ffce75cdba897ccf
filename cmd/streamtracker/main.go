package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/streamtracker/streamtracker/cmd/streamtracker/tui"
	"github.com/streamtracker/streamtracker/internal/app"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "streamtracker",
	Short: "Track what your streaming subscriptions cost and what you watch on them",
	Long: "streamtracker keeps an inventory of your streaming platforms and a watchlist, " +
		"and shows which subscriptions are worth keeping. Run without a command for the interactive client.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "streamtracker %s\n", version)
	},
}

// runRoot starts the interactive client, or prints status when stdin is not
// a terminal (piping, CI, scripts).
func runRoot(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return statusCmd.RunE(cmd, args)
	}
	a, err := app.Open()
	if err != nil {
		return err
	}
	defer a.Close()
	return tui.Run(a)
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(preferencesCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(watchlistCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(discoveryCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", displayError(err))
		os.Exit(1)
	}
}
