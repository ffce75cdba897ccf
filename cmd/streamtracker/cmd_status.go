package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamtracker/streamtracker/internal/paths"
	"github.com/streamtracker/streamtracker/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in and what you spend",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		snap := a.Session.Snapshot()
		fmt.Fprintf(out, "API:       %s\n", a.Client.BaseURL())
		fmt.Fprintf(out, "Data dir:  %s\n", paths.DataDir())

		switch snap.State() {
		case session.StateUnauthenticated:
			fmt.Fprintln(out, "Session:   signed out (run 'streamtracker login')")
			return nil
		case session.StateOnboarding:
			fmt.Fprintf(out, "Session:   %s, onboarding not finished (run 'streamtracker onboard')\n", snap.UserEmail)
			return nil
		}
		fmt.Fprintf(out, "Session:   %s\n", snap.UserEmail)

		platforms, err := a.Client.ListPlatforms(contextOf(cmd))
		if err != nil {
			fmt.Fprintf(out, "Platforms: unavailable (%s)\n", displayError(err))
			return nil
		}
		var subscribed int
		var spend float64
		for _, p := range platforms {
			if p.IsSubscribed {
				subscribed++
				spend += p.MonthlyCost
			}
		}
		fmt.Fprintf(out, "Platforms: %d tracked, %d subscribed, %s/mo\n", len(platforms), subscribed, money(spend))
		return nil
	},
}
