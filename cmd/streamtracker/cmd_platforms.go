package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/app"
	"github.com/streamtracker/streamtracker/internal/session"
)

var (
	platformCost         string
	platformColor        string
	platformName         string
	platformUnsubscribed bool
	platformSubscribed   string
)

var platformsCmd = &cobra.Command{
	Use:     "platforms",
	Aliases: []string{"platform"},
	Short:   "Manage your streaming platforms",
}

var platformsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List platforms and what they cost",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, session.StateAuthenticated, func(ctx context.Context, a *app.App) error {
			platforms, err := a.Client.ListPlatforms(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(platforms) == 0 {
				fmt.Fprintln(out, "No platforms yet. Add one with 'streamtracker platforms add NAME'.")
				return nil
			}
			var total float64
			rows := make([][]string, 0, len(platforms))
			for _, p := range platforms {
				sub := "no"
				if p.IsSubscribed {
					sub = "yes"
					total += p.MonthlyCost
				}
				rows = append(rows, []string{strconv.Itoa(p.ID), p.Name, money(p.MonthlyCost), sub})
			}
			printTable(out, []string{"ID", "NAME", "MONTHLY", "SUBSCRIBED"}, rows)
			fmt.Fprintf(out, "\nSubscribed total: %s/mo\n", money(total))
			return nil
		})
	},
}

var platformsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a platform",
	Long:  "add creates a platform. Known services get their brand color and, without --cost, their usual price.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		create := api.PlatformCreate{
			Name:         strings.TrimSpace(args[0]),
			Color:        platformColor,
			IsSubscribed: !platformUnsubscribed,
		}
		if create.Name == "" {
			return fmt.Errorf("platform name is required")
		}
		if e, ok := lookupPlatform(create.Name); ok {
			create.Name = e.Name
			if create.Color == "" {
				create.Color = e.Color
			}
			create.MonthlyCost = e.SuggestedPrice
		}
		if platformCost != "" {
			cost, err := parseCost(platformCost)
			if err != nil {
				return err
			}
			create.MonthlyCost = cost
		}

		return withSession(cmd, session.StateAuthenticated, func(ctx context.Context, a *app.App) error {
			p, err := a.Client.CreatePlatform(ctx, create)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (id %d) at %s/mo.\n", p.Name, p.ID, money(p.MonthlyCost))
			return nil
		})
	},
}

var platformsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Change a platform's name, cost, color or subscription",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var u api.PlatformUpdate
		if platformName != "" {
			u.Name = &platformName
		}
		if platformColor != "" {
			u.Color = &platformColor
		}
		if platformCost != "" {
			cost, err := parseCost(platformCost)
			if err != nil {
				return err
			}
			u.MonthlyCost = &cost
		}
		if platformSubscribed != "" {
			sub, err := strconv.ParseBool(platformSubscribed)
			if err != nil {
				return fmt.Errorf("invalid --subscribed %q", platformSubscribed)
			}
			u.IsSubscribed = &sub
		}
		if u == (api.PlatformUpdate{}) {
			return fmt.Errorf("nothing to update (use --name, --cost, --color or --subscribed)")
		}

		return withSession(cmd, session.StateAuthenticated, func(ctx context.Context, a *app.App) error {
			p, err := a.Client.UpdatePlatform(ctx, id, u)
			if err != nil {
				return err
			}
			sub := "not subscribed"
			if p.IsSubscribed {
				sub = "subscribed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s/mo, %s.\n", p.Name, money(p.MonthlyCost), sub)
			return nil
		})
	},
}

var platformsRemoveCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm"},
	Short:   "Remove a platform",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, session.StateAuthenticated, func(ctx context.Context, a *app.App) error {
			if err := a.Client.DeletePlatform(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed platform %d.\n", id)
			return nil
		})
	},
}

// parseCost is stricter than the onboarding form: a typo on the command line
// is an error rather than a zero.
func parseCost(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "$")), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid cost %q", text)
	}
	return v, nil
}

func init() {
	platformsAddCmd.Flags().StringVar(&platformCost, "cost", "", "Monthly cost")
	platformsAddCmd.Flags().StringVar(&platformColor, "color", "", "Hex color, e.g. #E50914")
	platformsAddCmd.Flags().BoolVar(&platformUnsubscribed, "unsubscribed", false, "Track the platform without a subscription")

	platformsUpdateCmd.Flags().StringVar(&platformName, "name", "", "New name")
	platformsUpdateCmd.Flags().StringVar(&platformCost, "cost", "", "New monthly cost")
	platformsUpdateCmd.Flags().StringVar(&platformColor, "color", "", "New hex color")
	platformsUpdateCmd.Flags().StringVar(&platformSubscribed, "subscribed", "", "true or false")

	platformsCmd.AddCommand(platformsListCmd)
	platformsCmd.AddCommand(platformsAddCmd)
	platformsCmd.AddCommand(platformsUpdateCmd)
	platformsCmd.AddCommand(platformsRemoveCmd)
}
