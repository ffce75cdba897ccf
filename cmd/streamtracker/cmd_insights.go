package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/app"
	"github.com/streamtracker/streamtracker/internal/session"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show which subscriptions are worth keeping",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, session.StateAuthenticated, func(ctx context.Context, a *app.App) error {
			in, err := a.Client.Insights(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Spending %s/mo on %d subscriptions.\n", money(in.TotalMonthlySpend), in.SubscribedPlatformCount)
			if note := deref(in.DataCoverageNote); note != "" {
				fmt.Fprintln(out, note)
			}
			if len(in.Recommendations) == 0 {
				return nil
			}

			recs := append([]api.Recommendation(nil), in.Recommendations...)
			sort.SliceStable(recs, func(i, j int) bool { return recs[i].ValueScore < recs[j].ValueScore })
			rows := make([][]string, 0, len(recs))
			for _, r := range recs {
				rows = append(rows, []string{
					r.PlatformName, strings.ToUpper(r.Action), strconv.FormatFloat(r.ValueScore, 'f', 0, 64),
					r.Confidence, money(r.MonthlyCost), r.Reason,
				})
			}
			fmt.Fprintln(out)
			printTable(out, []string{"PLATFORM", "ACTION", "VALUE", "CONFIDENCE", "MONTHLY", "WHY"}, rows)
			return nil
		})
	},
}

var discoveryCmd = &cobra.Command{
	Use:   "discovery",
	Short: "Show what to watch next",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, session.StateAuthenticated, func(ctx context.Context, a *app.App) error {
			d, err := a.Client.Discovery(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s := d.Stats
			fmt.Fprintf(out, "%d titles: %d watching, %d want to watch, %d watched. About %.0f hours left.\n",
				s.TotalItems, s.Watching, s.WantToWatch, s.Watched, s.EstimatedHoursRemaining)

			printSlim(out, "Continue watching", d.ContinueWatching)
			printSlim(out, "Up next", d.UpNext)
			printSlim(out, "Recently completed", d.RecentlyCompleted)

			if len(d.PlatformBreakdown) > 0 {
				fmt.Fprintln(out, "\nBy platform")
				rows := make([][]string, 0, len(d.PlatformBreakdown))
				for _, p := range d.PlatformBreakdown {
					rows = append(rows, []string{p.PlatformName, strconv.Itoa(p.Total), strconv.Itoa(p.Watched),
						strconv.Itoa(p.Watching), strconv.Itoa(p.WantToWatch)})
				}
				printTable(out, []string{"PLATFORM", "TOTAL", "WATCHED", "WATCHING", "WANT"}, rows)
			}
			return nil
		})
	},
}

func printSlim(out io.Writer, title string, items []api.SlimItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", title)
	for _, it := range items {
		line := "  " + it.Title + " (" + it.Type + ")"
		if p := deref(it.PlatformName); p != "" {
			line += " on " + p
		}
		if !it.AddedAt.IsZero() {
			line += ", added " + humanize.Time(it.AddedAt.Time)
		}
		fmt.Fprintln(out, line)
	}
}
