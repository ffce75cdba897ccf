package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/app"
	"github.com/streamtracker/streamtracker/internal/session"
)

var (
	watchlistStatus   string
	watchlistType     string
	watchlistPlatform string
	watchlistNotes    string
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Manage the titles you track",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List watchlist titles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var status api.WatchStatus
		if watchlistStatus != "" {
			var err error
			if status, err = api.ParseWatchStatus(watchlistStatus); err != nil {
				return err
			}
		}
		return withSession(cmd, session.StateAuthenticated, func(ctx context.Context, a *app.App) error {
			items, err := a.Client.ListWatchlist(ctx, status)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No titles. Add one with 'streamtracker watchlist add TITLE'.")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				added := "-"
				if !it.AddedAt.IsZero() {
					added = humanize.Time(it.AddedAt.Time)
				}
				rows = append(rows, []string{
					strconv.Itoa(it.ID), it.Title, string(it.Type), it.Status.Label(),
					deref(it.PlatformName), added,
				})
			}
			printTable(out, []string{"ID", "TITLE", "TYPE", "STATUS", "PLATFORM", "ADDED"}, rows)
			return nil
		})
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		create := api.WatchlistCreate{
			Title: strings.TrimSpace(strings.Join(args, " ")),
			Type:  api.ItemType(strings.ToLower(watchlistType)),
		}
		if create.Type != api.ItemMovie && create.Type != api.ItemShow {
			return fmt.Errorf("invalid --type %q (want movie or show)", watchlistType)
		}
		if watchlistStatus != "" {
			status, err := api.ParseWatchStatus(watchlistStatus)
			if err != nil {
				return err
			}
			create.Status = status
		}
		if watchlistPlatform != "" {
			create.PlatformName = &watchlistPlatform
		}
		if watchlistNotes != "" {
			create.Notes = &watchlistNotes
		}

		return withSession(cmd, session.StateAuthenticated, func(ctx context.Context, a *app.App) error {
			it, err := a.Client.CreateWatchlistItem(ctx, create)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (id %d) as %s.\n", it.Title, it.ID, it.Status.Label())
			return nil
		})
	},
}

var watchlistStatusCmd = &cobra.Command{
	Use:   "status ID [STATUS]",
	Short: "Set a title's status, or advance it to the next one",
	Long:  "status sets want_to_watch (or want), watching or watched. Without STATUS it advances one step, wrapping from watched.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var status api.WatchStatus
		if len(args) == 2 {
			if status, err = api.ParseWatchStatus(args[1]); err != nil {
				return err
			}
		}

		return withSession(cmd, session.StateAuthenticated, func(ctx context.Context, a *app.App) error {
			if status == "" {
				items, err := a.Client.ListWatchlist(ctx, "")
				if err != nil {
					return err
				}
				for _, it := range items {
					if it.ID == id {
						status = it.Status.Next()
					}
				}
				if status == "" {
					return fmt.Errorf("no watchlist item with id %d", id)
				}
			}
			it, err := a.Client.UpdateWatchlistItem(ctx, id, api.WatchlistUpdate{Status: &status})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q is now %s.\n", it.Title, it.Status.Label())
			return nil
		})
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm"},
	Short:   "Remove a title",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, session.StateAuthenticated, func(ctx context.Context, a *app.App) error {
			if err := a.Client.DeleteWatchlistItem(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed title %d.\n", id)
			return nil
		})
	},
}

func init() {
	watchlistListCmd.Flags().StringVarP(&watchlistStatus, "status", "s", "", "Only show want_to_watch, watching or watched")

	watchlistAddCmd.Flags().StringVarP(&watchlistType, "type", "t", string(api.ItemMovie), "movie or show")
	watchlistAddCmd.Flags().StringVarP(&watchlistStatus, "status", "s", "", "Initial status (default want_to_watch)")
	watchlistAddCmd.Flags().StringVarP(&watchlistPlatform, "platform", "p", "", "Platform the title is on")
	watchlistAddCmd.Flags().StringVar(&watchlistNotes, "notes", "", "Free-form notes")

	watchlistCmd.AddCommand(watchlistListCmd)
	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistStatusCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)
}
