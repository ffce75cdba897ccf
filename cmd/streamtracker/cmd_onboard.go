package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/streamtracker/streamtracker/internal/app"
	"github.com/streamtracker/streamtracker/internal/onboarding"
	"github.com/streamtracker/streamtracker/internal/session"
)

var (
	onboardPlatforms   []string
	onboardContentType string
	onboardGenres      []string
	onboardSkip        bool
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Pick your platforms, their costs and what you like to watch",
	Long: "onboard runs the first-run setup. Without flags on a terminal it asks interactively. " +
		"With flags, --platform takes NAME or NAME=COST and may be repeated.",
	Example: "  streamtracker onboard --platform Netflix=15.49 --platform Hulu --content-type shows --genre Drama",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, session.StateOnboarding, func(ctx context.Context, a *app.App) error {
			w := onboarding.NewWizard()
			flagged := onboardSkip || len(onboardPlatforms) > 0 || onboardContentType != "" || len(onboardGenres) > 0
			var err error
			if flagged || !isTerminal() {
				err = applyOnboardFlags(w)
			} else {
				err = runOnboardForms(w)
			}
			if err != nil {
				return err
			}

			email := a.Session.Snapshot().UserEmail
			res, err := a.Committer().Commit(ctx, email, w.Draft())
			if err != nil {
				return err
			}
			printOnboardResult(cmd, w.Draft(), res)
			return nil
		})
	},
}

// lookupPlatform finds a catalog entry by name, ignoring case.
func lookupPlatform(name string) (onboarding.CatalogEntry, bool) {
	for _, e := range onboarding.Catalog {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return onboarding.CatalogEntry{}, false
}

func lookupGenre(name string) (string, bool) {
	for _, g := range onboarding.Genres {
		if strings.EqualFold(g, name) {
			return g, true
		}
	}
	return "", false
}

// applyOnboardFlags drives the wizard from command-line flags.
func applyOnboardFlags(w *onboarding.Wizard) error {
	costs := make(map[string]string)
	if !onboardSkip {
		for _, entry := range onboardPlatforms {
			name, cost, hasCost := strings.Cut(entry, "=")
			e, ok := lookupPlatform(strings.TrimSpace(name))
			if !ok {
				return fmt.Errorf("unknown platform %q", name)
			}
			if !w.IsSelected(e.Name) {
				if err := w.Toggle(e.Name); err != nil {
					return err
				}
			}
			if hasCost {
				if _, err := parseCost(cost); err != nil {
					return fmt.Errorf("%s: %w", e.Name, err)
				}
				costs[e.Name] = cost
			}
		}
	}

	var err error
	if w.CanContinue() {
		err = w.Continue()
	} else {
		err = w.Skip()
	}
	if err != nil {
		return err
	}
	for name, text := range costs {
		if err := w.SetCostText(name, text); err != nil {
			return err
		}
	}
	if err := w.ContinueCosts(); err != nil {
		return err
	}

	if onboardContentType != "" {
		if err := w.SetContentType(onboarding.ContentType(strings.ToLower(onboardContentType))); err != nil {
			return err
		}
	}
	for _, name := range onboardGenres {
		g, ok := lookupGenre(name)
		if !ok {
			return fmt.Errorf("unknown genre %q", name)
		}
		if !w.HasGenre(g) {
			if err := w.ToggleGenre(g); err != nil {
				return err
			}
		}
	}
	return nil
}

// runOnboardForms asks the three steps with huh forms.
func runOnboardForms(w *onboarding.Wizard) error {
	var picked []string
	options := make([]huh.Option[string], 0, len(onboarding.Catalog))
	for _, e := range onboarding.Catalog {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s/mo)", e.Name, money(e.SuggestedPrice)), e.Name))
	}
	err := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Which services do you pay for?").
			Description("Space to toggle, / to filter, Enter to continue. Select none to skip.").
			Options(options...).
			Filterable(true).
			Value(&picked),
	)).Run()
	if err != nil {
		return err
	}
	for _, name := range picked {
		if err := w.Toggle(name); err != nil {
			return err
		}
	}
	if w.CanContinue() {
		err = w.Continue()
	} else {
		err = w.Skip()
	}
	if err != nil {
		return err
	}

	if platforms := w.Platforms(); len(platforms) > 0 {
		texts := make([]string, len(platforms))
		fields := make([]huh.Field, len(platforms))
		for i, p := range platforms {
			texts[i] = w.CostText(p.Name)
			fields[i] = huh.NewInput().Title(p.Name + " monthly cost").Prompt("$ ").Value(&texts[i])
		}
		if err := huh.NewForm(huh.NewGroup(fields...).Title("What do you pay each month?")).Run(); err != nil {
			return err
		}
		for i, p := range platforms {
			if err := w.SetCostText(p.Name, texts[i]); err != nil {
				return err
			}
		}
	}
	if err := w.ContinueCosts(); err != nil {
		return err
	}

	contentType := w.ContentType()
	var genres []string
	typeOptions := make([]huh.Option[onboarding.ContentType], 0, len(onboarding.ContentTypes))
	for _, c := range onboarding.ContentTypes {
		typeOptions = append(typeOptions, huh.NewOption(c.Label(), c))
	}
	err = huh.NewForm(huh.NewGroup(
		huh.NewSelect[onboarding.ContentType]().
			Title("I watch").
			Options(typeOptions...).
			Value(&contentType),
		huh.NewMultiSelect[string]().
			Title("Genres").
			Options(huh.NewOptions(onboarding.Genres...)...).
			Value(&genres),
	)).Run()
	if err != nil {
		return err
	}
	if err := w.SetContentType(contentType); err != nil {
		return err
	}
	for _, g := range genres {
		if err := w.ToggleGenre(g); err != nil {
			return err
		}
	}
	return nil
}

func printOnboardResult(cmd *cobra.Command, d onboarding.Draft, res onboarding.Result) {
	out := cmd.OutOrStdout()
	if len(res.Created) > 0 {
		var total float64
		for _, name := range res.Created {
			total += d.Costs[name]
		}
		fmt.Fprintf(out, "Added %d platforms (%s/mo).\n", len(res.Created), money(total))
	}
	if len(res.Failed) > 0 {
		fmt.Fprintf(out, "Could not add: %s. Add them later with 'streamtracker platforms add'.\n", strings.Join(res.Failed, ", "))
	}
	if res.PreferencesErr != nil {
		fmt.Fprintln(out, "Your preferences could not be saved on this device.")
	}
	fmt.Fprintln(out, "You're all set. Run 'streamtracker' to open the app.")
}

var preferencesCmd = &cobra.Command{
	Use:   "preferences",
	Short: "Show the content preferences saved during onboarding",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, signedIn, func(ctx context.Context, a *app.App) error {
			out := cmd.OutOrStdout()
			prefs, ok, err := onboarding.LoadPreferences(ctx, a.Store, a.Session.Snapshot().UserEmail)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "No preferences saved.")
				return nil
			}
			fmt.Fprintf(out, "Content: %s\n", prefs.ContentType.Label())
			genres := "none"
			if len(prefs.Genres) > 0 {
				genres = strings.Join(prefs.Genres, ", ")
			}
			fmt.Fprintf(out, "Genres:  %s\n", genres)
			return nil
		})
	},
}

func init() {
	onboardCmd.Flags().StringArrayVarP(&onboardPlatforms, "platform", "p", nil, "Platform to add, as NAME or NAME=COST (repeatable)")
	onboardCmd.Flags().StringVar(&onboardContentType, "content-type", "", "both, movies or shows")
	onboardCmd.Flags().StringArrayVarP(&onboardGenres, "genre", "g", nil, "Genre you like (repeatable)")
	onboardCmd.Flags().BoolVar(&onboardSkip, "skip", false, "Skip adding platforms")
}
