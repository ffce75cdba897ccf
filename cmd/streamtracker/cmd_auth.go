package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/streamtracker/streamtracker/internal/app"
	"github.com/streamtracker/streamtracker/internal/session"
)

var (
	authEmail         string
	authPasswordStdin bool
	logoutYes         bool
)

// credentials fills in missing email and password, from stdin when
// --password-stdin is set and from a form otherwise.
func credentials(cmd *cobra.Command, confirm bool) (email, password, again string, err error) {
	email = authEmail
	if authPasswordStdin {
		if password, err = readLine(cmd.InOrStdin()); err != nil {
			return "", "", "", err
		}
		again = password
	}
	if email != "" && password != "" {
		return email, password, again, nil
	}
	if !isTerminal() {
		return "", "", "", errors.New("--email and --password-stdin are required when not attached to a terminal")
	}

	fields := []huh.Field{
		huh.NewInput().Title("Email").Placeholder("you@example.com").Value(&email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
	}
	if confirm {
		fields = append(fields, huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&again))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return "", "", "", err
	}
	return email, password, again, nil
}

func printSignedIn(cmd *cobra.Command, a *app.App) {
	out := cmd.OutOrStdout()
	snap := a.Session.Snapshot()
	fmt.Fprintf(out, "Signed in as %s.\n", snap.UserEmail)
	if snap.State() == session.StateOnboarding {
		fmt.Fprintln(out, "Run 'streamtracker onboard' to finish setting up your account.")
	}
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		email, password, _, err := credentials(cmd, false)
		if err != nil {
			return err
		}
		if err := a.Login(contextOf(cmd), email, password); err != nil {
			return err
		}
		printSignedIn(cmd, a)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		email, password, again, err := credentials(cmd, true)
		if err != nil {
			return err
		}
		if err := a.Register(contextOf(cmd), email, password, again); err != nil {
			return err
		}
		printSignedIn(cmd, a)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		email := a.Session.Snapshot().UserEmail
		if a.Session.State() == session.StateUnauthenticated {
			fmt.Fprintln(out, "Not signed in.")
			return nil
		}
		if !logoutYes && isTerminal() {
			ok := true
			err := huh.NewForm(huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Sign out of %s?", email)).
					Affirmative("Sign out").
					Negative("Cancel").
					Value(&ok),
			)).Run()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		if err := a.Session.SignOut(contextOf(cmd)); err != nil {
			return err
		}
		fmt.Fprintf(out, "Signed out of %s.\n", email)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account the server sees",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, signedIn, func(ctx context.Context, a *app.App) error {
			u, err := a.Client.Me(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d, member since %s)\n", u.Email, u.ID, humanize.Time(u.CreatedAt.Time))
			return nil
		})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Exchange the stored refresh token for a new session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Session.RefreshTokens(contextOf(cmd), a.Client); err != nil {
			if errors.Is(err, session.ErrNotSignedIn) {
				return &app.StateError{Want: session.StateAuthenticated, Got: session.StateUnauthenticated}
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session refreshed for %s.\n", a.Session.Snapshot().UserEmail)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
		c.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "Read the password from stdin")
	}
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Do not ask for confirmation")
}
