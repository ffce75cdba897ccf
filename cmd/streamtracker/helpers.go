package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/app"
	"github.com/streamtracker/streamtracker/internal/session"
)

// isTerminal reports whether stdin is interactive. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(os.Stdin.Fd())
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openApp opens the client and restores the stored session.
func openApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.Open()
	if err != nil {
		return nil, err
	}
	a.Restore(contextOf(cmd))
	return a, nil
}

// signedIn is the pseudo-state accepted by withSession for commands that
// only need a token.
const signedIn session.State = -1

// withSession runs fn with an app whose session is in state want. A 401 from
// fn signs out before returning, so the next run starts signed out.
func withSession(cmd *cobra.Command, want session.State, fn func(ctx context.Context, a *app.App) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if want == signedIn {
		if got := a.Session.State(); got == session.StateUnauthenticated {
			return &app.StateError{Want: session.StateAuthenticated, Got: got}
		}
	} else if err := a.Require(want); err != nil {
		return err
	}
	ctx := contextOf(cmd)
	err = fn(ctx, a)
	if errors.Is(err, api.ErrSessionExpired) {
		if serr := a.Session.SignOut(ctx); serr != nil {
			a.Logger.Warn("clearing expired session failed", "err", serr)
		}
	}
	return err
}

// displayError returns the text printed for a failed command.
func displayError(err error) string {
	var state *app.StateError
	if errors.As(err, &state) {
		return state.Error()
	}
	if msg := app.ErrorMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// readLine reads one line from r without its line ending.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// printTable writes rows under header with columns padded to the widest
// cell. Widths are display cells, so wide runes line up.
func printTable(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	line := func(cells []string) {
		var b strings.Builder
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	line(header)
	for _, row := range rows {
		line(row)
	}
}
