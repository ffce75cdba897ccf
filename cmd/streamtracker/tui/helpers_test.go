package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/streamtracker/streamtracker/internal/api/apitest"
	"github.com/streamtracker/streamtracker/internal/app"
	"github.com/streamtracker/streamtracker/internal/config"
	"github.com/streamtracker/streamtracker/internal/kv"
	"github.com/streamtracker/streamtracker/internal/kv/kvtest"
)

const (
	testEmail    = "viewer@example.com"
	testPassword = "password1"

	testWait = 2 * time.Second
	testTick = 10 * time.Millisecond
)

func newTestApp(t *testing.T, store kv.Store) (*app.App, *apitest.Server) {
	t.Helper()
	fake := apitest.New(t)
	fake.AddUser(testEmail, testPassword)
	cfg := config.Default()
	cfg.APIURL = fake.BaseURL()
	if store == nil {
		store = kvtest.NewMemory()
	}
	a := app.New(cfg, store, nil)
	t.Cleanup(func() { a.Close() })
	return a, fake
}

// signedIn returns an app with testEmail signed in, onboarded or not.
func signedIn(t *testing.T, store kv.Store, onboarded bool) (*app.App, *apitest.Server) {
	t.Helper()
	ctx := context.Background()
	a, fake := newTestApp(t, store)
	a.Restore(ctx)
	require.NoError(t, a.Login(ctx, testEmail, testPassword))
	if onboarded {
		require.NoError(t, a.Session.CompleteOnboarding(ctx))
	}
	return a, fake
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// run executes cmd and any batched children and returns their messages.
// Only pass commands that do not sleep; cursor blink commands do.
func run(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// find returns the first message of type T.
func find[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}
