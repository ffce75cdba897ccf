package onboarding_test

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/api/apitest"
	"github.com/streamtracker/streamtracker/internal/kv/kvtest"
	"github.com/streamtracker/streamtracker/internal/onboarding"
	"github.com/streamtracker/streamtracker/internal/session"
	"github.com/streamtracker/streamtracker/internal/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	assert.Len(t, onboarding.Catalog, 15)
	assert.Len(t, onboarding.Genres, 15)

	e, ok := onboarding.Lookup("Netflix")
	require.True(t, ok)
	assert.Equal(t, 15.49, e.SuggestedPrice)
	assert.Equal(t, "#E50914", e.Color)

	_, ok = onboarding.Lookup("Betamax+")
	assert.False(t, ok)

	assert.Equal(t, "Movies & Shows", onboarding.ContentBoth.Label())
}

func TestFilter(t *testing.T) {
	assert.Len(t, onboarding.Filter(""), 15)

	got := onboarding.Filter("disney")
	require.NotEmpty(t, got)
	assert.Equal(t, "Disney+", got[0].Name)

	assert.Empty(t, onboarding.Filter("zzzz"))
}

func TestWizardStepOne(t *testing.T) {
	w := onboarding.NewWizard()
	assert.Equal(t, onboarding.StepPlatforms, w.Step())
	assert.False(t, w.CanContinue())
	assert.ErrorIs(t, w.Continue(), onboarding.ErrNothingSelected)

	require.NoError(t, w.Toggle("Hulu"))
	require.NoError(t, w.Toggle("Netflix"))
	assert.True(t, w.CanContinue())
	assert.Equal(t, 2, w.SelectedCount())

	require.NoError(t, w.Toggle("Hulu"))
	assert.False(t, w.IsSelected("Hulu"))
	assert.Error(t, w.Toggle("Betamax+"))

	require.NoError(t, w.Continue())
	assert.Equal(t, onboarding.StepCosts, w.Step())
	assert.Equal(t, []string{"Netflix"}, names(w.Platforms()))
	assert.Equal(t, "15.49", w.CostText("Netflix"))
}

func TestWizardSkip(t *testing.T) {
	w := onboarding.NewWizard()
	require.NoError(t, w.Toggle("Max"))
	require.NoError(t, w.Skip())
	assert.Equal(t, onboarding.StepCosts, w.Step())
	assert.Empty(t, w.Platforms())
	assert.Zero(t, w.Total())

	require.NoError(t, w.ContinueCosts())
	assert.Empty(t, w.Draft().Platforms)
}

func TestWizardCosts(t *testing.T) {
	w := onboarding.NewWizard()
	require.NoError(t, w.Toggle("Netflix"))
	require.NoError(t, w.Toggle("Peacock"))
	require.NoError(t, w.Continue())
	assert.InDelta(t, 21.48, w.Total(), 0.001)

	require.NoError(t, w.SetCostText("Netflix", "12."))
	assert.Equal(t, "12.", w.CostText("Netflix"))
	assert.Equal(t, 12.0, w.Cost("Netflix"))

	require.NoError(t, w.SetCostText("Peacock", "abc"))
	assert.Zero(t, w.Cost("Peacock"))
	assert.InDelta(t, 12.0, w.Total(), 0.001)

	assert.Error(t, w.SetCostText("Hulu", "1"))
	assert.ErrorIs(t, w.Toggle("Hulu"), onboarding.ErrWrongStep)
}

func TestWizardBackReseeds(t *testing.T) {
	w := onboarding.NewWizard()
	require.NoError(t, w.Toggle("Netflix"))
	require.NoError(t, w.Toggle("Max"))
	require.NoError(t, w.Continue())
	require.NoError(t, w.SetCostText("Netflix", "9.99"))

	require.NoError(t, w.Back())
	assert.Equal(t, onboarding.StepPlatforms, w.Step())
	assert.True(t, w.IsSelected("Netflix"))

	require.NoError(t, w.Toggle("Max"))
	require.NoError(t, w.Toggle("Hulu"))
	require.NoError(t, w.Continue())

	assert.Equal(t, []string{"Netflix", "Hulu"}, names(w.Platforms()))
	assert.Equal(t, "9.99", w.CostText("Netflix"))
	assert.Equal(t, "17.99", w.CostText("Hulu"))
	assert.Empty(t, w.CostText("Max"))
}

func TestWizardPreferences(t *testing.T) {
	w := onboarding.NewWizard()
	require.NoError(t, w.Skip())
	assert.ErrorIs(t, w.SetContentType(onboarding.ContentMovies), onboarding.ErrWrongStep)
	require.NoError(t, w.ContinueCosts())

	assert.Equal(t, onboarding.ContentBoth, w.ContentType())
	require.NoError(t, w.SetContentType(onboarding.ContentShows))
	assert.Error(t, w.SetContentType("podcasts"))

	require.NoError(t, w.ToggleGenre("Sci-Fi"))
	require.NoError(t, w.ToggleGenre("Action"))
	require.NoError(t, w.ToggleGenre("Drama"))
	require.NoError(t, w.ToggleGenre("Drama"))
	assert.Error(t, w.ToggleGenre("Polka"))

	prefs := w.Preferences()
	assert.Equal(t, onboarding.ContentShows, prefs.ContentType)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, prefs.Genres)

	require.NoError(t, w.Back())
	assert.Equal(t, onboarding.StepCosts, w.Step())
	require.NoError(t, w.ContinueCosts())
	assert.True(t, w.HasGenre("Action"))
}

func TestParseCost(t *testing.T) {
	tests := map[string]float64{
		"":       0,
		"abc":    0,
		"12.50":  12.5,
		" 7 ":    7,
		"$4.99":  4.99,
		"-3":     0,
		"NaN":    0,
		"1e400":  0,
		"12.":    12,
		".5":     0.5,
	}
	for in, want := range tests {
		assert.Equal(t, want, onboarding.ParseCost(in), in)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvtest.NewMemory()

	_, ok, err := onboarding.LoadPreferences(ctx, store, "u@x.io")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, onboarding.SavePreferences(ctx, store, "u@x.io", onboarding.Preferences{ContentType: onboarding.ContentBoth}))
	assert.JSONEq(t, `{"genres":[],"contentType":"both"}`, store.Snapshot()[session.PreferencesKey("u@x.io")])

	prefs, ok, err := onboarding.LoadPreferences(ctx, store, "u@x.io")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, onboarding.ContentBoth, prefs.ContentType)
}

type commitFixture struct {
	fake  *apitest.Server
	store *kvtest.Memory
	ctrl  *session.Controller
	com   *onboarding.Committer
}

func newCommitFixture(t *testing.T) commitFixture {
	t.Helper()
	ctx := context.Background()
	fake := apitest.New(t)
	fake.AddUser("u@x.io", "password1")

	store := kvtest.NewMemory()
	tokens := tokenstore.New()
	ctrl := session.New(store, tokens)
	t.Cleanup(ctrl.Close)
	ctrl.Restore(ctx)
	require.NoError(t, ctrl.SignIn(ctx, fake.IssueToken("u@x.io"), "r", "u@x.io"))

	client := api.New(fake.BaseURL(), tokens)
	return commitFixture{
		fake:  fake,
		store: store,
		ctrl:  ctrl,
		com:   &onboarding.Committer{Store: store, Platforms: client, Session: ctrl},
	}
}

func TestCommitPartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newCommitFixture(t)
	f.fake.FailPlatformCreate("Netflix")

	w := onboarding.NewWizard()
	for _, name := range []string{"Netflix", "Hulu", "Max"} {
		require.NoError(t, w.Toggle(name))
	}
	require.NoError(t, w.Continue())
	require.NoError(t, w.SetCostText("Hulu", "10"))
	require.NoError(t, w.ContinueCosts())
	require.NoError(t, w.ToggleGenre("Drama"))

	res, err := f.com.Commit(ctx, "u@x.io", w.Draft())
	require.NoError(t, err)
	sort.Strings(res.Created)
	assert.Equal(t, []string{"Hulu", "Max"}, res.Created)
	assert.Equal(t, []string{"Netflix"}, res.Failed)
	assert.NoError(t, res.PreferencesErr)

	assert.Equal(t, 3, f.fake.CountRequests(http.MethodPost, "/platforms/"))
	created := f.fake.Platforms("u@x.io")
	require.Len(t, created, 2)
	for _, p := range created {
		assert.True(t, p.IsSubscribed)
		if p.Name == "Hulu" {
			assert.Equal(t, 10.0, p.MonthlyCost)
		}
	}

	assert.Equal(t, session.StateAuthenticated, f.ctrl.State())
	data := f.store.Snapshot()
	assert.Equal(t, "true", data[session.OnboardedKey("u@x.io")])
	assert.JSONEq(t, `{"genres":["Drama"],"contentType":"both"}`, data[session.PreferencesKey("u@x.io")])
}

func TestCommitSkip(t *testing.T) {
	ctx := context.Background()
	f := newCommitFixture(t)

	w := onboarding.NewWizard()
	require.NoError(t, w.Skip())
	require.NoError(t, w.ContinueCosts())

	res, err := f.com.Commit(ctx, "u@x.io", w.Draft())
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Zero(t, f.fake.CountRequests(http.MethodPost, "/platforms/"))
	assert.Equal(t, session.StateAuthenticated, f.ctrl.State())
	assert.JSONEq(t, `{"genres":[],"contentType":"both"}`, f.store.Snapshot()[session.PreferencesKey("u@x.io")])
}

func TestCommitWaitsForCreates(t *testing.T) {
	ctx := context.Background()
	f := newCommitFixture(t)
	release := f.fake.HoldPlatformCreates()

	w := onboarding.NewWizard()
	require.NoError(t, w.Toggle("Netflix"))
	require.NoError(t, w.Toggle("Max"))
	require.NoError(t, w.Continue())

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.com.Commit(ctx, "u@x.io", w.Draft())
	}()

	// Both creates are in flight together before any completes.
	assert.Eventually(t, func() bool {
		return f.fake.CountRequests(http.MethodPost, "/platforms/") == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, session.StateOnboarding, f.ctrl.State())

	release()
	<-done
	assert.Equal(t, session.StateAuthenticated, f.ctrl.State())
}

func TestCommitCompletionFailure(t *testing.T) {
	ctx := context.Background()
	fake := apitest.New(t)
	fake.AddUser("u@x.io", "password1")

	store := kvtest.NewFaulty(kvtest.NewMemory())
	tokens := tokenstore.New()
	ctrl := session.New(store, tokens)
	t.Cleanup(ctrl.Close)
	ctrl.Restore(ctx)
	require.NoError(t, ctrl.SignIn(ctx, fake.IssueToken("u@x.io"), "r", "u@x.io"))
	store.FailSets(kvtest.ErrInjected)

	com := &onboarding.Committer{Store: store, Platforms: api.New(fake.BaseURL(), tokens), Session: ctrl}
	w := onboarding.NewWizard()
	require.NoError(t, w.Skip())

	res, err := com.Commit(ctx, "u@x.io", w.Draft())
	assert.ErrorIs(t, err, session.ErrStorageUnavailable)
	assert.ErrorIs(t, res.PreferencesErr, session.ErrStorageUnavailable)
	assert.Equal(t, session.StateOnboarding, ctrl.State())
}

func names(entries []onboarding.CatalogEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}
