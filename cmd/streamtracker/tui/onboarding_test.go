package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamtracker/streamtracker/internal/kv/kvtest"
	"github.com/streamtracker/streamtracker/internal/onboarding"
	"github.com/streamtracker/streamtracker/internal/session"
)

func press(m OnboardingModel, keys ...tea.KeyMsg) OnboardingModel {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func TestOnboarding_ContinueNeedsSelection(t *testing.T) {
	a, _ := signedIn(t, nil, false)
	m := NewOnboardingModel(a, testEmail)

	m = press(m, keyType(tea.KeyEnter))
	assert.Equal(t, onboarding.StepPlatforms, m.Step())
	assert.Contains(t, m.err, "Select at least one platform")

	m = press(m, keyType(tea.KeySpace), keyType(tea.KeyEnter))
	assert.Equal(t, onboarding.StepCosts, m.Step())
	assert.Equal(t, "15.49", m.costInput.Value())
}

func TestOnboarding_RejectedToggleIsShown(t *testing.T) {
	a, _ := signedIn(t, nil, false)
	m := NewOnboardingModel(a, testEmail)
	m.visible = []onboarding.CatalogEntry{{Name: "Blockbuster"}}
	m.cursor = 0

	m = press(m, keyType(tea.KeySpace))
	assert.Contains(t, m.err, `unknown platform "Blockbuster"`)
	assert.Zero(t, m.wizard.SelectedCount())
}

func TestOnboarding_SkipGoesToCostsWithNothing(t *testing.T) {
	a, _ := signedIn(t, nil, false)
	m := NewOnboardingModel(a, testEmail)
	m = press(m, keyType(tea.KeySpace), keyRunes("s"))
	assert.Equal(t, onboarding.StepCosts, m.Step())
	assert.Empty(t, m.wizard.Platforms())
	assert.Contains(t, m.View(), "No platforms selected")
}

func TestOnboarding_FilterNarrowsCatalog(t *testing.T) {
	a, _ := signedIn(t, nil, false)
	m := NewOnboardingModel(a, testEmail)
	m = press(m, keyRunes("/"))
	require.True(t, m.filtering)

	// Letters go to the filter while it is focused, not to shortcuts.
	m = press(m, keyRunes("hulu"))
	require.NotEmpty(t, m.visible)
	assert.Equal(t, "Hulu", m.visible[0].Name)
	assert.Equal(t, onboarding.StepPlatforms, m.Step())

	m = press(m, keyType(tea.KeyEnter), keyType(tea.KeySpace))
	assert.False(t, m.filtering)
	assert.True(t, m.wizard.IsSelected("Hulu"))

	m = press(m, keyType(tea.KeyEsc))
	assert.Len(t, m.visible, len(onboarding.Catalog))
}

func TestOnboarding_CostEditsUpdateTotal(t *testing.T) {
	a, _ := signedIn(t, nil, false)
	m := NewOnboardingModel(a, testEmail)
	m = press(m, keyType(tea.KeySpace), keyType(tea.KeyDown), keyType(tea.KeySpace), keyType(tea.KeyEnter))
	require.Equal(t, onboarding.StepCosts, m.Step())
	assert.InDelta(t, 15.49+13.99, m.wizard.Total(), 0.001)

	for range len(m.costInput.Value()) {
		m = press(m, keyType(tea.KeyBackspace))
	}
	m = press(m, keyRunes("10"))
	assert.Equal(t, "10", m.wizard.CostText("Netflix"))
	assert.InDelta(t, 10+13.99, m.wizard.Total(), 0.001)

	m = press(m, keyType(tea.KeyDown))
	assert.Equal(t, "13.99", m.costInput.Value())

	// Going back keeps the selection and the edited text.
	m = press(m, keyType(tea.KeyEsc))
	assert.Equal(t, onboarding.StepPlatforms, m.Step())
	m = press(m, keyType(tea.KeyEnter))
	assert.Equal(t, "10", m.wizard.CostText("Netflix"))
}

func TestOnboarding_PreferencesKeys(t *testing.T) {
	a, _ := signedIn(t, nil, false)
	m := NewOnboardingModel(a, testEmail)
	m = press(m, keyRunes("s"), keyType(tea.KeyEnter))
	require.Equal(t, onboarding.StepPreferences, m.Step())

	m = press(m, keyType(tea.KeyRight))
	assert.Equal(t, onboarding.ContentMovies, m.wizard.ContentType())

	m = press(m, keyType(tea.KeyTab), keyType(tea.KeySpace), keyType(tea.KeyRight), keyType(tea.KeySpace))
	assert.Equal(t, []string{"Action", "Comedy"}, m.wizard.Preferences().Genres)

	m = press(m, keyType(tea.KeySpace))
	assert.Equal(t, []string{"Action"}, m.wizard.Preferences().Genres)

	m = press(m, keyType(tea.KeyEsc))
	assert.Equal(t, onboarding.StepCosts, m.Step())
}

func TestOnboarding_FinishCreatesPlatformsAndCompletes(t *testing.T) {
	store := kvtest.NewMemory()
	a, fake := signedIn(t, store, false)
	m := NewOnboardingModel(a, testEmail)
	m = press(m, keyType(tea.KeySpace), keyType(tea.KeyDown), keyType(tea.KeySpace),
		keyType(tea.KeyEnter), keyType(tea.KeyEnter))
	require.Equal(t, onboarding.StepPreferences, m.Step())

	m, cmd := m.Update(keyType(tea.KeyEnter))
	require.True(t, m.saving)
	assert.Contains(t, m.View(), "Setting up your account")

	changed := find[SessionChangedMsg](t, run(t, cmd))
	assert.Equal(t, session.StateAuthenticated, changed.Snapshot.State())
	assert.Equal(t, "Added 2 platforms. Welcome!", changed.Notice)
	assert.Len(t, fake.Platforms(testEmail), 2)
	assert.Equal(t, "true", store.Snapshot()[session.OnboardedKey(testEmail)])
}

func TestOnboarding_FailedCreatesAreReported(t *testing.T) {
	a, fake := signedIn(t, nil, false)
	fake.FailPlatformCreate("Disney+")
	m := NewOnboardingModel(a, testEmail)
	m = press(m, keyType(tea.KeySpace), keyType(tea.KeyDown), keyType(tea.KeySpace),
		keyType(tea.KeyEnter), keyType(tea.KeyEnter))
	_, cmd := m.Update(keyType(tea.KeyEnter))

	changed := find[SessionChangedMsg](t, run(t, cmd))
	assert.Equal(t, session.StateAuthenticated, changed.Snapshot.State())
	assert.Equal(t, "Added 1 platforms. Could not add Disney+.", changed.Notice)
}

func TestOnboarding_RetryAfterStorageFailureSkipsCreatedPlatforms(t *testing.T) {
	store := kvtest.NewFaulty(kvtest.NewMemory())
	a, fake := signedIn(t, store, false)
	m := NewOnboardingModel(a, testEmail)
	m = press(m, keyType(tea.KeySpace), keyType(tea.KeyEnter), keyType(tea.KeyEnter))

	store.FailSets(kvtest.ErrInjected)
	m, cmd := m.Update(keyType(tea.KeyEnter))
	failed := find[commitFailedMsg](t, run(t, cmd))
	m, _ = m.Update(failed)
	assert.False(t, m.saving)
	assert.Contains(t, m.err, "Could not save your session on this device.")
	assert.Equal(t, session.StateOnboarding, a.Session.State())
	require.Len(t, fake.Platforms(testEmail), 1)

	store.FailSets(nil)
	_, cmd = m.Update(keyType(tea.KeyEnter))
	changed := find[SessionChangedMsg](t, run(t, cmd))
	assert.Equal(t, session.StateAuthenticated, changed.Snapshot.State())
	assert.Len(t, fake.Platforms(testEmail), 1)
}
