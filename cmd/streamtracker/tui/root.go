// Package tui is the interactive terminal client. The root Model is the
// session gate: it mounts exactly one screen set (loading, auth, onboarding
// or main) chosen from the session state and remounts a fresh one whenever
// that choice changes.
//
// Session mutations never run inside Update. The controller notifies its
// observer synchronously, and the observer installed by main forwards to
// Program.Send, which would block the event loop.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/streamtracker/streamtracker/internal/app"
	"github.com/streamtracker/streamtracker/internal/navigator"
	"github.com/streamtracker/streamtracker/internal/session"
)

// Model is the top-level bubbletea model.
type Model struct {
	app *app.App

	// Session gate.
	snap   session.Snapshot
	screen navigator.ScreenSet

	// Screen sets. Only the one matching screen holds live state.
	auth       AuthModel
	onboarding OnboardingModel
	main       MainModel

	spinner spinner.Model

	width  int
	height int

	// Quitting is set when the user exits.
	Quitting bool
}

// NewModel returns a root model in the loading state.
func NewModel(a *app.App) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorMauve)
	return Model{
		app:     a,
		snap:    session.Snapshot{Loading: true},
		screen:  navigator.ScreenLoading,
		spinner: sp,
	}
}

// Screen returns the mounted screen set.
func (m Model) Screen() navigator.ScreenSet {
	return m.screen
}

// Init starts the spinner and restores the stored session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, restoreCmd(m.app))
}

func restoreCmd(a *app.App) tea.Cmd {
	return func() tea.Msg {
		return SessionChangedMsg{Snapshot: a.Restore(context.Background())}
	}
}

// Update routes messages to the mounted screen set.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.auth.SetSize(msg.Width, msg.Height)
		m.onboarding.SetSize(msg.Width, msg.Height)
		m.main.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}

	case SessionChangedMsg:
		return m.applySession(msg)

	case spinner.TickMsg:
		if m.screen == navigator.ScreenLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m.routeToScreen(msg)
}

// applySession records the new snapshot and remounts when the screen set
// changes. A remount discards the previous set's state, including any
// onboarding draft.
func (m Model) applySession(msg SessionChangedMsg) (tea.Model, tea.Cmd) {
	m.snap = msg.Snapshot
	next := navigator.Select(m.snap.State())

	var cmd tea.Cmd
	if next != m.screen {
		m.app.Logger.Debug("screen set changed", "from", m.screen.String(), "to", next.String())
		cmd = m.mount(next)
	}
	if msg.Notice != "" && m.screen == navigator.ScreenMain {
		m.main.status.Notify(msg.Notice)
	}
	return m, cmd
}

func (m *Model) mount(screen navigator.ScreenSet) tea.Cmd {
	m.screen = screen
	m.auth = AuthModel{}
	m.onboarding = OnboardingModel{}
	m.main = MainModel{}

	switch screen {
	case navigator.ScreenAuth:
		m.auth = NewAuthModel(m.app)
		m.auth.SetSize(m.width, m.height)
		return m.auth.Init()
	case navigator.ScreenOnboarding:
		m.onboarding = NewOnboardingModel(m.app, m.snap.UserEmail)
		m.onboarding.SetSize(m.width, m.height)
		return m.onboarding.Init()
	case navigator.ScreenMain:
		m.main = NewMainModel(m.app, m.snap.UserEmail)
		m.main.SetSize(m.width, m.height)
		return m.main.Init()
	}
	return m.spinner.Tick
}

// routeToScreen hands msg to the mounted screen set. Results addressed to a
// set that is no longer mounted are ignored by the one that is.
func (m Model) routeToScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case navigator.ScreenAuth:
		m.auth, cmd = m.auth.Update(msg)
	case navigator.ScreenOnboarding:
		m.onboarding, cmd = m.onboarding.Update(msg)
	case navigator.ScreenMain:
		m.main, cmd = m.main.Update(msg)
		if m.main.quitting {
			m.Quitting = true
		}
	}
	return m, cmd
}

// View renders the mounted screen set.
func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	switch m.screen {
	case navigator.ScreenAuth:
		return m.auth.View()
	case navigator.ScreenOnboarding:
		return m.onboarding.View()
	case navigator.ScreenMain:
		return m.main.View()
	}
	body := m.spinner.View() + " " + DimStyle.Render("Restoring your session…")
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

// Run starts the program and forwards session changes into it until it
// exits.
func Run(a *app.App) error {
	p := tea.NewProgram(NewModel(a), tea.WithAltScreen())
	a.Session.OnChange(func(s session.Snapshot) {
		p.Send(SessionChangedMsg{Snapshot: s})
	})
	defer a.Session.OnChange(nil)

	_, err := p.Run()
	return err
}
