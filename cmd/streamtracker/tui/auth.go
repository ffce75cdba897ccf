package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/streamtracker/streamtracker/internal/app"
)

// authMode selects the form shown on the auth screen set.
type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// Field indexes into AuthModel.inputs.
const (
	fieldEmail = iota
	fieldPassword
	fieldConfirm
)

// AuthModel is the login and registration screen set.
type AuthModel struct {
	app *app.App

	mode   authMode
	inputs []textinput.Model
	focus  int

	busy    bool
	err     string
	spinner spinner.Model

	width  int
	height int
}

// NewAuthModel returns the login form with the email field focused.
func NewAuthModel(a *app.App) AuthModel {
	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 32
		ti.Prompt = "  "
		inputs[i] = ti
	}
	inputs[fieldEmail].Placeholder = "you@example.com"
	inputs[fieldPassword].Placeholder = "password"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'
	inputs[fieldConfirm].Placeholder = "confirm password"
	inputs[fieldConfirm].EchoMode = textinput.EchoPassword
	inputs[fieldConfirm].EchoCharacter = '•'
	inputs[fieldEmail].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorMauve)

	return AuthModel{app: a, inputs: inputs, spinner: sp}
}

// SetSize records the terminal size.
func (m *AuthModel) SetSize(w, h int) {
	m.width, m.height = w, h
}

// Init starts the cursor blink.
func (m AuthModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AuthModel) fieldCount() int {
	if m.mode == modeRegister {
		return 3
	}
	return 2
}

// Update handles form input and submission results.
func (m AuthModel) Update(msg tea.Msg) (AuthModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authFailedMsg:
		m.busy = false
		m.err = app.ErrorMessage(msg.err)
		m.inputs[fieldPassword].SetValue("")
		m.inputs[fieldConfirm].SetValue("")
		cmd := m.setFocus(fieldPassword)
		return m, cmd

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			cmd := m.setFocus((m.focus + 1) % m.fieldCount())
			return m, cmd
		case "shift+tab", "up":
			cmd := m.setFocus((m.focus - 1 + m.fieldCount()) % m.fieldCount())
			return m, cmd
		case "ctrl+r":
			return m.switchMode(), nil
		case "esc":
			if m.mode == modeRegister {
				return m.switchMode(), nil
			}
			return m, nil
		case "enter":
			if m.focus < m.fieldCount()-1 {
				cmd := m.setFocus(m.focus + 1)
				return m, cmd
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *AuthModel) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// switchMode toggles between login and registration, keeping the email.
func (m AuthModel) switchMode() AuthModel {
	if m.mode == modeLogin {
		m.mode = modeRegister
	} else {
		m.mode = modeLogin
	}
	m.err = ""
	m.inputs[fieldPassword].SetValue("")
	m.inputs[fieldConfirm].SetValue("")
	m.setFocus(fieldEmail)
	return m
}

// submit validates locally, then runs the network exchange off the event
// loop. Success is reported by the session change it causes.
func (m AuthModel) submit() (AuthModel, tea.Cmd) {
	email := m.inputs[fieldEmail].Value()
	password := m.inputs[fieldPassword].Value()
	confirm := m.inputs[fieldConfirm].Value()

	var err error
	if m.mode == modeRegister {
		err = app.ValidateRegister(email, password, confirm)
	} else {
		err = app.ValidateLogin(email, password)
	}
	if err != nil {
		m.err = app.ErrorMessage(err)
		return m, nil
	}

	m.err = ""
	m.busy = true
	a, mode := m.app, m.mode
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		var err error
		if mode == modeRegister {
			err = a.Register(ctx, email, password, confirm)
		} else {
			err = a.Login(ctx, email, password)
		}
		if err != nil {
			return authFailedMsg{err: err}
		}
		return SessionChangedMsg{Snapshot: a.Session.Snapshot()}
	})
}

// View renders the form card centered on screen.
func (m AuthModel) View() string {
	var b strings.Builder

	title, switchHint := "Sign in", "ctrl+r: create an account"
	labels := []string{"Email", "Password"}
	if m.mode == modeRegister {
		title, switchHint = "Create account", "ctrl+r / esc: back to sign in"
		labels = append(labels, "Confirm password")
	}

	b.WriteString(TitleStyle.Render("StreamTracker"))
	b.WriteString("\n")
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n\n")
	for i, label := range labels {
		style := DimStyle
		if i == m.focus {
			style = CursorStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case m.busy:
		msg := "Signing in…"
		if m.mode == modeRegister {
			msg = "Creating your account…"
		}
		b.WriteString(m.spinner.View() + " " + DimStyle.Render(msg))
	case m.err != "":
		b.WriteString(ErrorStyle.Render(m.err))
	default:
		b.WriteString(DimStyle.Render("enter: submit · tab: next field"))
	}
	b.WriteString("\n")
	b.WriteString(DimStyle.Render(switchHint))

	card := CardStyle.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
