package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/streamtracker/streamtracker/internal/app"
	"github.com/streamtracker/streamtracker/internal/onboarding"
)

// genreColumns is the width of the genre grid in step 3.
const genreColumns = 5

// prefZone is the focused row group of step 3.
type prefZone int

const (
	zoneContentType prefZone = iota
	zoneGenres
)

// OnboardingModel drives the three-step wizard. Its draft lives only as long
// as the model; leaving the onboarding screen set discards it.
type OnboardingModel struct {
	app    *app.App
	email  string
	wizard *onboarding.Wizard

	// Step 1.
	cursor    int
	filter    textinput.Model
	filtering bool
	visible   []onboarding.CatalogEntry

	// Step 2.
	costCursor int
	costInput  textinput.Model

	// Step 3.
	zone        prefZone
	genreCursor int

	// created holds platforms made by an earlier commit attempt so a retry
	// does not create them twice.
	created map[string]bool

	saving  bool
	err     string
	spinner spinner.Model

	width  int
	height int
}

// NewOnboardingModel starts the wizard for email at step 1.
func NewOnboardingModel(a *app.App, email string) OnboardingModel {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter platforms"
	filter.CharLimit = 32

	cost := textinput.New()
	cost.Prompt = "$ "
	cost.CharLimit = 8
	cost.Width = 10

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorMauve)

	return OnboardingModel{
		app:       a,
		email:     email,
		wizard:    onboarding.NewWizard(),
		filter:    filter,
		visible:   onboarding.Filter(""),
		costInput: cost,
		created:   make(map[string]bool),
		spinner:   sp,
	}
}

// SetSize records the terminal size.
func (m *OnboardingModel) SetSize(w, h int) {
	m.width, m.height = w, h
}

// Init has nothing to load.
func (m OnboardingModel) Init() tea.Cmd {
	return nil
}

// Step returns the wizard's current step.
func (m OnboardingModel) Step() onboarding.Step {
	return m.wizard.Step()
}

// Update dispatches to the current step.
func (m OnboardingModel) Update(msg tea.Msg) (OnboardingModel, tea.Cmd) {
	if m.wizard == nil {
		return m, nil
	}
	switch msg := msg.(type) {
	case commitFailedMsg:
		m.saving = false
		for _, name := range msg.result.Created {
			m.created[name] = true
		}
		m.err = app.ErrorMessage(msg.err) + " Press enter to try again."
		return m, nil

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		switch m.wizard.Step() {
		case onboarding.StepPlatforms:
			return m.updatePlatforms(msg)
		case onboarding.StepCosts:
			return m.updateCosts(msg)
		case onboarding.StepPreferences:
			return m.updatePreferences(msg)
		}
	}
	return m, nil
}

// --- Step 1: platforms ---

func (m OnboardingModel) updatePlatforms(msg tea.KeyMsg) (OnboardingModel, tea.Cmd) {
	key := msg.String()
	switch key {
	case "up":
		m.moveCursor(-1)
		return m, nil
	case "down":
		m.moveCursor(1)
		return m, nil
	}

	if m.filtering {
		switch key {
		case "esc":
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		case "enter":
			m.filtering = false
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch key {
	case "k":
		m.moveCursor(-1)
	case "j":
		m.moveCursor(1)
	case " ", "x":
		if m.cursor < len(m.visible) {
			if m.wizardErr(m.wizard.Toggle(m.visible[m.cursor].Name)) {
				return m, nil
			}
			m.err = ""
		}
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
	case "s":
		if m.wizardErr(m.wizard.Skip()) {
			return m, nil
		}
		return m.enterCosts()
	case "enter":
		if !m.wizard.CanContinue() {
			m.err = "Select at least one platform, or press s to skip."
			return m, nil
		}
		if m.wizardErr(m.wizard.Continue()) {
			return m, nil
		}
		return m.enterCosts()
	}
	return m, nil
}

// wizardErr shows and logs a rejected wizard transition. It reports whether
// err was non-nil.
func (m *OnboardingModel) wizardErr(err error) bool {
	if err == nil {
		return false
	}
	m.app.Logger.Warn("onboarding step rejected", "step", m.wizard.Step(), "err", err)
	m.err = err.Error()
	return true
}

func (m *OnboardingModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, len(m.visible)-1)
}

func (m *OnboardingModel) applyFilter() {
	m.visible = onboarding.Filter(m.filter.Value())
	m.cursor = clamp(m.cursor, 0, len(m.visible)-1)
}

func (m OnboardingModel) viewPlatforms() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Which services do you pay for?"))
	b.WriteString("\n")
	b.WriteString(DimStyle.Render(fmt.Sprintf("%d selected", m.wizard.SelectedCount())))
	b.WriteString("\n\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(DimStyle.Render("  No platforms match."))
		b.WriteString("\n")
	}
	for i, e := range m.visible {
		prefix := "  "
		if i == m.cursor {
			prefix = CursorStyle.Render("> ")
		}
		check, style := "[ ]", UnselectedStyle
		if m.wizard.IsSelected(e.Name) {
			check, style = "[x]", SelectedStyle
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s  %s\n",
			prefix, style.Render(check), swatch(e.Color), style.Render(e.Name),
			DimStyle.Render(formatMoney(e.SuggestedPrice)+"/mo")))
	}
	return b.String()
}

// --- Step 2: costs ---

func (m OnboardingModel) enterCosts() (OnboardingModel, tea.Cmd) {
	m.err = ""
	m.filtering = false
	m.filter.Blur()
	m.costCursor = 0
	cmd := m.loadCostInput()
	return m, cmd
}

// loadCostInput points the cost input at the focused platform.
func (m *OnboardingModel) loadCostInput() tea.Cmd {
	platforms := m.wizard.Platforms()
	if len(platforms) == 0 {
		m.costInput.Blur()
		return nil
	}
	m.costCursor = clamp(m.costCursor, 0, len(platforms)-1)
	m.costInput.SetValue(m.wizard.CostText(platforms[m.costCursor].Name))
	m.costInput.CursorEnd()
	return m.costInput.Focus()
}

func (m OnboardingModel) updateCosts(msg tea.KeyMsg) (OnboardingModel, tea.Cmd) {
	platforms := m.wizard.Platforms()
	switch msg.String() {
	case "up", "shift+tab":
		m.costCursor--
		cmd := m.loadCostInput()
		return m, cmd
	case "down", "tab":
		m.costCursor++
		cmd := m.loadCostInput()
		return m, cmd
	case "esc":
		if m.wizardErr(m.wizard.Back()) {
			return m, nil
		}
		m.costInput.Blur()
		return m, nil
	case "enter":
		if m.wizardErr(m.wizard.ContinueCosts()) {
			return m, nil
		}
		m.costInput.Blur()
		m.zone = zoneContentType
		return m, nil
	}

	if len(platforms) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.costInput, cmd = m.costInput.Update(msg)
	m.wizardErr(m.wizard.SetCostText(platforms[m.costCursor].Name, m.costInput.Value()))
	return m, cmd
}

func (m OnboardingModel) viewCosts() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("What do you pay each month?"))
	b.WriteString("\n\n")

	platforms := m.wizard.Platforms()
	if len(platforms) == 0 {
		b.WriteString(DimStyle.Render("No platforms selected. You can add them later."))
		b.WriteString("\n\n")
	}
	for i, p := range platforms {
		name := fmt.Sprintf("%s %-16s", swatch(p.Color), p.Name)
		if i == m.costCursor {
			b.WriteString(CursorStyle.Render("> ") + name + m.costInput.View())
		} else {
			b.WriteString("  " + name + DimStyle.Render("$ "+m.wizard.CostText(p.Name)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString("Monthly total: ")
	b.WriteString(MoneyStyle.Render(formatMoney(m.wizard.Total())))
	b.WriteString("\n")
	return b.String()
}

// --- Step 3: preferences ---

func (m OnboardingModel) updatePreferences(msg tea.KeyMsg) (OnboardingModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		if m.zone == zoneContentType {
			m.zone = zoneGenres
		} else {
			m.zone = zoneContentType
		}
		return m, nil
	case "esc":
		m.err = ""
		if m.wizardErr(m.wizard.Back()) {
			return m, nil
		}
		cmd := m.loadCostInput()
		return m, cmd
	case "enter":
		return m.finish()
	}

	if m.zone == zoneContentType {
		idx := contentTypeIndex(m.wizard.ContentType())
		switch msg.String() {
		case "left", "h":
			idx = (idx - 1 + len(onboarding.ContentTypes)) % len(onboarding.ContentTypes)
		case "right", "l":
			idx = (idx + 1) % len(onboarding.ContentTypes)
		case "down", "j":
			m.zone = zoneGenres
			return m, nil
		default:
			return m, nil
		}
		m.wizardErr(m.wizard.SetContentType(onboarding.ContentTypes[idx]))
		return m, nil
	}

	n := len(onboarding.Genres)
	switch msg.String() {
	case "left", "h":
		m.genreCursor = clamp(m.genreCursor-1, 0, n-1)
	case "right", "l":
		m.genreCursor = clamp(m.genreCursor+1, 0, n-1)
	case "up", "k":
		if m.genreCursor < genreColumns {
			m.zone = zoneContentType
		} else {
			m.genreCursor -= genreColumns
		}
	case "down", "j":
		m.genreCursor = clamp(m.genreCursor+genreColumns, 0, n-1)
	case " ", "x":
		m.wizardErr(m.wizard.ToggleGenre(onboarding.Genres[m.genreCursor]))
	}
	return m, nil
}

func contentTypeIndex(c onboarding.ContentType) int {
	for i, x := range onboarding.ContentTypes {
		if x == c {
			return i
		}
	}
	return 0
}

// finish runs the commit off the event loop. On success the session moves to
// authenticated and the root remounts; the notice rides along.
func (m OnboardingModel) finish() (OnboardingModel, tea.Cmd) {
	m.saving = true
	m.err = ""

	draft := m.wizard.Draft()
	pending := draft.Platforms[:0:0]
	for _, p := range draft.Platforms {
		if !m.created[p.Name] {
			pending = append(pending, p)
		}
	}
	draft.Platforms = pending

	a, email := m.app, m.email
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := a.Committer().Commit(context.Background(), email, draft)
		if err != nil {
			return commitFailedMsg{result: res, err: err}
		}
		return SessionChangedMsg{Snapshot: a.Session.Snapshot(), Notice: commitNotice(res)}
	})
}

// commitNotice summarizes a finished commit for the status bar.
func commitNotice(res onboarding.Result) string {
	switch {
	case len(res.Failed) > 0:
		return fmt.Sprintf("Added %d platforms. Could not add %s.", len(res.Created), strings.Join(res.Failed, ", "))
	case len(res.Created) > 0:
		return fmt.Sprintf("Added %d platforms. Welcome!", len(res.Created))
	default:
		return "Welcome to StreamTracker!"
	}
}

func (m OnboardingModel) viewPreferences() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("What do you like to watch?"))
	b.WriteString("\n\n")

	label := DimStyle
	if m.zone == zoneContentType {
		label = CursorStyle
	}
	b.WriteString(label.Render("I watch"))
	b.WriteString("\n")
	chips := make([]string, 0, len(onboarding.ContentTypes))
	for _, c := range onboarding.ContentTypes {
		style := ChipStyle
		if c == m.wizard.ContentType() {
			style = ActiveChipStyle
		}
		chips = append(chips, style.Render(c.Label()))
	}
	b.WriteString(strings.Join(chips, " "))
	b.WriteString("\n\n")

	label = DimStyle
	if m.zone == zoneGenres {
		label = CursorStyle
	}
	b.WriteString(label.Render("Genres"))
	b.WriteString("\n")
	for i, g := range onboarding.Genres {
		style := ChipStyle
		if m.wizard.HasGenre(g) {
			style = ActiveChipStyle
		}
		cell := style.Render(g)
		if m.zone == zoneGenres && i == m.genreCursor {
			cell = CursorStyle.Render(">") + cell
		} else {
			cell = " " + cell
		}
		b.WriteString(cell)
		if (i+1)%genreColumns == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

// View renders the step header, the step body and the key hints.
func (m OnboardingModel) View() string {
	if m.wizard == nil {
		return ""
	}
	var b strings.Builder
	step := m.wizard.Step()
	b.WriteString(TitleStyle.Render("Welcome to StreamTracker"))
	b.WriteString("  ")
	b.WriteString(DimStyle.Render(fmt.Sprintf("Step %d of 3 · %s", int(step), step)))
	b.WriteString("\n\n")

	var hints string
	switch step {
	case onboarding.StepPlatforms:
		b.WriteString(m.viewPlatforms())
		hints = "space: toggle · /: filter · enter: continue · s: skip"
	case onboarding.StepCosts:
		b.WriteString(m.viewCosts())
		hints = "↑/↓: move · enter: continue · esc: back"
	case onboarding.StepPreferences:
		b.WriteString(m.viewPreferences())
		hints = "tab: switch row · space: toggle genre · enter: finish · esc: back"
	}
	b.WriteString("\n")

	switch {
	case m.saving:
		b.WriteString(m.spinner.View() + " " + DimStyle.Render("Setting up your account…"))
	case m.err != "":
		b.WriteString(ErrorStyle.Render(m.err))
	default:
		b.WriteString(DimStyle.Render(hints))
	}
	return ContentPaneStyle.Render(b.String())
}
