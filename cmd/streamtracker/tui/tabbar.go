package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TabBar renders the main screen tabs along the top of the TUI. Each tab has
// its own accent color from tabAccents.
type TabBar struct {
	tabs   []Tab
	active int
	width  int
}

// NewTabBar creates a tab bar over AllTabs with the first one active.
func NewTabBar() TabBar {
	return TabBar{tabs: AllTabs}
}

// SetWidth sets the available width for rendering.
func (t *TabBar) SetWidth(w int) {
	t.width = w
}

// Active returns the selected tab.
func (t TabBar) Active() Tab {
	return t.tabs[t.active]
}

// SetActive selects tab if it is present.
func (t *TabBar) SetActive(tab Tab) {
	for i, x := range t.tabs {
		if x == tab {
			t.active = i
			return
		}
	}
}

// CycleNext advances to the next tab, wrapping around.
func (t *TabBar) CycleNext() {
	t.active = (t.active + 1) % len(t.tabs)
}

// CyclePrev moves to the previous tab, wrapping around.
func (t *TabBar) CyclePrev() {
	t.active = (t.active - 1 + len(t.tabs)) % len(t.tabs)
}

// accent returns the color of the tab at index i.
func accent(i int) lipgloss.Color {
	return tabAccents[i%len(tabAccents)]
}

// View renders the tab bar.
func (t TabBar) View() string {
	parts := []string{BrandStyle.Render("StreamTracker")}
	for i, tab := range t.tabs {
		label := tab.String()
		if i == t.active {
			style := lipgloss.NewStyle().
				Foreground(colorBase).
				Background(accent(i)).
				Padding(0, 1).
				Bold(true)
			parts = append(parts, style.Render(label))
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(accent(i)).
			Background(colorSurface0).
			Padding(0, 1)
		parts = append(parts, style.Render(label))
	}
	return TabBarStyle.Width(max(t.width, 0)).Render(strings.Join(parts, " "))
}
