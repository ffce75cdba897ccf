package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha palette.
var flavor = catppuccin.Mocha

// Color constants extracted from the Mocha palette for convenience.
var (
	colorBase     = lipgloss.Color(flavor.Base().Hex)
	colorMantle   = lipgloss.Color(flavor.Mantle().Hex)
	colorCrust    = lipgloss.Color(flavor.Crust().Hex)
	colorSurface0 = lipgloss.Color(flavor.Surface0().Hex)
	colorSurface1 = lipgloss.Color(flavor.Surface1().Hex)
	colorText     = lipgloss.Color(flavor.Text().Hex)
	colorSubtext0 = lipgloss.Color(flavor.Subtext0().Hex)
	colorBlue     = lipgloss.Color(flavor.Blue().Hex)
	colorGreen    = lipgloss.Color(flavor.Green().Hex)
	colorRed      = lipgloss.Color(flavor.Red().Hex)
	colorYellow   = lipgloss.Color(flavor.Yellow().Hex)
	colorPeach    = lipgloss.Color(flavor.Peach().Hex)
	colorMauve    = lipgloss.Color(flavor.Mauve().Hex)
	colorTeal     = lipgloss.Color(flavor.Teal().Hex)
	colorOverlay0 = lipgloss.Color(flavor.Overlay0().Hex)
)

// tabAccents gives each main tab its own accent, in tab order.
var tabAccents = []lipgloss.Color{colorMauve, colorBlue, colorTeal, colorPeach}

// Tab bar styles.
var (
	// TabBarStyle is the background strip for the tab bar row.
	TabBarStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Padding(0, 1)

	// BrandStyle renders the app name at the left of the tab bar.
	BrandStyle = lipgloss.NewStyle().
			Foreground(colorMauve).
			Background(colorSurface0).
			Bold(true).
			PaddingRight(2)
)

// Content styles.
var (
	// TitleStyle is used for screen titles.
	TitleStyle = lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true)

	// HeaderStyle is used for section headers.
	HeaderStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	// CursorStyle marks the highlighted row.
	CursorStyle = lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true)

	// SelectedStyle is used for checked items.
	SelectedStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	// UnselectedStyle is used for unchecked items.
	UnselectedStyle = lipgloss.NewStyle().
			Foreground(colorText)

	// DimStyle is used for secondary text.
	DimStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0)

	// ErrorStyle is used for inline errors.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	// MoneyStyle is used for prices and totals.
	MoneyStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	// ChipStyle renders an unselected choice chip.
	ChipStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface0).
			Padding(0, 1)

	// ActiveChipStyle renders a selected choice chip.
	ActiveChipStyle = lipgloss.NewStyle().
			Foreground(colorCrust).
			Background(colorMauve).
			Padding(0, 1).
			Bold(true)

	// ContentPaneStyle wraps the main content area.
	ContentPaneStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				PaddingRight(2).
				PaddingTop(1)

	// CardStyle frames the auth form.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(1, 3)
)

// Recommendation action styles.
var (
	actionKeepStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	actionReviewStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	actionCancelStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)

// Status bar styles.
var (
	// StatusBarStyle is the base style for the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorSurface0).
			Padding(0, 1)

	// StatusBarKeyStyle highlights keyboard shortcuts in the status bar.
	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Background(colorSurface0).
				Bold(true)

	// StatusBarErrorStyle is used for error messages in the status bar.
	StatusBarErrorStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Background(colorSurface0)
)

// Overlay styles.
var (
	// OverlayStyle is the border and background for modal overlays.
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMauve).
			Background(colorMantle).
			Foreground(colorText).
			Padding(1, 2)

	// OverlayTitleStyle is used for the title text in overlays.
	OverlayTitleStyle = lipgloss.NewStyle().
				Foreground(colorMauve).
				Bold(true)

	// OverlayButtonActiveStyle is used for the focused button in overlays.
	OverlayButtonActiveStyle = lipgloss.NewStyle().
					Foreground(colorBase).
					Background(colorMauve).
					Padding(0, 2)

	// OverlayButtonInactiveStyle is used for the unfocused button in overlays.
	OverlayButtonInactiveStyle = lipgloss.NewStyle().
					Foreground(colorText).
					Background(colorSurface1).
					Padding(0, 2)

	// OverlayChoiceCursorStyle is used for the cursor in choice overlays.
	OverlayChoiceCursorStyle = lipgloss.NewStyle().
					Foreground(colorMauve).
					Bold(true)
)

// swatch renders a small block in a platform's hex color.
func swatch(hex string) string {
	if hex == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}
