package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// OverlayType identifies the kind of modal overlay.
type OverlayType int

const (
	OverlayConfirm   OverlayType = iota // Cancel/OK confirmation
	OverlayTextInput                    // Single-line text input
	OverlayChoice                       // List of choices with cursor
)

// Overlay renders a centered modal box on top of the main screen.
type Overlay struct {
	overlayType OverlayType
	title       string
	message     string
	okLabel     string
	choices     []string
	cursor      int // choice index, or button index for Confirm (0=Cancel, 1=OK)
	input       textinput.Model
	allowEmpty  bool
	active      bool
}

// NewConfirmOverlay creates a confirmation dialog. okLabel names the
// confirming button.
func NewConfirmOverlay(title, message, okLabel string) Overlay {
	if okLabel == "" {
		okLabel = "OK"
	}
	return Overlay{
		overlayType: OverlayConfirm,
		title:       title,
		message:     message,
		okLabel:     okLabel,
		cursor:      0, // destructive actions default to Cancel
		active:      true,
	}
}

// NewTextInputOverlay creates a text input dialog prefilled with value.
func NewTextInputOverlay(title, placeholder, value string) Overlay {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 80
	ti.Width = 34
	ti.SetValue(value)
	ti.Focus()
	return Overlay{
		overlayType: OverlayTextInput,
		title:       title,
		input:       ti,
		active:      true,
	}
}

// NewChoiceOverlay creates a list-of-choices dialog.
func NewChoiceOverlay(title string, choices []string) Overlay {
	return Overlay{
		overlayType: OverlayChoice,
		title:       title,
		choices:     choices,
		active:      true,
	}
}

// Active returns whether the overlay is currently shown.
func (o Overlay) Active() bool {
	return o.active
}

// Title returns the overlay title.
func (o Overlay) Title() string {
	return o.title
}

// Update handles key messages for the overlay.
func (o Overlay) Update(msg tea.Msg) (Overlay, tea.Cmd) {
	if !o.active {
		return o, nil
	}
	key, isKey := msg.(tea.KeyMsg)
	if isKey && key.String() == "esc" {
		return o.close(OverlayCloseMsg{})
	}

	switch o.overlayType {
	case OverlayConfirm:
		if !isKey {
			return o, nil
		}
		switch key.String() {
		case "tab", "left", "right", "h", "l":
			o.cursor = 1 - o.cursor
		case "y":
			return o.close(OverlayCloseMsg{Confirmed: true})
		case "n":
			return o.close(OverlayCloseMsg{})
		case "enter":
			return o.close(OverlayCloseMsg{Confirmed: o.cursor == 1})
		}
		return o, nil

	case OverlayTextInput:
		if isKey && key.String() == "enter" {
			value := strings.TrimSpace(o.input.Value())
			if value == "" && !o.allowEmpty {
				return o, nil
			}
			return o.close(OverlayCloseMsg{Result: value, Confirmed: true})
		}
		var cmd tea.Cmd
		o.input, cmd = o.input.Update(msg)
		return o, cmd

	case OverlayChoice:
		if !isKey {
			return o, nil
		}
		switch key.String() {
		case "up", "k":
			if o.cursor > 0 {
				o.cursor--
			}
		case "down", "j":
			if o.cursor < len(o.choices)-1 {
				o.cursor++
			}
		case "enter":
			if len(o.choices) == 0 {
				return o.close(OverlayCloseMsg{})
			}
			return o.close(OverlayCloseMsg{Result: o.choices[o.cursor], Confirmed: true})
		}
	}
	return o, nil
}

func (o Overlay) close(result OverlayCloseMsg) (Overlay, tea.Cmd) {
	o.active = false
	return o, func() tea.Msg { return result }
}

// View renders the overlay box. Compositing it over the screen is the
// caller's job; see Composite.
func (o Overlay) View() string {
	if !o.active {
		return ""
	}

	var b strings.Builder
	b.WriteString(OverlayTitleStyle.Render(o.title))
	b.WriteString("\n\n")

	switch o.overlayType {
	case OverlayConfirm:
		b.WriteString(o.message)
		b.WriteString("\n\n")
		b.WriteString(o.renderButtons("Cancel", o.okLabel))
	case OverlayTextInput:
		b.WriteString(o.input.View())
		b.WriteString("\n\n")
		b.WriteString(DimStyle.Render("Enter: submit  Esc: cancel"))
	case OverlayChoice:
		for i, choice := range o.choices {
			if i == o.cursor {
				b.WriteString(OverlayChoiceCursorStyle.Render("> " + choice))
			} else {
				b.WriteString("  " + choice)
			}
			if i < len(o.choices)-1 {
				b.WriteString("\n")
			}
		}
	}
	return OverlayStyle.Render(b.String())
}

func (o Overlay) renderButtons(cancel, ok string) string {
	cancelBtn, okBtn := OverlayButtonActiveStyle.Render(cancel), OverlayButtonInactiveStyle.Render(ok)
	if o.cursor == 1 {
		cancelBtn, okBtn = OverlayButtonInactiveStyle.Render(cancel), OverlayButtonActiveStyle.Render(ok)
	}
	return cancelBtn + "  " + okBtn
}

// SetWidth sizes the text input to the available width.
func (o *Overlay) SetWidth(w int) {
	if o.overlayType != OverlayTextInput {
		return
	}
	inputWidth := w - 8 // border, padding and prompt
	if inputWidth < 20 {
		inputWidth = 20
	}
	o.input.Width = inputWidth
}

// OverlayMaxWidth returns the widest an overlay should be on a terminal of
// termWidth columns.
func OverlayMaxWidth(termWidth int) int {
	w := termWidth * 2 / 3
	if w < 40 {
		w = 40
	}
	if w > 60 {
		w = 60
	}
	return w
}

// Composite places the overlay box centered on top of background, a fully
// rendered frame of totalWidth by totalHeight cells.
func Composite(background, overlay string, totalWidth, totalHeight int) string {
	if overlay == "" {
		return background
	}

	bgLines := strings.Split(background, "\n")
	for len(bgLines) < totalHeight {
		bgLines = append(bgLines, "")
	}

	overlayLines := strings.Split(overlay, "\n")
	overlayWidth := 0
	for _, line := range overlayLines {
		overlayWidth = max(overlayWidth, ansi.StringWidth(line))
	}
	startRow := max((totalHeight-len(overlayLines))/2, 0)
	startCol := max((totalWidth-overlayWidth)/2, 0)

	for i, line := range overlayLines {
		row := startRow + i
		if row >= len(bgLines) {
			break
		}
		left := ansi.Truncate(bgLines[row], startCol, "")
		if pad := startCol - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(bgLines[row], startCol+ansi.StringWidth(line), "")
		bgLines[row] = left + line + right
	}

	if totalHeight > 0 && len(bgLines) > totalHeight {
		bgLines = bgLines[:totalHeight]
	}
	return strings.Join(bgLines, "\n")
}
