package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// KeyHint is one shortcut shown on the right of the status bar.
type KeyHint struct {
	Key  string
	Help string
}

// StatusBar renders the bottom row: who is signed in, the last notice or
// error, and the shortcuts of the focused view.
type StatusBar struct {
	context string
	message string
	isError bool
	hints   []KeyHint
	width   int
}

// SetWidth sets the available width for rendering.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// SetContext sets the leftmost text, usually the signed-in email.
func (s *StatusBar) SetContext(ctx string) {
	s.context = ctx
}

// SetHints replaces the shortcut list.
func (s *StatusBar) SetHints(hints []KeyHint) {
	s.hints = hints
}

// Notify shows an informational message until the next one.
func (s *StatusBar) Notify(msg string) {
	s.message, s.isError = msg, false
}

// Error shows an error message until the next one.
func (s *StatusBar) Error(msg string) {
	s.message, s.isError = msg, true
}

// Clear removes the message.
func (s *StatusBar) Clear() {
	s.message, s.isError = "", false
}

// Message returns the current message and whether it is an error.
func (s StatusBar) Message() (string, bool) {
	return s.message, s.isError
}

// View renders the status bar.
func (s StatusBar) View() string {
	left := s.context
	if s.message != "" {
		msg := s.message
		if s.isError {
			msg = StatusBarErrorStyle.Render(msg)
		}
		if left != "" {
			left += " · "
		}
		left += msg
	}

	shortcuts := make([]string, 0, len(s.hints))
	for _, h := range s.hints {
		shortcuts = append(shortcuts, StatusBarKeyStyle.Render(h.Key)+": "+h.Help)
	}
	right := strings.Join(shortcuts, " · ")

	available := s.width - 2 // StatusBarStyle padding
	gap := available - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		// Drop shortcuts before truncating the message.
		right = ""
		gap = max(available-ansi.StringWidth(left), 1)
		left = ansi.Truncate(left, max(available, 1), "…")
	}

	return StatusBarStyle.Width(max(s.width, 0)).Render(left + strings.Repeat(" ", gap) + right)
}
