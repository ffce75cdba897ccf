package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closeMsg(t *testing.T, cmd tea.Cmd) OverlayCloseMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(OverlayCloseMsg)
	require.True(t, ok)
	return msg
}

func TestComposite(t *testing.T) {
	bg := "AAAA\nBBBB\nCCCC\nDDDD"
	result := Composite(bg, "XX\nXX", 4, 4)
	lines := strings.Split(result, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "AAAA", lines[0])
	assert.Equal(t, "BXXB", lines[1])
	assert.Equal(t, "CXXC", lines[2])
	assert.Equal(t, "DDDD", lines[3])
}

func TestComposite_Empty(t *testing.T) {
	assert.Equal(t, "hello", Composite("hello", "", 5, 1))
}

func TestComposite_ShortBackgroundIsPadded(t *testing.T) {
	result := Composite("A", "X", 5, 3)
	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  X", lines[1])
}

func TestComposite_OversizedOverlay(t *testing.T) {
	result := Composite("A\nB", "XXXX\nXXXX\nXXXX\nXXXX", 2, 2)
	assert.NotEmpty(t, result)
	assert.Len(t, strings.Split(result, "\n"), 2)
}

func TestConfirmOverlay_DefaultsToCancel(t *testing.T) {
	o := NewConfirmOverlay("Remove", "Remove it?", "Remove")
	o, cmd := o.Update(keyType(tea.KeyEnter))
	assert.False(t, o.Active())
	assert.False(t, closeMsg(t, cmd).Confirmed)
}

func TestConfirmOverlay_ToggleAndConfirm(t *testing.T) {
	o := NewConfirmOverlay("Remove", "Remove it?", "")
	assert.Contains(t, o.View(), "OK")
	o, _ = o.Update(keyType(tea.KeyTab))
	_, cmd := o.Update(keyType(tea.KeyEnter))
	assert.True(t, closeMsg(t, cmd).Confirmed)

	o = NewConfirmOverlay("Remove", "Remove it?", "")
	_, cmd = o.Update(keyRunes("y"))
	assert.True(t, closeMsg(t, cmd).Confirmed)
}

func TestTextInputOverlay(t *testing.T) {
	o := NewTextInputOverlay("Add platform", "Name", "")
	o, cmd := o.Update(keyType(tea.KeyEnter))
	assert.True(t, o.Active(), "empty input is not submitted")
	assert.Nil(t, cmd)

	o, _ = o.Update(keyRunes("  Mubi "))
	_, cmd = o.Update(keyType(tea.KeyEnter))
	msg := closeMsg(t, cmd)
	assert.True(t, msg.Confirmed)
	assert.Equal(t, "Mubi", msg.Result)
}

func TestTextInputOverlay_Prefilled(t *testing.T) {
	o := NewTextInputOverlay("Cost", "0.00", "9.99")
	_, cmd := o.Update(keyType(tea.KeyEnter))
	assert.Equal(t, "9.99", closeMsg(t, cmd).Result)
}

func TestChoiceOverlay(t *testing.T) {
	o := NewChoiceOverlay("Type", []string{"Movie", "Show"})
	o, _ = o.Update(keyType(tea.KeyDown))
	o, _ = o.Update(keyType(tea.KeyDown))
	_, cmd := o.Update(keyType(tea.KeyEnter))
	msg := closeMsg(t, cmd)
	assert.True(t, msg.Confirmed)
	assert.Equal(t, "Show", msg.Result)
}

func TestOverlay_EscCancels(t *testing.T) {
	for _, o := range []Overlay{
		NewConfirmOverlay("a", "b", ""),
		NewTextInputOverlay("a", "b", "c"),
		NewChoiceOverlay("a", []string{"x"}),
	} {
		o, cmd := o.Update(keyType(tea.KeyEsc))
		assert.False(t, o.Active())
		assert.False(t, closeMsg(t, cmd).Confirmed)
	}
}

func TestOverlayMaxWidth(t *testing.T) {
	assert.Equal(t, 40, OverlayMaxWidth(30))
	assert.Equal(t, 60, OverlayMaxWidth(200))
	assert.Equal(t, 53, OverlayMaxWidth(80))
}
