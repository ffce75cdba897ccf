package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTabBar_Cycle(t *testing.T) {
	tb := NewTabBar()
	assert.Equal(t, TabDiscover, tb.Active())

	tb.CyclePrev()
	assert.Equal(t, TabInsights, tb.Active())
	tb.CycleNext()
	tb.CycleNext()
	assert.Equal(t, TabWatchlist, tb.Active())
}

func TestTabBar_SetActive(t *testing.T) {
	tb := NewTabBar()
	tb.SetActive(TabPlatforms)
	assert.Equal(t, TabPlatforms, tb.Active())
	tb.SetActive(Tab(99))
	assert.Equal(t, TabPlatforms, tb.Active())
}

func TestTabBar_View(t *testing.T) {
	tb := NewTabBar()
	tb.SetWidth(80)
	view := tb.View()
	for _, tab := range AllTabs {
		assert.Contains(t, view, tab.String())
	}
}

func TestStatusBar_MessageAndHints(t *testing.T) {
	var s StatusBar
	s.SetWidth(120)
	s.SetContext(testEmail)
	s.SetHints([]KeyHint{{"q", "quit"}})
	s.Error("Could not reach the server.")

	view := s.View()
	assert.Contains(t, view, testEmail)
	assert.Contains(t, view, "Could not reach the server.")
	assert.Contains(t, view, "quit")

	msg, isErr := s.Message()
	assert.True(t, isErr)
	assert.Equal(t, "Could not reach the server.", msg)

	s.Clear()
	msg, _ = s.Message()
	assert.Empty(t, msg)
}
