package tui

import (
	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/onboarding"
	"github.com/streamtracker/streamtracker/internal/session"
)

// Tab identifies a tab of the main screen set.
type Tab int

const (
	TabDiscover Tab = iota
	TabWatchlist
	TabPlatforms
	TabInsights
)

// String returns the display name for a tab.
func (t Tab) String() string {
	switch t {
	case TabDiscover:
		return "Discover"
	case TabWatchlist:
		return "Watchlist"
	case TabPlatforms:
		return "Platforms"
	case TabInsights:
		return "Insights"
	default:
		return "Unknown"
	}
}

// AllTabs lists every tab in display order.
var AllTabs = []Tab{TabDiscover, TabWatchlist, TabPlatforms, TabInsights}

// --- Messages ---

// SessionChangedMsg carries a new session snapshot. The root model remounts
// the screen set whenever the derived state changes. Notice, when set, is
// shown in the status bar of the screen that ends up mounted.
type SessionChangedMsg struct {
	Snapshot session.Snapshot
	Notice   string
}

// OverlayCloseMsg is emitted when any overlay is dismissed.
type OverlayCloseMsg struct {
	Result    string // Text result (for text input or choice) or empty
	Confirmed bool   // true = OK/Submit, false = Cancel/Esc
}

// authFailedMsg reports a failed login or registration.
type authFailedMsg struct{ err error }

// commitFailedMsg reports that onboarding could not be completed.
type commitFailedMsg struct {
	result onboarding.Result
	err    error
}

type discoveryLoadedMsg struct {
	discovery api.Discovery
	err       error
}

type watchlistLoadedMsg struct {
	filter api.WatchStatus
	items  []api.WatchlistItem
	err    error
}

type platformsLoadedMsg struct {
	platforms []api.Platform
	err       error
}

type insightsLoadedMsg struct {
	insights api.Insights
	err      error
}

// mutationDoneMsg reports a create, update or delete on tab.
type mutationDoneMsg struct {
	tab    Tab
	notice string
	err    error
}
