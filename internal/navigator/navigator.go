// Package navigator maps session state to the one screen set that may be
// shown for it.
package navigator

import "github.com/streamtracker/streamtracker/internal/session"

// ScreenSet is a group of screens mounted together.
type ScreenSet int

const (
	ScreenLoading    ScreenSet = iota // restore in progress
	ScreenAuth                        // login and register
	ScreenOnboarding                  // platform, cost and preference steps
	ScreenMain                        // Discover, Watchlist, Platforms, Insights
)

func (s ScreenSet) String() string {
	switch s {
	case ScreenLoading:
		return "loading"
	case ScreenAuth:
		return "auth"
	case ScreenOnboarding:
		return "onboarding"
	case ScreenMain:
		return "main"
	default:
		return "unknown"
	}
}

// Select returns the screen set for state.
func Select(state session.State) ScreenSet {
	switch state {
	case session.StateUnauthenticated:
		return ScreenAuth
	case session.StateOnboarding:
		return ScreenOnboarding
	case session.StateAuthenticated:
		return ScreenMain
	default:
		return ScreenLoading
	}
}
