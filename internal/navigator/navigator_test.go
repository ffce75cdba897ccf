package navigator_test

import (
	"testing"

	"github.com/streamtracker/streamtracker/internal/navigator"
	"github.com/streamtracker/streamtracker/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		snap session.Snapshot
		want navigator.ScreenSet
	}{
		{session.Snapshot{Loading: true, Token: "t", OnboardingComplete: true}, navigator.ScreenLoading},
		{session.Snapshot{}, navigator.ScreenAuth},
		{session.Snapshot{OnboardingComplete: true}, navigator.ScreenAuth},
		{session.Snapshot{Token: "t", UserEmail: "u@x.io"}, navigator.ScreenOnboarding},
		{session.Snapshot{Token: "t", UserEmail: "u@x.io", OnboardingComplete: true}, navigator.ScreenMain},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, navigator.Select(tt.snap.State()))
		})
	}
}
