package onboarding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streamtracker/streamtracker/internal/kv"
	"github.com/streamtracker/streamtracker/internal/session"
)

// SavePreferences stores prefs under preferences:<email>.
func SavePreferences(ctx context.Context, store kv.Store, email string, prefs Preferences) error {
	if prefs.Genres == nil {
		prefs.Genres = []string{}
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := store.MultiSet(ctx, kv.Pair{Key: session.PreferencesKey(email), Value: string(data)}); err != nil {
		return fmt.Errorf("saving preferences: %w: %w", session.ErrStorageUnavailable, err)
	}
	return nil
}

// LoadPreferences reads the preferences of email. ok is false when none
// were saved.
func LoadPreferences(ctx context.Context, store kv.Store, email string) (prefs Preferences, ok bool, err error) {
	raw, ok, err := store.Get(ctx, session.PreferencesKey(email))
	if err != nil {
		return Preferences{}, false, fmt.Errorf("reading preferences: %w: %w", session.ErrStorageUnavailable, err)
	}
	if !ok {
		return Preferences{}, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return Preferences{}, false, fmt.Errorf("decoding preferences: %w", err)
	}
	return prefs, true, nil
}
