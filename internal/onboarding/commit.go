package onboarding

import (
	"context"
	"log/slog"
	"sync"

	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/kv"
	"github.com/streamtracker/streamtracker/internal/logging"
	"golang.org/x/sync/errgroup"
)

// PlatformCreator creates platforms on the server.
type PlatformCreator interface {
	CreatePlatform(ctx context.Context, p api.PlatformCreate) (api.Platform, error)
}

// Completer marks onboarding as done for the signed-in user.
type Completer interface {
	CompleteOnboarding(ctx context.Context) error
}

// Committer runs the end-of-wizard side effects.
type Committer struct {
	Store     kv.Store
	Platforms PlatformCreator
	Session   Completer
	Logger    *slog.Logger
}

// Result reports what a commit did.
type Result struct {
	Created        []string
	Failed         []string
	PreferencesErr error
}

// Commit persists the draft's preferences for email, creates every selected
// platform concurrently as subscribed, then completes onboarding.
//
// Preference and platform failures are logged and reported in Result but do
// not stop the commit. CompleteOnboarding runs after every create has
// settled, whatever their outcome; its error is the only one returned.
func (c *Committer) Commit(ctx context.Context, email string, d Draft) (Result, error) {
	log := logging.OrDiscard(c.Logger).With("email", email)
	var res Result

	if email != "" {
		if err := SavePreferences(ctx, c.Store, email, d.Preferences); err != nil {
			log.Warn("saving preferences failed", "err", err)
			res.PreferencesErr = err
		}
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, p := range d.Platforms {
		g.Go(func() error {
			_, err := c.Platforms.CreatePlatform(ctx, api.PlatformCreate{
				Name:         p.Name,
				Color:        p.Color,
				MonthlyCost:  d.Costs[p.Name],
				IsSubscribed: true,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("creating platform failed", "platform", p.Name, "err", err)
				res.Failed = append(res.Failed, p.Name)
				return nil
			}
			res.Created = append(res.Created, p.Name)
			return nil
		})
	}
	g.Wait()
	log.Info("onboarding platforms created", "created", len(res.Created), "failed", len(res.Failed))

	if err := c.Session.CompleteOnboarding(ctx); err != nil {
		return res, err
	}
	return res, nil
}
