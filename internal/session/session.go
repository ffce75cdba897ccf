// Package session owns the client's authentication state: the stored token
// pair, the signed-in email, and whether that account finished onboarding.
//
// The Controller is the only writer of the session keys in the persistent
// store. It registers itself as the token store's unauthorized handler, so a
// 401 from any request signs the user out.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/kv"
	"github.com/streamtracker/streamtracker/internal/logging"
	"github.com/streamtracker/streamtracker/internal/tokenstore"
)

// Persistent store keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserEmail    = "user_email"
)

// OnboardedKey returns the key recording that email finished onboarding.
func OnboardedKey(email string) string {
	return "onboarded:" + email
}

// PreferencesKey returns the key holding email's content preferences.
func PreferencesKey(email string) string {
	return "preferences:" + email
}

// ErrStorageUnavailable wraps persistent store failures.
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrNotSignedIn is returned by operations that need a stored session.
var ErrNotSignedIn = errors.New("not signed in")

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// State is derived from a Snapshot, never stored.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateOnboarding
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateOnboarding:
		return "onboarding"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the session.
type Snapshot struct {
	Loading            bool
	Token              string
	UserEmail          string
	OnboardingComplete bool
}

// State derives the session state.
func (s Snapshot) State() State {
	switch {
	case s.Loading:
		return StateLoading
	case s.Token == "":
		return StateUnauthenticated
	case !s.OnboardingComplete:
		return StateOnboarding
	default:
		return StateAuthenticated
	}
}

// Controller restores, creates and tears down sessions.
type Controller struct {
	store  kv.Store
	tokens *tokenstore.Store
	logger *slog.Logger

	// opMu serializes Restore, SignIn, SignOut and CompleteOnboarding.
	opMu     sync.Mutex
	restored bool

	mu       sync.Mutex
	snap     Snapshot
	onChange func(Snapshot)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New returns a Controller in the loading state and registers it as the
// unauthorized handler of tokens. Call Close to deregister.
func New(store kv.Store, tokens *tokenstore.Store, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		tokens: tokens,
		snap:   Snapshot{Loading: true},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)
	tokens.SetOnUnauthorized(c.handleUnauthorized)
	return c
}

// Close deregisters the unauthorized handler.
func (c *Controller) Close() {
	c.tokens.SetOnUnauthorized(nil)
}

// Snapshot returns the current session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// State returns the current derived state.
func (c *Controller) State() State {
	return c.Snapshot().State()
}

// OnChange registers fn to receive every new snapshot, replacing any previous
// observer. fn runs on the goroutine that changed the session.
func (c *Controller) OnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) update(fn func(*Snapshot)) Snapshot {
	c.mu.Lock()
	fn(&c.snap)
	snap := c.snap
	notify := c.onChange
	c.mu.Unlock()
	if notify != nil {
		notify(snap)
	}
	return snap
}

func (c *Controller) handleUnauthorized() {
	c.logger.Info("server rejected token, signing out")
	if err := c.SignOut(context.Background()); err != nil {
		c.logger.Warn("sign out after 401 failed", "err", err)
	}
}

// Restore loads a prior session from the store. It runs at most once per
// controller; later calls return the current snapshot. A storage failure is
// logged and treated as "no prior session". Loading is always cleared.
func (c *Controller) Restore(ctx context.Context) Snapshot {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	if c.restored {
		return c.Snapshot()
	}
	c.restored = true

	token, email, onboarded, err := c.readSession(ctx)
	if err != nil {
		c.logger.Warn("restoring session failed, starting signed out", "err", err)
		token, email, onboarded = "", "", false
	}
	if token != "" {
		c.tokens.Set(token)
	} else {
		c.tokens.Clear()
	}
	c.logger.Debug("session restored", "signed_in", token != "", "onboarded", onboarded)

	return c.update(func(s *Snapshot) {
		*s = Snapshot{Token: token, UserEmail: email, OnboardingComplete: onboarded}
	})
}

func (c *Controller) readSession(ctx context.Context) (token, email string, onboarded bool, err error) {
	token, _, err = c.store.Get(ctx, KeyAccessToken)
	if err != nil {
		return "", "", false, err
	}
	email, _, err = c.store.Get(ctx, KeyUserEmail)
	if err != nil {
		return "", "", false, err
	}
	if email != "" {
		if onboarded, err = c.readOnboarded(ctx, email); err != nil {
			return "", "", false, err
		}
	}
	return token, email, onboarded, nil
}

func (c *Controller) readOnboarded(ctx context.Context, email string) (bool, error) {
	v, ok, err := c.store.Get(ctx, OnboardedKey(email))
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

// SignIn installs a new session. The token is made available to requests
// before the batch write; if the write fails the previous token is restored
// and the session is left unchanged.
func (c *Controller) SignIn(ctx context.Context, accessToken, refreshToken, email string) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	prev, _ := c.tokens.Get()
	c.tokens.Set(accessToken)

	err := c.store.MultiSet(ctx,
		kv.Pair{Key: KeyAccessToken, Value: accessToken},
		kv.Pair{Key: KeyRefreshToken, Value: refreshToken},
		kv.Pair{Key: KeyUserEmail, Value: email},
	)
	if err != nil {
		c.tokens.Set(prev)
		return storageErr("saving session", err)
	}

	onboarded, err := c.readOnboarded(ctx, email)
	if err != nil {
		c.logger.Warn("reading onboarding record failed", "email", email, "err", err)
		onboarded = false
	}
	c.logger.Info("signed in", "email", email, "onboarded", onboarded)

	c.update(func(s *Snapshot) {
		s.Loading = false
		s.Token = accessToken
		s.UserEmail = email
		s.OnboardingComplete = onboarded
	})
	return nil
}

// SignOut removes the session from the store and memory. It is idempotent.
// Memory is always cleared; a store failure is still returned.
func (c *Controller) SignOut(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	err := c.store.MultiRemove(ctx, KeyAccessToken, KeyRefreshToken, KeyUserEmail)
	c.tokens.Clear()
	c.update(func(s *Snapshot) {
		s.Token = ""
		s.UserEmail = ""
		s.OnboardingComplete = false
	})
	if err != nil {
		return storageErr("clearing session", err)
	}
	c.logger.Info("signed out")
	return nil
}

// CompleteOnboarding records that the signed-in user finished onboarding.
func (c *Controller) CompleteOnboarding(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	email := c.Snapshot().UserEmail
	if email != "" {
		if err := c.store.MultiSet(ctx, kv.Pair{Key: OnboardedKey(email), Value: "true"}); err != nil {
			return storageErr("saving onboarding record", err)
		}
	}
	c.update(func(s *Snapshot) { s.OnboardingComplete = true })
	return nil
}

// RefreshToken returns the stored refresh token, if any.
func (c *Controller) RefreshToken(ctx context.Context) (string, error) {
	v, _, err := c.store.Get(ctx, KeyRefreshToken)
	if err != nil {
		return "", storageErr("reading refresh token", err)
	}
	return v, nil
}

// TokenRefresher exchanges a refresh token for a new pair.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (api.TokenPair, error)
}

// RefreshTokens trades the stored refresh token for a new pair and signs in
// with it under the current email.
func (c *Controller) RefreshTokens(ctx context.Context, r TokenRefresher) error {
	refresh, err := c.RefreshToken(ctx)
	if err != nil {
		return err
	}
	email := c.Snapshot().UserEmail
	if refresh == "" || email == "" {
		return ErrNotSignedIn
	}
	pair, err := r.Refresh(ctx, refresh)
	if err != nil {
		return fmt.Errorf("refreshing tokens: %w", err)
	}
	return c.SignIn(ctx, pair.AccessToken, pair.RefreshToken, email)
}
