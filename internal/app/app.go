// Package app wires config, logging, storage, the token store, the API
// client and the session controller together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/config"
	"github.com/streamtracker/streamtracker/internal/kv"
	"github.com/streamtracker/streamtracker/internal/logging"
	"github.com/streamtracker/streamtracker/internal/onboarding"
	"github.com/streamtracker/streamtracker/internal/paths"
	"github.com/streamtracker/streamtracker/internal/session"
	"github.com/streamtracker/streamtracker/internal/tokenstore"
)

// App is one running client.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Store   kv.Store
	Tokens  *tokenstore.Store
	Client  *api.Client
	Session *session.Controller

	closers []io.Closer
}

// Open loads config from the data directory and opens every component.
func Open() (*App, error) {
	if err := paths.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	cfg, err := config.Load(paths.ConfigFile())
	if err != nil {
		return nil, err
	}

	logger, logFile, err := logging.OpenFile(paths.DebugLogFile(), cfg.Debug)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(cfg, paths.StoreFile(), paths.StoreKeyFile())
	if err != nil {
		logFile.Close()
		return nil, err
	}

	a := New(cfg, store, logger)
	a.closers = append(a.closers, logFile)
	return a, nil
}

// OpenStore opens the SQLite store at dbPath, sealing the token keys when
// enabled in cfg.
func OpenStore(cfg config.Config, dbPath, keyPath string) (kv.Store, error) {
	db, err := kv.OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	if !cfg.SealEnabled() {
		return db, nil
	}
	key, err := kv.LoadOrCreateKey(keyPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	sealed, err := kv.NewSealed(db, key, session.KeyAccessToken, session.KeyRefreshToken)
	if err != nil {
		db.Close()
		return nil, err
	}
	return sealed, nil
}

// New assembles an App around an open store. The session is not restored
// yet; call Restore.
func New(cfg config.Config, store kv.Store, logger *slog.Logger) *App {
	logger = logging.OrDiscard(logger)
	tokens := tokenstore.New()
	return &App{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Tokens: tokens,
		Client: api.New(cfg.APIURL, tokens,
			api.WithTimeout(cfg.RequestTimeout()),
			api.WithLogger(logger.With("component", "api")),
		),
		Session: session.New(store, tokens, session.WithLogger(logger.With("component", "session"))),
	}
}

// Restore loads the stored session.
func (a *App) Restore(ctx context.Context) session.Snapshot {
	return a.Session.Restore(ctx)
}

// Committer returns the onboarding commit bound to this app.
func (a *App) Committer() *onboarding.Committer {
	return &onboarding.Committer{
		Store:     a.Store,
		Platforms: a.Client,
		Session:   a.Session,
		Logger:    a.Logger.With("component", "onboarding"),
	}
}

// Close deregisters the session handler and releases the store and log.
func (a *App) Close() error {
	a.Session.Close()
	errs := []error{a.Store.Close()}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
