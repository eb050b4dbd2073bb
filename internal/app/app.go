package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/overlay"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
	"github.com/five82/marquee/internal/ui"
)

// Options configure the marquee application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/marquee/prefs.toml
	PollEvery  int    // seconds between session file checks; zero uses default
	Debug      bool
}

// Env is the wired set of components shared by the TUI and the one-shot
// CLI commands.
type Env struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Client    *tmdb.Client
	Session   *session.Holder
	Overlay   *overlay.Overlay
	Store     *state.Store
	Logger    *slog.Logger

	closeLog func() error
}

// Open loads configuration and builds every component. Callers must Close the
// returned Env.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := openLog(cfg.LogFile, opts.Debug)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	slog.SetDefault(logger)

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	holder := &session.Holder{}
	if sess, err := session.LoadFile(cfg.SessionFile); err != nil {
		logger.Warn("session file unreadable, continuing anonymously", "path", cfg.SessionFile, "error", err)
	} else {
		holder.Set(sess)
	}

	client, err := tmdb.NewClient(tmdb.Options{
		BaseURL:   cfg.APIURL,
		ImageBase: cfg.ImageBaseURL,
		APIKey:    cfg.APIKey,
		Language:  cfg.Language,
		Session:   holder,
		Logger:    logger,
	})
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	ov := overlay.New(client, client, holder).
		WithLogger(logger).
		WithConcurrency(cfg.PageConcurrency)

	logger.Info("marquee starting",
		"api_url", cfg.APIURL,
		"language", cfg.Language,
		"signed_in", holder.Current().Active(),
	)

	return &Env{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Client:    client,
		Session:   holder,
		Overlay:   ov,
		Store:     &state.Store{},
		Logger:    logger,
		closeLog:  closeLog,
	}, nil
}

// Close flushes and closes the log file.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog()
}

// Logout ends the session server-side, removes the session file and forgets
// every personalization status. Local state is cleared even when the server
// call fails.
func (e *Env) Logout(ctx context.Context) error {
	current := e.Session.Current()
	if !current.Active() {
		return session.ErrNoSession
	}
	_, remoteErr := e.Client.DeleteSession(ctx, current.ID)
	if remoteErr != nil {
		e.Logger.Warn("server logout failed", "error", remoteErr)
	}
	fileErr := session.RemoveFile(e.Config.SessionFile)
	e.Session.Clear()
	e.Overlay.Reset()
	e.Store.Update(e.Session.Version(), nil, nil)
	e.Logger.Info("signed out")
	return errors.Join(remoteErr, fileErr)
}

// ResolveAccount reads the session file once and resolves the account behind
// it, filling in a missing account id.
func (e *Env) ResolveAccount(ctx context.Context) error {
	return newWatcher(e).refresh(ctx)
}

// Run boots the marquee TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	w := newWatcher(env)
	// Resolve the account before the UI starts so the header is populated.
	_ = w.refresh(ctx)
	StartWatcher(ctx, w, interval)

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    env.Client,
		Overlay:   env.Overlay,
		Session:   env.Session,
		Store:     env.Store,
		Config:    &env.Config,
		Prefs:     env.Prefs,
		PrefsPath: env.PrefsPath,
		Logout:    env.Logout,
		Logger:    env.Logger,
	})
}
