package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/marquee/internal/overlay"
	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

type accountFetcher interface {
	Account(ctx context.Context) (tmdb.Account, error)
}

// watcher keeps the session holder in step with the session file written by
// the login flow and resolves the account behind it.
type watcher struct {
	path     string
	holder   *session.Holder
	accounts accountFetcher
	overlay  *overlay.Overlay
	store    *state.Store
	logger   *slog.Logger

	resolved uint64 // holder version whose account is in the store
	stale    bool
}

func newWatcher(env *Env) *watcher {
	return &watcher{
		path:     env.Config.SessionFile,
		holder:   env.Session,
		accounts: env.Client,
		overlay:  env.Overlay,
		store:    env.Store,
		logger:   env.Logger,
		stale:    true,
	}
}

// StartWatcher launches a background goroutine that re-reads the session file
// at a fixed cadence, backing off while refreshes fail. It returns immediately.
func StartWatcher(ctx context.Context, w *watcher, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			if err := w.refresh(ctx); err != nil {
				failures++
			} else {
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

func (w *watcher) refresh(ctx context.Context) error {
	sess, err := session.LoadFile(w.path)
	if err != nil {
		w.store.Update(0, nil, err)
		w.logger.Warn("session file read failed", "path", w.path, "error", err)
		return err
	}

	// The login flow may omit account_id; keep the one resolved earlier.
	if cur := w.holder.Current(); sess.AccountID == 0 && sess.ID == cur.ID {
		sess.AccountID = cur.AccountID
	}
	if w.holder.Set(sess) {
		w.overlay.Reset()
		w.stale = true
		w.logger.Info("session changed", "signed_in", sess.Active())
	}

	version := w.holder.Version()
	if !w.stale && version == w.resolved {
		return nil
	}
	if !sess.Active() {
		w.store.Update(version, nil, nil)
		w.resolved, w.stale = version, false
		return nil
	}

	account, err := w.accounts.Account(ctx)
	if err != nil {
		w.store.Update(version, nil, err)
		w.logger.Warn("account lookup failed", "error", err)
		return err
	}
	if sess.AccountID != account.ID {
		sess.AccountID = account.ID
		w.holder.Set(sess)
		version = w.holder.Version()
	}
	w.store.Update(version, &account, nil)
	w.resolved, w.stale = version, false
	return nil
}

// calculateBackoff doubles interval per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
