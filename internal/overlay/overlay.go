package overlay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/tmdb"
)

// DefaultConcurrency bounds parallel status lookups in Resolve.
const DefaultConcurrency = 6

// ErrToggleInFlight is returned when a toggle for the same item is running.
var ErrToggleInFlight = errors.New("toggle already in progress")

// Lookup reads one item's personalization record.
type Lookup interface {
	AccountStates(ctx context.Context, media tmdb.MediaType, id int64) (tmdb.AccountStates, error)
}

// Writer persists personalization flags.
type Writer interface {
	MarkFavorite(ctx context.Context, accountID int64, req tmdb.FavoriteRequest) (tmdb.Ack, error)
	MarkWatchlist(ctx context.Context, accountID int64, req tmdb.WatchlistRequest) (tmdb.Ack, error)
}

// Field names a toggleable flag.
type Field int

const (
	Favorite Field = iota
	Watchlist
)

func (f Field) String() string {
	if f == Watchlist {
		return "watchlist"
	}
	return "favorite"
}

// Status is what the signed-in account has recorded for one item.
type Status struct {
	ItemID    int64
	Media     tmdb.MediaType
	Favorite  bool
	Watchlist bool
	Rated     tmdb.Rated

	epoch uint64
}

// Get returns the value of f.
func (s Status) Get(f Field) bool {
	if f == Watchlist {
		return s.Watchlist
	}
	return s.Favorite
}

func (s Status) with(f Field, v bool) Status {
	if f == Watchlist {
		s.Watchlist = v
	} else {
		s.Favorite = v
	}
	return s
}

// Overlay holds per-item statuses keyed by item ID.
//
// Entries are only added or replaced one key at a time; a landing lookup never
// removes another key. Reset bumps an epoch so results started under a previous
// session are dropped on arrival.
type Overlay struct {
	mu       sync.Mutex
	lookup   Lookup
	writer   Writer
	sess     session.Source
	statuses map[int64]Status
	inflight map[int64]uint64 // claim epoch
	stale    map[int64]struct{}
	toggling map[int64]struct{}
	epoch    uint64
	limit    int
	logger   *slog.Logger
}

// New returns an empty overlay.
func New(lookup Lookup, writer Writer, sess session.Source) *Overlay {
	return &Overlay{
		lookup:   lookup,
		writer:   writer,
		sess:     sess,
		statuses: make(map[int64]Status),
		inflight: make(map[int64]uint64),
		stale:    make(map[int64]struct{}),
		toggling: make(map[int64]struct{}),
		limit:    DefaultConcurrency,
		logger:   slog.Default(),
	}
}

// WithLogger replaces the overlay logger.
func (o *Overlay) WithLogger(l *slog.Logger) *Overlay {
	if l != nil {
		o.logger = l
	}
	return o
}

// WithConcurrency sets the Resolve fan-out. Values below 1 are ignored.
func (o *Overlay) WithConcurrency(n int) *Overlay {
	if n > 0 {
		o.limit = n
	}
	return o
}

// Pending claims the items that need a lookup and returns them. A claimed item
// stays in flight until Merge or a failed Lookup releases it. Without a session
// nothing is pending.
func (o *Overlay) Pending(items []tmdb.Item) []tmdb.Item {
	if !o.sess.Current().Active() {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []tmdb.Item
	for _, item := range items {
		if item.ID <= 0 || !item.MediaType.Valid() {
			continue
		}
		if _, busy := o.inflight[item.ID]; busy {
			continue
		}
		_, known := o.statuses[item.ID]
		_, stale := o.stale[item.ID]
		if known && !stale {
			continue
		}
		o.inflight[item.ID] = o.epoch
		out = append(out, item)
	}
	return out
}

// Lookup fetches the status of item without merging it. On failure the claim
// made by Pending is released so a later Pending can retry it. A claim made
// after a Reset is left alone.
func (o *Overlay) Lookup(ctx context.Context, item tmdb.Item) (Status, error) {
	o.mu.Lock()
	epoch := o.epoch
	o.mu.Unlock()

	st, err := o.fetch(ctx, item, epoch)
	if err != nil {
		o.release(item.ID, epoch)
		return Status{}, err
	}
	return st, nil
}

func (o *Overlay) fetch(ctx context.Context, item tmdb.Item, epoch uint64) (Status, error) {
	if !o.sess.Current().Active() {
		return Status{}, session.ErrNoSession
	}
	states, err := o.lookup.AccountStates(ctx, item.MediaType, item.ID)
	if err != nil {
		o.logger.Warn("status lookup failed", "id", item.ID, "media", item.MediaType, "error", err)
		return Status{}, fmt.Errorf("lookup %s %d: %w", item.MediaType, item.ID, err)
	}
	return Status{
		ItemID:    item.ID,
		Media:     item.MediaType,
		Favorite:  states.Favorite,
		Watchlist: states.Watchlist,
		Rated:     states.Rated,
		epoch:     epoch,
	}, nil
}

// Merge stores st under its item ID. It reports false when st was looked up
// before the last Reset and was dropped.
func (o *Overlay) Merge(st Status) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if st.epoch != o.epoch {
		return false
	}
	delete(o.inflight, st.ItemID)
	delete(o.stale, st.ItemID)
	o.statuses[st.ItemID] = st
	return true
}

// Resolve looks up every pending item concurrently and merges each result as
// it lands. Failed lookups are logged and leave their entry absent. It blocks
// until the batch is done.
func (o *Overlay) Resolve(ctx context.Context, items []tmdb.Item) error {
	pending := o.Pending(items)
	if len(pending) == 0 {
		return nil
	}
	var g errgroup.Group
	g.SetLimit(o.limit)
	for _, item := range pending {
		g.Go(func() error {
			st, err := o.Lookup(ctx, item)
			if err != nil {
				return nil
			}
			o.Merge(st)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

// Toggle flips field for item. An unknown or invalidated status is read from
// the server first, so the flip is always computed from a current value. The
// write completes before the status is read back, and the re-read value is
// what gets stored and returned.
func (o *Overlay) Toggle(ctx context.Context, item tmdb.Item, field Field) (Status, error) {
	current := o.sess.Current()
	if !current.Active() || current.AccountID <= 0 {
		return Status{}, session.ErrNoSession
	}
	if !item.MediaType.Valid() {
		return Status{}, &tmdb.ValidationError{Field: "media type", Reason: "item has no media type"}
	}

	o.mu.Lock()
	if _, busy := o.toggling[item.ID]; busy {
		o.mu.Unlock()
		return Status{}, ErrToggleInFlight
	}
	o.toggling[item.ID] = struct{}{}
	known, ok := o.statuses[item.ID]
	_, stale := o.stale[item.ID]
	epoch := o.epoch
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.toggling, item.ID)
		o.mu.Unlock()
	}()

	if !ok || stale {
		st, err := o.fetch(ctx, item, epoch)
		if err != nil {
			return Status{}, err
		}
		o.Merge(st)
		known = st
	}

	want := !known.Get(field)
	if err := o.write(ctx, current.AccountID, item, field, want); err != nil {
		return known, err
	}
	o.logger.Info("personalization updated", "id", item.ID, "field", field.String(), "value", want)

	fresh, err := o.fetch(ctx, item, epoch)
	if err != nil {
		o.Invalidate(item.ID)
		return known.with(field, want), fmt.Errorf("refresh after %s write: %w", field, err)
	}
	o.Merge(fresh)
	return fresh, nil
}

func (o *Overlay) write(ctx context.Context, accountID int64, item tmdb.Item, field Field, value bool) error {
	var (
		ack tmdb.Ack
		err error
	)
	switch field {
	case Watchlist:
		ack, err = o.writer.MarkWatchlist(ctx, accountID, tmdb.WatchlistRequest{
			MediaType: item.MediaType,
			MediaID:   item.ID,
			Watchlist: value,
		})
	default:
		ack, err = o.writer.MarkFavorite(ctx, accountID, tmdb.FavoriteRequest{
			MediaType: item.MediaType,
			MediaID:   item.ID,
			Favorite:  value,
		})
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", field, err)
	}
	if !ack.Success && ack.StatusCode != 0 {
		return fmt.Errorf("write %s: server rejected update (%d): %s", field, ack.StatusCode, ack.StatusMessage)
	}
	return nil
}

// Status returns the known status of id.
func (o *Overlay) Status(id int64) (Status, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	st, ok := o.statuses[id]
	return st, ok
}

// Statuses returns a copy of every known status.
func (o *Overlay) Statuses() map[int64]Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[int64]Status, len(o.statuses))
	for id, st := range o.statuses {
		out[id] = st
	}
	return out
}

// Invalidate marks ids for re-lookup. Their current values stay visible until
// the refresh lands.
func (o *Overlay) Invalidate(ids ...int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, id := range ids {
		if _, ok := o.statuses[id]; ok {
			o.stale[id] = struct{}{}
		}
	}
}

// Reset forgets everything, for sign-out or an account switch.
func (o *Overlay) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.epoch++
	o.statuses = make(map[int64]Status)
	o.inflight = make(map[int64]uint64)
	o.stale = make(map[int64]struct{})
}

func (o *Overlay) release(id int64, epoch uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if claim, ok := o.inflight[id]; ok && claim == epoch {
		delete(o.inflight, id)
	}
}
