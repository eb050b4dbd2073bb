package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/five82/marquee/internal/tmdb"
)

// Source fetches one page of a listing for a filter. Each screen supplies its
// own (discover, search, favorites, trending).
type Source func(ctx context.Context, f Filter, page int) (tmdb.Page, error)

// Phase is the controller state.
type Phase int

const (
	Idle Phase = iota
	LoadingReset
	LoadingAppend
	Settled
)

func (p Phase) String() string {
	switch p {
	case LoadingReset:
		return "loading"
	case LoadingAppend:
		return "loading-more"
	case Settled:
		return "settled"
	default:
		return "idle"
	}
}

// FailureKind tells which fetch cycle produced Snapshot.Err.
type FailureKind int

const (
	NoFailure FailureKind = iota
	ResetFailed
	AppendFailed
)

// Request is one fetch the caller must perform and hand back to Apply.
type Request struct {
	Generation uint64
	Filter     Filter
	Page       int
	Append     bool
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Filter       Filter
	Items        []tmdb.Item
	TotalResults int
	Page         int
	Phase        Phase
	Loading      bool
	LoadingMore  bool
	HasMore      bool
	Err          error
	ErrKind      FailureKind
	Generation   uint64
}

// Controller accumulates pages of a listing for the current filter.
//
// At most one fetch is in flight. A filter change bumps the generation; any
// result carrying an older generation is dropped on arrival.
type Controller struct {
	mu        sync.Mutex
	source    Source
	filter    Filter
	phase     Phase
	gen       uint64
	page      int
	items     []tmdb.Item
	total     int
	exhausted bool
	err       error
	errKind   FailureKind
	logger    *slog.Logger
}

// New returns an Idle controller. Call SetFilter or Reload to start loading.
func New(source Source, initial Filter) *Controller {
	return &Controller{
		source: source,
		filter: initial.Clone(),
		logger: slog.Default(),
	}
}

// WithLogger replaces the controller logger.
func (c *Controller) WithLogger(l *slog.Logger) *Controller {
	if l != nil {
		c.logger = l
	}
	return c
}

// SetFilter starts a reset when f differs from the current filter, or when
// nothing has been loaded yet. It returns false for a no-op.
func (c *Controller) SetFilter(f Filter) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Idle && c.filter.Equal(f) {
		return Request{}, false
	}
	c.filter = f.Clone()
	return c.resetLocked(), true
}

// Reload restarts the current filter from page 1.
func (c *Controller) Reload() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetLocked()
}

func (c *Controller) resetLocked() Request {
	c.gen++
	c.phase = LoadingReset
	c.page = 1
	c.items = nil
	c.total = 0
	c.exhausted = false
	c.err = nil
	c.errKind = NoFailure
	return Request{Generation: c.gen, Filter: c.filter.Clone(), Page: 1}
}

// LoadMore requests the next page. It is a no-op unless the controller is
// settled and more results remain.
func (c *Controller) LoadMore() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Settled || !c.hasMoreLocked() {
		return Request{}, false
	}
	c.phase = LoadingAppend
	return Request{Generation: c.gen, Filter: c.filter.Clone(), Page: c.page + 1, Append: true}, true
}

// Apply merges the outcome of req. It reports false when the result was
// stale and discarded. A fetch error is recorded and returned.
func (c *Controller) Apply(req Request, page tmdb.Page, fetchErr error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.acceptsLocked(req) {
		c.logger.Debug("discarding stale page",
			"generation", req.Generation,
			"current", c.gen,
			"page", req.Page,
		)
		return false, nil
	}

	c.phase = Settled
	if fetchErr != nil {
		c.err = fmt.Errorf("load page %d: %w", req.Page, fetchErr)
		if req.Append {
			c.errKind = AppendFailed
		} else {
			c.errKind = ResetFailed
			c.items = nil
			c.total = 0
		}
		c.logger.Warn("catalog fetch failed", "page", req.Page, "append", req.Append, "error", fetchErr)
		return true, c.err
	}

	before := len(c.items)
	if req.Append {
		c.items = Merge(c.items, page.Results)
	} else {
		before = 0
		c.items = Dedup(page.Results)
	}
	added := len(c.items) - before
	c.page = req.Page
	c.total = max(page.TotalResults, 0)
	// The server caps how many pages it serves, so total_results can stay
	// ahead of what is reachable. The last served page ends the list too.
	c.exhausted = (req.Append && len(page.Results) == 0) ||
		(page.TotalPages > 0 && req.Page >= page.TotalPages)
	c.err = nil
	c.errKind = NoFailure
	c.logger.Debug("catalog page merged",
		"page", req.Page,
		"received", len(page.Results),
		"added", added,
		"total", c.total,
	)
	return true, nil
}

// Execute runs req against the controller's source and applies the result.
func (c *Controller) Execute(ctx context.Context, req Request) error {
	if c.source == nil {
		_, err := c.Apply(req, tmdb.Page{}, errors.New("catalog source is nil"))
		return err
	}
	page, err := c.source(ctx, req.Filter, req.Page)
	_, err = c.Apply(req, page, err)
	return err
}

// Filter returns a copy of the current filter.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter.Clone()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Filter:       c.filter.Clone(),
		Items:        cloneItems(c.items),
		TotalResults: c.total,
		Page:         c.page,
		Phase:        c.phase,
		Loading:      c.phase == LoadingReset,
		LoadingMore:  c.phase == LoadingAppend,
		HasMore:      c.hasMoreLocked(),
		Err:          c.err,
		ErrKind:      c.errKind,
		Generation:   c.gen,
	}
}

func (c *Controller) acceptsLocked(req Request) bool {
	if req.Generation != c.gen {
		return false
	}
	if req.Append {
		return c.phase == LoadingAppend && req.Page == c.page+1
	}
	return c.phase == LoadingReset
}

// hasMoreLocked uses a strict comparison: equal counts mean exhausted.
func (c *Controller) hasMoreLocked() bool {
	return !c.exhausted && c.total > len(c.items)
}
