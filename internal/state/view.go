package state

import (
	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/overlay"
	"github.com/five82/marquee/internal/tmdb"
)

// Entry is one listed item with its personalization status, when known.
type Entry struct {
	Item      tmdb.Item
	Status    overlay.Status
	HasStatus bool
}

// Favorite reports a known favorite flag; unknown counts as false.
func (e Entry) Favorite() bool {
	return e.HasStatus && e.Status.Favorite
}

// View is what a list screen renders.
type View struct {
	Entries      []Entry
	TotalResults int
	Loading      bool
	LoadingMore  bool
	HasMore      bool
	Err          error
	ErrKind      catalog.FailureKind
	Filter       catalog.Filter
}

// Build joins a catalog snapshot with overlay statuses. Items keep the
// snapshot order; statuses for IDs not in the list are ignored.
func Build(snap catalog.Snapshot, statuses map[int64]overlay.Status) View {
	view := View{
		TotalResults: snap.TotalResults,
		Loading:      snap.Loading,
		LoadingMore:  snap.LoadingMore,
		HasMore:      snap.HasMore,
		Err:          snap.Err,
		ErrKind:      snap.ErrKind,
		Filter:       snap.Filter,
	}
	if len(snap.Items) == 0 {
		return view
	}
	view.Entries = make([]Entry, len(snap.Items))
	for i, item := range snap.Items {
		st, ok := statuses[item.ID]
		view.Entries[i] = Entry{Item: item, Status: st, HasStatus: ok}
	}
	return view
}

// Counts returns how many entries are known favorites and watchlisted.
func (v View) Counts() (favorites, watchlist int) {
	for _, e := range v.Entries {
		if !e.HasStatus {
			continue
		}
		if e.Status.Favorite {
			favorites++
		}
		if e.Status.Watchlist {
			watchlist++
		}
	}
	return favorites, watchlist
}
