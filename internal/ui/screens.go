package ui

import (
	"strconv"
	"time"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/tmdb"
)

// screen is one top-level tab.
type screen int

const (
	screenDiscover screen = iota
	screenSearch
	screenTrending
	screenFavorites
	screenThemes
	screenLogs
)

var screenOrder = []screen{screenDiscover, screenSearch, screenTrending, screenFavorites, screenThemes, screenLogs}

func (s screen) String() string {
	switch s {
	case screenSearch:
		return "Search"
	case screenTrending:
		return "Trending"
	case screenFavorites:
		return "Favorites"
	case screenThemes:
		return "Themes"
	case screenLogs:
		return "Logs"
	default:
		return "Discover"
	}
}

func (s screen) isList() bool {
	return s != screenLogs
}

func nextScreen(s screen, dir int) screen {
	for i, candidate := range screenOrder {
		if candidate == s {
			n := len(screenOrder)
			return screenOrder[((i+dir)%n+n)%n]
		}
	}
	return screenDiscover
}

// listScreen is the per-tab listing state. The controller owns the items;
// the screen owns the cursor.
type listScreen struct {
	kind     screen
	ctrl     *catalog.Controller
	source   catalog.Source
	selected int
	started  bool
	dirty    bool // reload on next activation
}

func newListScreen(kind screen, source catalog.Source, initial catalog.Filter) *listScreen {
	return &listScreen{
		kind:   kind,
		ctrl:   catalog.New(source, initial),
		source: source,
	}
}

// rowCount is the number of selectable rows, including the load-more row.
func (ls *listScreen) rowCount(snap catalog.Snapshot) int {
	n := len(snap.Items)
	if hasFooterRow(snap) {
		n++
	}
	return n
}

func hasFooterRow(snap catalog.Snapshot) bool {
	return len(snap.Items) > 0 && (snap.HasMore || snap.LoadingMore || snap.ErrKind == catalog.AppendFailed)
}

func (ls *listScreen) clamp(snap catalog.Snapshot) {
	rows := ls.rowCount(snap)
	if ls.selected >= rows {
		ls.selected = rows - 1
	}
	if ls.selected < 0 {
		ls.selected = 0
	}
}

// selectedItem returns the item under the cursor, or false on the load-more row.
func (ls *listScreen) selectedItem(snap catalog.Snapshot) (tmdb.Item, bool) {
	if ls.selected < 0 || ls.selected >= len(snap.Items) {
		return tmdb.Item{}, false
	}
	return snap.Items[ls.selected], true
}

// Filter mutations. Each returns a new filter; the controller decides whether
// it differs enough to refetch.

func cycleGenre(f catalog.Filter, genres []tmdb.Genre, dir int) catalog.Filter {
	out := f.Clone()
	if len(genres) == 0 {
		out.GenreID = nil
		return out
	}
	idx := -1 // -1 is "all genres"
	if f.GenreID != nil {
		for i, g := range genres {
			if g.ID == *f.GenreID {
				idx = i
				break
			}
		}
	}
	n := len(genres) + 1
	idx = ((idx+1+dir)%n+n)%n - 1
	if idx < 0 {
		out.GenreID = nil
	} else {
		out.GenreID = catalog.Int(genres[idx].ID)
	}
	return out
}

const minYear = 1900

func shiftYear(f catalog.Filter, delta int, now time.Time) catalog.Filter {
	out := f.Clone()
	maxYear := now.Year() + 2
	if out.Year == nil {
		out.Year = catalog.Int(now.Year())
		return out
	}
	year := *out.Year + delta
	switch {
	case year < minYear:
		year = minYear
	case year > maxYear:
		out.Year = nil
		return out
	}
	out.Year = catalog.Int(year)
	return out
}

func shiftScore(f catalog.Filter, delta float64) catalog.Filter {
	out := f.Clone()
	score := 0.0
	if out.MinScore != nil {
		score = *out.MinScore
	}
	score += delta
	switch {
	case score <= 0:
		out.MinScore = nil
	case score > 9:
		out.MinScore = catalog.Float(9)
	default:
		out.MinScore = catalog.Float(score)
	}
	return out
}

func cycleSort(f catalog.Filter) catalog.Filter {
	out := f.Clone()
	fields := catalog.SortFields(out.Media)
	idx := -1
	for i, field := range fields {
		if field.Key == out.SortField {
			idx = i
			break
		}
	}
	out.SortField = fields[(idx+1)%len(fields)].Key
	return out
}

func toggleOrder(f catalog.Filter) catalog.Filter {
	out := f.Clone()
	if out.SortOrder == "" {
		out.SortOrder = catalog.Desc
	}
	out.SortOrder = out.SortOrder.Toggle()
	return out
}

// toggleMedia flips movie/tv. Genre ids differ per media type so the genre is
// cleared, and the date sort key is remapped.
func toggleMedia(f catalog.Filter) catalog.Filter {
	out := f.Clone()
	if out.Media == tmdb.MediaTV {
		out.Media = tmdb.MediaMovie
	} else {
		out.Media = tmdb.MediaTV
	}
	out.GenreID = nil
	switch out.SortField {
	case "primary_release_date":
		if out.Media == tmdb.MediaTV {
			out.SortField = "first_air_date"
		}
	case "first_air_date":
		if out.Media == tmdb.MediaMovie {
			out.SortField = "primary_release_date"
		}
	}
	return out
}

// cyclePreset steps through the theme presets, wrapping at both ends.
func cyclePreset(idx, dir, n int) int {
	if n == 0 {
		return 0
	}
	return ((idx+dir)%n + n) % n
}

func sortLabel(f catalog.Filter) string {
	for _, field := range catalog.SortFields(f.Media) {
		if field.Key == f.SortField {
			arrow := "↓"
			if f.SortOrder == catalog.Asc {
				arrow = "↑"
			}
			return field.Label + " " + arrow
		}
	}
	return "Default"
}

func genreName(genres []tmdb.Genre, id *int) string {
	if id == nil {
		return "All"
	}
	for _, g := range genres {
		if g.ID == *id {
			return g.Name
		}
	}
	return "#" + strconv.Itoa(*id)
}

func mediaLabel(m tmdb.MediaType) string {
	if m == tmdb.MediaTV {
		return "TV"
	}
	return "Movies"
}
