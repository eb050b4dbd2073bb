package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/overlay"
	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/tmdb"
)

// fakeAPI serves canned pages and records personalization traffic.
type fakeAPI struct {
	mu        sync.Mutex
	discover  map[int]tmdb.Page
	favorites tmdb.Page
	states    map[int64]tmdb.AccountStates
	favCalls  int
	writes    int

	detailCalls int
	failDetails bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		discover: map[int]tmdb.Page{},
		states:   map[int64]tmdb.AccountStates{},
	}
}

func (f *fakeAPI) Discover(_ context.Context, _ tmdb.MediaType, params tmdb.Params) (tmdb.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	page, _ := params["page"].(int)
	return f.discover[page], nil
}

func (f *fakeAPI) Search(context.Context, tmdb.MediaType, string, int) (tmdb.Page, error) {
	return tmdb.Page{}, nil
}

func (f *fakeAPI) Trending(context.Context, tmdb.MediaType, string, int) (tmdb.Page, error) {
	return tmdb.Page{}, nil
}

func (f *fakeAPI) Popular(context.Context, tmdb.MediaType, int) (tmdb.Page, error) {
	return tmdb.Page{}, nil
}

func (f *fakeAPI) FavoriteList(context.Context, int64, tmdb.MediaType, int) (tmdb.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favCalls++
	return f.favorites, nil
}

func (f *fakeAPI) Genres(context.Context, tmdb.MediaType) ([]tmdb.Genre, error) {
	return testGenres, nil
}

func (f *fakeAPI) ImageURL(path, size string) string {
	return "https://img.test/" + size + path
}

func (f *fakeAPI) AccountStates(_ context.Context, _ tmdb.MediaType, id int64) (tmdb.AccountStates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.states[id]
	st.ID = id
	return st, nil
}

func (f *fakeAPI) MarkFavorite(_ context.Context, _ int64, req tmdb.FavoriteRequest) (tmdb.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	st := f.states[req.MediaID]
	st.Favorite = req.Favorite
	f.states[req.MediaID] = st
	return tmdb.Ack{Success: true}, nil
}

func (f *fakeAPI) MarkWatchlist(_ context.Context, _ int64, req tmdb.WatchlistRequest) (tmdb.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	st := f.states[req.MediaID]
	st.Watchlist = req.Watchlist
	f.states[req.MediaID] = st
	return tmdb.Ack{Success: true}, nil
}

func (f *fakeAPI) Details(_ context.Context, _ tmdb.MediaType, id int64) (tmdb.Details, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls++
	if f.failDetails {
		return tmdb.Details{}, &tmdb.HTTPStatusError{Status: 404, Path: "/movie"}
	}
	return tmdb.Details{ID: id, Title: "Movie", Runtime: 125, Tagline: "One night only"}, nil
}

func (f *fakeAPI) Credits(context.Context, tmdb.MediaType, int64) (tmdb.Credits, error) {
	return tmdb.Credits{
		Cast: []tmdb.CastMember{{Name: "Amy Adams", Character: "Louise"}},
		Crew: []tmdb.CrewMember{{Name: "Denis Villeneuve", Job: "Director"}},
	}, nil
}

func (f *fakeAPI) Videos(context.Context, tmdb.MediaType, int64) (tmdb.VideoList, error) {
	return tmdb.VideoList{Results: []tmdb.Video{{Key: "abc", Site: "YouTube", Type: "Trailer", Official: true}}}, nil
}

func (f *fakeAPI) Recommendations(_ context.Context, media tmdb.MediaType, _ int64, _ int) (tmdb.Page, error) {
	return tmdb.Page{Page: 1, Results: []tmdb.Item{{ID: 99, Title: "Dune", ReleaseDate: "2021-09-15", MediaType: media}}}, nil
}

func (f *fakeAPI) Reviews(context.Context, tmdb.MediaType, int64, int) (tmdb.ReviewPage, error) {
	return tmdb.ReviewPage{}, errors.New("reviews offline")
}

func (f *fakeAPI) WatchProviders(context.Context, tmdb.MediaType, int64) (tmdb.WatchProviders, error) {
	return tmdb.WatchProviders{Results: map[string]tmdb.RegionProviders{
		"TW": {Flatrate: []tmdb.Provider{{Name: "Netflix"}}},
	}}, nil
}

func movieItems(ids ...int64) []tmdb.Item {
	out := make([]tmdb.Item, len(ids))
	for i, id := range ids {
		out[i] = tmdb.Item{ID: id, Title: "Movie", MediaType: tmdb.MediaMovie}
	}
	return out
}

func newTestModel(t *testing.T, api *fakeAPI, sess session.Source) Model {
	t.Helper()
	m := New(Options{
		Client:    api,
		Overlay:   overlay.New(api, api, sess),
		Session:   sess,
		PrefsPath: t.TempDir() + "/prefs.toml",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// drain runs cmd and any batched commands, returning the produced messages.
// Ticks are skipped so the drain terminates.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	switch msg.(type) {
	case tickMsg, nil:
		return nil
	}
	return []tea.Msg{msg}
}

func pageMsgs(msgs []tea.Msg) []pageMsg {
	var out []pageMsg
	for _, msg := range msgs {
		if p, ok := msg.(pageMsg); ok {
			out = append(out, p)
		}
	}
	return out
}

func statusMsgs(msgs []tea.Msg) []statusMsg {
	var out []statusMsg
	for _, msg := range msgs {
		if s, ok := msg.(statusMsg); ok {
			out = append(out, s)
		}
	}
	return out
}

func TestPageMsg_StaleResultDiscarded(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), session.Static{})
	ls := m.lists[screenDiscover]

	stale := ls.ctrl.Reload()
	fresh := ls.ctrl.Reload()

	m, _ = update(t, m, pageMsg{screen: screenDiscover, req: stale, page: tmdb.Page{Page: 1, Results: movieItems(1), TotalResults: 1, TotalPages: 1}})
	if n := len(ls.ctrl.Snapshot().Items); n != 0 {
		t.Fatalf("stale page applied: %d items", n)
	}

	m, _ = update(t, m, pageMsg{screen: screenDiscover, req: fresh, page: tmdb.Page{Page: 1, Results: movieItems(2, 3), TotalResults: 2, TotalPages: 1}})
	if n := len(ls.ctrl.Snapshot().Items); n != 2 {
		t.Fatalf("fresh page items = %d, want 2", n)
	}
	if m.flash != "" {
		t.Fatalf("unexpected flash %q", m.flash)
	}
}

func TestPageMsg_ResolvesStatusesWhenSignedIn(t *testing.T) {
	api := newFakeAPI()
	api.states[2] = tmdb.AccountStates{Favorite: true}
	sess := session.Static{ID: "sess", AccountID: 7}
	m := newTestModel(t, api, sess)
	ls := m.lists[screenDiscover]

	req := ls.ctrl.Reload()
	m, cmd := update(t, m, pageMsg{screen: screenDiscover, req: req, page: tmdb.Page{Page: 1, Results: movieItems(1, 2), TotalResults: 2, TotalPages: 1}})

	statuses := statusMsgs(drain(cmd))
	if len(statuses) != 2 {
		t.Fatalf("status lookups = %d, want 2", len(statuses))
	}
	for _, s := range statuses {
		m, _ = update(t, m, s)
	}
	st, ok := m.overlay.Status(2)
	if !ok || !st.Favorite {
		t.Fatalf("status for 2 = %+v (%v), want favorite", st, ok)
	}
	if !strings.Contains(m.View(), "★") {
		t.Fatal("favorite marker not rendered")
	}
}

func TestPageMsg_AnonymousSkipsStatusLookups(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), session.Static{})
	req := m.lists[screenDiscover].ctrl.Reload()

	_, cmd := update(t, m, pageMsg{screen: screenDiscover, req: req, page: tmdb.Page{Page: 1, Results: movieItems(1), TotalPages: 1}})
	if got := statusMsgs(drain(cmd)); len(got) != 0 {
		t.Fatalf("anonymous page issued %d status lookups", len(got))
	}
}

func TestPageMsg_FavoritesWithoutSessionFlashes(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), session.Static{})
	req := m.lists[screenFavorites].ctrl.Reload()

	m, _ = update(t, m, pageMsg{screen: screenFavorites, req: req, err: session.ErrNoSession})
	if !m.flashErr || !strings.Contains(m.flash, "Sign in") {
		t.Fatalf("flash = %q (err=%v), want sign-in hint", m.flash, m.flashErr)
	}
}

func TestLoadMoreKeyFetchesNextPage(t *testing.T) {
	api := newFakeAPI()
	api.discover[2] = tmdb.Page{Page: 2, Results: movieItems(3, 4), TotalResults: 4, TotalPages: 2}
	m := newTestModel(t, api, session.Static{})
	ls := m.lists[screenDiscover]

	req := ls.ctrl.Reload()
	m, _ = update(t, m, pageMsg{screen: screenDiscover, req: req, page: tmdb.Page{Page: 1, Results: movieItems(1, 2), TotalResults: 4, TotalPages: 2}})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	pages := pageMsgs(drain(cmd))
	if len(pages) != 1 || pages[0].req.Page != 2 {
		t.Fatalf("load more produced %+v, want one page-2 fetch", pages)
	}
	m, _ = update(t, m, pages[0])

	snap := ls.ctrl.Snapshot()
	if len(snap.Items) != 4 || snap.HasMore {
		t.Fatalf("after load more: %d items, HasMore=%v", len(snap.Items), snap.HasMore)
	}
}

func TestToggleWithoutSessionDoesNotWrite(t *testing.T) {
	api := newFakeAPI()
	m := newTestModel(t, api, session.Static{})
	ls := m.lists[screenDiscover]
	req := ls.ctrl.Reload()
	m, _ = update(t, m, pageMsg{screen: screenDiscover, req: req, page: tmdb.Page{Page: 1, Results: movieItems(1), TotalPages: 1}})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if cmd != nil {
		drain(cmd)
	}
	if api.writes != 0 {
		t.Fatalf("writes = %d, want none without a session", api.writes)
	}
	if !m.flashErr {
		t.Fatalf("flash = %q, want an error hint", m.flash)
	}
}

func TestToggleFavoriteMarksFavoritesDirty(t *testing.T) {
	api := newFakeAPI()
	sess := session.Static{ID: "sess", AccountID: 7}
	m := newTestModel(t, api, sess)
	m.lists[screenFavorites].started = true

	item := movieItems(5)[0]
	msgs := drain(toggleCmd(context.Background(), m.overlay, item, overlay.Favorite))
	if len(msgs) != 1 {
		t.Fatalf("toggle produced %d messages", len(msgs))
	}
	m, _ = update(t, m, msgs[0])

	if api.writes != 1 {
		t.Fatalf("writes = %d, want 1", api.writes)
	}
	if st, ok := m.overlay.Status(5); !ok || !st.Favorite {
		t.Fatalf("status = %+v, want favorite", st)
	}
	if !m.lists[screenFavorites].dirty {
		t.Fatal("favorites list should reload on next visit")
	}

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	if pages := pageMsgs(drain(cmd)); len(pages) != 1 {
		t.Fatalf("activating favorites fetched %d pages, want 1", len(pages))
	}
	if api.favCalls != 1 {
		t.Fatalf("FavoriteList calls = %d, want 1", api.favCalls)
	}
}

func TestToggleErrorFlashes(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), session.Static{})
	item := movieItems(1)[0]

	m, _ = update(t, m, toggleMsg{item: item, field: overlay.Watchlist, err: errors.New("boom")})
	if !m.flashErr || !strings.Contains(m.flash, "watchlist") {
		t.Fatalf("flash = %q, want watchlist failure", m.flash)
	}

	m.flash = ""
	m, _ = update(t, m, toggleMsg{item: item, field: overlay.Favorite, err: overlay.ErrToggleInFlight})
	if m.flash != "" {
		t.Fatalf("in-flight toggle should be silent, got %q", m.flash)
	}
}

func TestSearchSubmitAppliesQuery(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), session.Static{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.search.Focused() {
		t.Fatal("search input should be focused")
	}
	for _, r := range "dune" {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.search.Focused() {
		t.Fatal("enter should blur the search input")
	}
	if got := m.lists[screenSearch].ctrl.Filter().Query; got != "dune" {
		t.Fatalf("query = %q, want dune", got)
	}
	if pages := pageMsgs(drain(cmd)); len(pages) != 1 || pages[0].req.Filter.Query != "dune" {
		t.Fatalf("search fetch = %+v", pages)
	}
}

func TestDiscoverFilterKeysRefetch(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), session.Static{})
	m.genres[tmdb.MediaMovie] = testGenres
	m.lists[screenDiscover].ctrl.Reload()

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	pages := pageMsgs(drain(cmd))
	if len(pages) != 1 {
		t.Fatalf("genre change fetched %d pages, want 1", len(pages))
	}
	if g := pages[0].req.Filter.GenreID; g == nil || *g != 28 {
		t.Fatalf("genre = %v, want 28", g)
	}
	if got := m.lists[screenDiscover].ctrl.Filter().GenreID; got == nil || *got != 28 {
		t.Fatalf("controller genre = %v", got)
	}
}

func TestThemesScreenCyclesPresets(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), session.Static{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5")})
	if m.current != screenThemes {
		t.Fatalf("current = %v, want Themes", m.current)
	}
	pages := pageMsgs(drain(cmd))
	if len(pages) != 1 || pages[0].screen != screenThemes {
		t.Fatalf("activating themes fetched %+v, want one themes page", pages)
	}
	first := pages[0].req.Filter
	if first.OriginalLanguage == nil || *first.OriginalLanguage != "ja" || first.Region != catalog.DefaultThemeRegion {
		t.Fatalf("first theme filter = %+v, want ja in %s", first, catalog.DefaultThemeRegion)
	}
	m, _ = update(t, m, pages[0])

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	pages = pageMsgs(drain(cmd))
	if len(pages) != 1 {
		t.Fatalf("next theme fetched %d pages, want 1", len(pages))
	}
	want := catalog.Themes()[1]
	if got := pages[0].req.Filter; got.Media != want.Media || !got.Equal(want.Filter("")) {
		t.Fatalf("next theme filter = %+v, want %s", got, want.Slug)
	}
	if !strings.Contains(m.View(), want.Title) {
		t.Fatalf("filter bar should name the theme %q", want.Title)
	}

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if cmd != nil || !m.lists[screenThemes].ctrl.Filter().Equal(want.Filter("")) {
		t.Fatalf("media toggle should not change a theme listing")
	}
}

func TestSnapshotSessionChangeReloadsFavorites(t *testing.T) {
	api := newFakeAPI()
	m := newTestModel(t, api, session.Static{ID: "sess", AccountID: 7})
	fav := m.lists[screenFavorites]
	fav.started = true
	m.current = screenFavorites

	m, cmd := update(t, m, snapshotMsg{SessionVersion: 2})
	if m.sessionVersion != 2 {
		t.Fatalf("sessionVersion = %d, want 2", m.sessionVersion)
	}
	if pages := pageMsgs(drain(cmd)); len(pages) != 1 || pages[0].screen != screenFavorites {
		t.Fatalf("session change fetched %+v, want one favorites page", pages)
	}

	_, cmd = update(t, m, snapshotMsg{SessionVersion: 2})
	if pages := pageMsgs(drain(cmd)); len(pages) != 0 {
		t.Fatalf("unchanged session refetched %d pages", len(pages))
	}
}

func TestViewRendersStates(t *testing.T) {
	m := newTestModel(t, newFakeAPI(), session.Static{})
	ls := m.lists[screenDiscover]

	ls.ctrl.Reload()
	if !strings.Contains(m.View(), "Loading") {
		t.Fatal("loading state not rendered")
	}

	req := ls.ctrl.Reload()
	m, _ = update(t, m, pageMsg{screen: screenDiscover, req: req, err: errors.New("offline")})
	if view := m.View(); !strings.Contains(view, "r to retry") {
		t.Fatalf("reset failure should offer retry:\n%s", view)
	}

	req = ls.ctrl.Reload()
	m, _ = update(t, m, pageMsg{screen: screenDiscover, req: req, page: tmdb.Page{Page: 1}})
	if !strings.Contains(m.View(), "No results") {
		t.Fatal("empty state not rendered")
	}
}

func detailMsgs(msgs []tea.Msg) []detailMsg {
	var out []detailMsg
	for _, msg := range msgs {
		if d, ok := msg.(detailMsg); ok {
			out = append(out, d)
		}
	}
	return out
}

func TestOpenDetailLoadsBundleOnce(t *testing.T) {
	api := newFakeAPI()
	m := newTestModel(t, api, session.Static{})
	ls := m.lists[screenDiscover]
	req := ls.ctrl.Reload()
	m, _ = update(t, m, pageMsg{screen: screenDiscover, req: req, page: tmdb.Page{Page: 1, Results: movieItems(1), TotalPages: 1, TotalResults: 1}})
	item := movieItems(1)[0]

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.showDetail {
		t.Fatal("enter should open the detail view")
	}
	if !strings.Contains(m.detailContent(item, 100), "Loading details") {
		t.Fatal("detail view should show loading while the bundle is fetched")
	}
	loaded := detailMsgs(drain(cmd))
	if len(loaded) != 1 || loaded[0].err != nil {
		t.Fatalf("detail loads = %+v, want one successful load", loaded)
	}
	m, _ = update(t, m, loaded[0])

	content := m.detailContent(item, 100)
	for _, want := range []string{
		"2h 05m",
		"Denis Villeneuve",
		"https://www.youtube.com/watch?v=abc",
		"Where to watch (TW)",
		"Netflix",
		"Amy Adams as Louise",
		"Dune (2021)",
		"Unavailable: reviews",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("detail content missing %q:\n%s", want, content)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := detailMsgs(drain(cmd)); len(got) != 0 {
		t.Fatalf("reopening a loaded title fetched again: %+v", got)
	}
	if api.detailCalls != 1 {
		t.Fatalf("detail calls = %d, want 1", api.detailCalls)
	}
}

func TestOpenDetailRetriesAfterFailure(t *testing.T) {
	api := newFakeAPI()
	api.failDetails = true
	m := newTestModel(t, api, session.Static{})
	ls := m.lists[screenDiscover]
	req := ls.ctrl.Reload()
	m, _ = update(t, m, pageMsg{screen: screenDiscover, req: req, page: tmdb.Page{Page: 1, Results: movieItems(1), TotalPages: 1, TotalResults: 1}})
	item := movieItems(1)[0]

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	loaded := detailMsgs(drain(cmd))
	if len(loaded) != 1 || loaded[0].err == nil {
		t.Fatalf("detail loads = %+v, want one failure", loaded)
	}
	m, _ = update(t, m, loaded[0])
	if !strings.Contains(m.detailContent(item, 100), "Details unavailable") {
		t.Fatal("failed load should be shown in the detail view")
	}

	api.failDetails = false
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := detailMsgs(drain(cmd)); len(got) != 1 || got[0].err != nil {
		t.Fatalf("reopen after failure = %+v, want one successful load", got)
	}
}

var _ catalog.Lister = (*fakeAPI)(nil)
var _ API = (*fakeAPI)(nil)
