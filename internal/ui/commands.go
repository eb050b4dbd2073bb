package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/detail"
	"github.com/five82/marquee/internal/logtail"
	"github.com/five82/marquee/internal/overlay"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// pageMsg carries one fetched page back to the screen that asked for it.
type pageMsg struct {
	screen screen
	req    catalog.Request
	page   tmdb.Page
	err    error
}

type statusMsg struct {
	status overlay.Status
	err    error
}

type toggleMsg struct {
	item   tmdb.Item
	field  overlay.Field
	status overlay.Status
	err    error
}

// detailMsg carries a loaded detail bundle for one title.
type detailMsg struct {
	key    detail.Key
	bundle detail.Bundle
	err    error
}

type genresMsg struct {
	media  tmdb.MediaType
	genres []tmdb.Genre
	err    error
}

type hotMsg struct {
	items []tmdb.Item
	err   error
}

type logsMsg struct {
	lines []string
	err   error
}

type logoutMsg struct {
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchPageCmd(ctx context.Context, s screen, source catalog.Source, req catalog.Request) tea.Cmd {
	return func() tea.Msg {
		page, err := source(ctx, req.Filter, req.Page)
		return pageMsg{screen: s, req: req, page: page, err: err}
	}
}

func lookupStatusCmd(ctx context.Context, ov *overlay.Overlay, item tmdb.Item) tea.Cmd {
	return func() tea.Msg {
		st, err := ov.Lookup(ctx, item)
		return statusMsg{status: st, err: err}
	}
}

func toggleCmd(ctx context.Context, ov *overlay.Overlay, item tmdb.Item, field overlay.Field) tea.Cmd {
	return func() tea.Msg {
		st, err := ov.Toggle(ctx, item, field)
		return toggleMsg{item: item, field: field, status: st, err: err}
	}
}

func loadDetailCmd(ctx context.Context, api detail.API, item tmdb.Item, opts detail.Options) tea.Cmd {
	return func() tea.Msg {
		b, err := detail.Load(ctx, api, item.MediaType, item.ID, opts)
		return detailMsg{key: detail.KeyOf(item), bundle: b, err: err}
	}
}

func fetchGenresCmd(ctx context.Context, api API, media tmdb.MediaType) tea.Cmd {
	return func() tea.Msg {
		genres, err := api.Genres(ctx, media)
		return genresMsg{media: media, genres: genres, err: err}
	}
}

func fetchHotCmd(ctx context.Context, api API) tea.Cmd {
	return func() tea.Msg {
		items, err := catalog.Hot(ctx, api, HotListSize)
		return hotMsg{items: items, err: err}
	}
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logsMsg{lines: lines, err: err}
	}
}

func logoutCmd(ctx context.Context, logout func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return logoutMsg{err: logout(ctx)}
	}
}
