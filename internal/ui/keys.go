package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Logout     key.Binding

	// Screens
	Discover  key.Binding
	Search    key.Binding
	Trending  key.Binding
	Favorites key.Binding
	Themes    key.Binding
	Logs      key.Binding

	// List navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Open   key.Binding

	// List actions
	LoadMore        key.Binding
	Reload          key.Binding
	ToggleFavorite  key.Binding
	ToggleWatchlist key.Binding
	ToggleMedia     key.Binding
	FocusSearch     key.Binding

	// Filters
	NextGenre   key.Binding
	PrevGenre   key.Binding
	YearUp      key.Binding
	YearDown    key.Binding
	ScoreUp     key.Binding
	ScoreDown   key.Binding
	CycleSort   key.Binding
	ToggleOrder key.Binding
	ClearFilter key.Binding

	// Logs
	ToggleFollow key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle color theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next screen"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous screen"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close / back"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Sign out"),
		),

		Discover: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Discover"),
		),
		Search: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Search"),
		),
		Trending: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Trending"),
		),
		Favorites: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Favorites"),
		),
		Themes: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Themes"),
		),
		Logs: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "Logs"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Details / load more"),
		),

		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Load more"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload"),
		),
		ToggleFavorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle favorite"),
		),
		ToggleWatchlist: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Toggle watchlist"),
		),
		ToggleMedia: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Movies / TV"),
		),
		FocusSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Edit search"),
		),

		NextGenre: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Next genre"),
		),
		PrevGenre: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Previous genre"),
		),
		YearUp: key.NewBinding(
			key.WithKeys("Y"),
			key.WithHelp("Y", "Year +1"),
		),
		YearDown: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Year -1"),
		),
		ScoreUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Min score +1"),
		),
		ScoreDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Min score -1"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort"),
		),
		ToggleOrder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Asc / desc"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Clear filters"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Discover, k.Search, k.Trending, k.Favorites, k.Themes, k.Logs},
		{k.Up, k.Down, k.Top, k.Bottom, k.Open},
		{k.LoadMore, k.Reload, k.ToggleFavorite, k.ToggleWatchlist, k.ToggleMedia, k.FocusSearch},
		{k.PrevGenre, k.NextGenre, k.YearDown, k.YearUp, k.ScoreDown, k.ScoreUp, k.CycleSort, k.ToggleOrder, k.ClearFilter},
		{k.ToggleFollow},
		{k.CycleTheme, k.Logout, k.Help, k.Quit},
	}
}
