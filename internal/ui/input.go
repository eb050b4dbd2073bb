package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/overlay"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// The search box swallows keys while focused
	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m, m.activate(nextScreen(m.current, 1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m, m.activate(nextScreen(m.current, -1))

	case key.Matches(msg, m.keys.Discover):
		return m, m.activate(screenDiscover)
	case key.Matches(msg, m.keys.Search):
		return m, m.activate(screenSearch)
	case key.Matches(msg, m.keys.Trending):
		return m, m.activate(screenTrending)
	case key.Matches(msg, m.keys.Favorites):
		return m, m.activate(screenFavorites)
	case key.Matches(msg, m.keys.Themes):
		return m, m.activate(screenThemes)
	case key.Matches(msg, m.keys.Logs):
		return m, m.activate(screenLogs)

	case key.Matches(msg, m.keys.Logout):
		if m.logout == nil {
			return m, nil
		}
		if !m.session.Current().Active() {
			m.setFlash("Not signed in", false)
			return m, nil
		}
		m.setFlash("Signing out...", false)
		return m, logoutCmd(m.ctx, m.logout)
	}

	if m.current == screenLogs {
		return m.handleLogsKey(msg)
	}
	if m.showDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		ls := m.lists[screenSearch]
		f := ls.ctrl.Filter()
		f.Query = strings.TrimSpace(m.search.Value())
		m.current = screenSearch
		return m, m.applyFilter(ls, f)
	case tea.KeyEsc:
		m.search.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ls := m.lists[m.current]
	snap := ls.ctrl.Snapshot()

	switch {
	case key.Matches(msg, m.keys.Up):
		ls.selected--
		ls.clamp(snap)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		ls.selected++
		ls.clamp(snap)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		ls.selected = 0
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		ls.selected = ls.rowCount(snap) - 1
		ls.clamp(snap)
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if item, ok := ls.selectedItem(snap); ok {
			m.showDetail = true
			cmd := m.openDetail(item)
			m.refreshDetail()
			m.detailViewport.GotoTop()
			return m, cmd
		}
		if hasFooterRow(snap) {
			return m, m.loadMore(ls)
		}
		return m, nil

	case key.Matches(msg, m.keys.LoadMore):
		return m, m.loadMore(ls)

	case key.Matches(msg, m.keys.Reload):
		return m, m.reload(ls)

	case key.Matches(msg, m.keys.ToggleFavorite):
		return m, m.toggleSelected(ls, overlay.Favorite)
	case key.Matches(msg, m.keys.ToggleWatchlist):
		return m, m.toggleSelected(ls, overlay.Watchlist)

	case key.Matches(msg, m.keys.ToggleMedia):
		if m.current == screenThemes {
			return m, nil
		}
		return m, m.applyFilter(ls, toggleMedia(ls.ctrl.Filter()))

	case key.Matches(msg, m.keys.FocusSearch):
		m.current = screenSearch
		m.search.SetValue(m.lists[screenSearch].ctrl.Filter().Query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	}

	switch m.current {
	case screenDiscover:
		return m.handleFilterKey(msg, ls)
	case screenThemes:
		return m.handleThemeKey(msg, ls)
	}
	return m, nil
}

// handleThemeKey steps through the theme presets with the genre keys.
func (m Model) handleThemeKey(msg tea.KeyMsg, ls *listScreen) (tea.Model, tea.Cmd) {
	dir := 0
	switch {
	case key.Matches(msg, m.keys.NextGenre):
		dir = 1
	case key.Matches(msg, m.keys.PrevGenre):
		dir = -1
	default:
		return m, nil
	}
	m.themeIdx = cyclePreset(m.themeIdx, dir, len(m.themes))
	return m, m.applyFilter(ls, m.themes[m.themeIdx].Filter(m.config.Region))
}

// handleFilterKey applies the discover filter bindings.
func (m Model) handleFilterKey(msg tea.KeyMsg, ls *listScreen) (tea.Model, tea.Cmd) {
	f := ls.ctrl.Filter()
	genres := m.genres[f.Media]

	switch {
	case key.Matches(msg, m.keys.NextGenre):
		f = cycleGenre(f, genres, 1)
	case key.Matches(msg, m.keys.PrevGenre):
		f = cycleGenre(f, genres, -1)
	case key.Matches(msg, m.keys.YearUp):
		f = shiftYear(f, 1, time.Now())
	case key.Matches(msg, m.keys.YearDown):
		f = shiftYear(f, -1, time.Now())
	case key.Matches(msg, m.keys.ScoreUp):
		f = shiftScore(f, 0.5)
	case key.Matches(msg, m.keys.ScoreDown):
		f = shiftScore(f, -0.5)
	case key.Matches(msg, m.keys.CycleSort):
		f = cycleSort(f)
	case key.Matches(msg, m.keys.ToggleOrder):
		f = toggleOrder(f)
	case key.Matches(msg, m.keys.ClearFilter):
		f.GenreID = nil
		f.Year = nil
		f.MinScore = nil
	default:
		return m, nil
	}
	return m, m.applyFilter(ls, f)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ls := m.lists[m.current]
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Open):
		m.showDetail = false
		return m, nil
	case key.Matches(msg, m.keys.ToggleFavorite):
		return m, m.toggleSelected(ls, overlay.Favorite)
	case key.Matches(msg, m.keys.ToggleWatchlist):
		return m, m.toggleSelected(ls, overlay.Watchlist)
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logViewport.GotoBottom()
			return m, readLogsCmd(m.config.LogFile)
		}
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		return m, m.activate(screenDiscover)
	case key.Matches(msg, m.keys.Top):
		m.logFollow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.logFollow = false
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// toggleSelected flips field on the item under the cursor. Without a session
// nothing is sent.
func (m *Model) toggleSelected(ls *listScreen, field overlay.Field) tea.Cmd {
	item, ok := ls.selectedItem(ls.ctrl.Snapshot())
	if !ok {
		return nil
	}
	if !m.session.Current().Active() {
		m.setFlash("Sign in to change your "+fieldLabel(field), true)
		return nil
	}
	m.setFlash("Updating "+fieldLabel(field)+"...", false)
	return toggleCmd(m.ctx, m.overlay, item, field)
}

func fieldLabel(f overlay.Field) string {
	if f == overlay.Favorite {
		return "favorites"
	}
	return "watchlist"
}
