package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/state"
)

// renderHeader renders the top bar: logo, tabs, account and activity.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("marquee", styles.Logo)}
	parts = append(parts, m.renderTabs(styles, bg, compact))
	parts = append(parts, m.renderAccount(styles, bg, compact))

	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
	}
	if m.anyLoading() {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText))
	}
	if ts := m.formatTimestamp(); ts != "" && !compact {
		parts = append(parts, bg.Render(ts, styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderTabs(styles Styles, bg BgStyle, compact bool) string {
	tabs := make([]string, 0, len(screenOrder))
	for i, s := range screenOrder {
		label := s.String()
		if compact {
			label = label[:1]
		}
		label = fmt.Sprintf("%d:%s", i+1, label)
		if s == m.current {
			tabs = append(tabs, bg.Render(label, styles.AccentText.Bold(true)))
			continue
		}
		tabs = append(tabs, bg.Render(label, styles.MutedText))
	}
	return bg.Join(tabs, " ")
}

func (m Model) renderAccount(styles Styles, bg BgStyle, compact bool) string {
	if !m.session.Current().Active() {
		return bg.Render("anonymous", styles.FaintText)
	}
	if !m.snapshot.HasAccount {
		return bg.Render("● signing in", styles.WarningText)
	}
	name := m.snapshot.Account.Username
	if name == "" {
		name = m.snapshot.Account.Name
	}
	limit := 24
	if compact {
		limit = 12
	}
	return bg.Render("●", styles.SuccessText) + bg.Space() + bg.Render(truncate(name, limit), styles.Text)
}

// formatTimestamp formats the last account refresh with a relative age.
func (m Model) formatTimestamp() string {
	last := m.snapshot.LastUpdated
	if last.IsZero() {
		return ""
	}
	return last.Format("15:04:05") + " (" + humanizeDuration(time.Since(last)) + ")"
}

// renderCommandBar renders the key hints for the current screen.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.search.Focused() {
		return styles.Header.Width(m.width).Render(m.search.View())
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.current == screenLogs:
		commands = []cmd{
			{"space", ternary(m.logFollow, "Pause", "Follow")},
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case m.showDetail:
		commands = []cmd{
			{"f", "Favorite"},
			{"w", "Watchlist"},
			{"j/k", "Scroll"},
			{"esc", "Back"},
			{"?", "More"},
		}
	case m.current == screenDiscover:
		commands = []cmd{
			{"[/]", "Genre"},
			{"y/Y", "Year"},
			{"-/+", "Score"},
			{"s", "Sort"},
			{"o", "Order"},
			{"t", "Media"},
			{"f", "Favorite"},
			{"m", "More"},
			{"?", "Help"},
		}
	case m.current == screenThemes:
		commands = []cmd{
			{"[/]", "Theme"},
			{"f", "Favorite"},
			{"w", "Watchlist"},
			{"m", "More"},
			{"r", "Reload"},
			{"?", "Help"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"t", "Media"},
			{"f", "Favorite"},
			{"w", "Watchlist"},
			{"m", "More"},
			{"r", "Reload"},
			{"?", "Help"},
		}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}

// renderFooter shows the flash message, or counts for the current list.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.flash != "" {
		style := styles.InfoText
		if m.flashErr {
			style = styles.DangerText
		}
		return styles.Footer.Width(m.width).Render(bg.Render(truncate(m.flash, m.width-2), style))
	}

	var parts []string
	if m.current.isList() {
		ls := m.lists[m.current]
		view := state.Build(ls.ctrl.Snapshot(), m.overlay.Statuses())
		parts = append(parts, bg.Render(fmt.Sprintf("%d/%s", len(view.Entries), formatCount(view.TotalResults)), styles.Text))
		if m.session.Current().Active() {
			favs, watch := view.Counts()
			parts = append(parts,
				bg.Render("★", m.markStyle(markFavorite))+bg.Space()+bg.Render(fmt.Sprintf("%d", favs), styles.MutedText),
				bg.Render("◆", m.markStyle(markWatchlist))+bg.Space()+bg.Render(fmt.Sprintf("%d", watch), styles.MutedText),
			)
		}
	}
	if hot := m.hotLine(); hot != "" && m.width >= LayoutWideWidth {
		parts = append(parts, bg.Render("Hot:", styles.FaintText)+bg.Space()+bg.Render(hot, styles.MutedText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) hotLine() string {
	if len(m.hot) == 0 {
		return ""
	}
	titles := make([]string, 0, len(m.hot))
	for _, item := range m.hot {
		titles = append(titles, truncate(item.DisplayTitle(), 24))
	}
	return strings.Join(titles, " · ")
}

func (m Model) markStyle(mark string) lipgloss.Style {
	return m.theme.Styles().MarkStyle(mark).Background(lipgloss.Color(m.theme.Surface))
}
