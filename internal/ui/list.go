package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/state"
)

const (
	yearWidth  = 4
	scoreWidth = 3
	markWidth  = 3
)

// renderList renders a listing screen: filter bar, rows, then the
// load-more footer row when there is one.
func (m Model) renderList(ls *listScreen, width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	snap := ls.ctrl.Snapshot()
	view := state.Build(snap, m.overlay.Statuses())

	lines := []string{bg.FillLine(m.renderFilterBar(ls.kind, view.Filter, styles, bg), width)}
	bodyHeight := height - 1

	switch {
	case len(view.Entries) == 0:
		lines = append(lines, m.renderEmpty(ls.kind, view, styles, bg, width)...)
	default:
		lines = append(lines, m.renderRows(ls, view, styles, bg, width, bodyHeight)...)
	}

	for len(lines) < height {
		lines = append(lines, bg.FillLine("", width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFilterBar(kind screen, f catalog.Filter, styles Styles, bg BgStyle) string {
	label := func(name, value string) string {
		return bg.Render(name, styles.FaintText) + bg.Space() + bg.Render(value, styles.Text)
	}
	parts := []string{label("Media", mediaLabel(f.Media))}

	switch kind {
	case screenDiscover:
		year := "Any"
		if f.Year != nil {
			year = fmt.Sprintf("%d", *f.Year)
		}
		score := "Any"
		if f.MinScore != nil {
			score = fmt.Sprintf("≥%.1f", *f.MinScore)
		}
		parts = append(parts,
			label("Genre", genreName(m.genres[f.Media], f.GenreID)),
			label("Year", year),
			label("Score", score),
			label("Sort", sortLabel(f)),
		)
	case screenSearch:
		query := f.Query
		if query == "" {
			query = "-"
		}
		parts = append(parts, label("Query", truncate(query, 40)))
	case screenTrending:
		parts = append(parts, label("Window", "week"))
	case screenThemes:
		if len(m.themes) > 0 {
			parts = append(parts, label("Theme", m.themes[m.themeIdx].Title))
		}
	}
	return bg.Space() + bg.Join(parts, "  ")
}

// renderEmpty covers the first-load, failed, and no-result states.
func (m Model) renderEmpty(kind screen, view state.View, styles Styles, bg BgStyle, width int) []string {
	var msg string
	style := styles.MutedText
	switch {
	case view.Loading:
		msg = m.spinner.View() + " Loading..."
		style = styles.AccentText
	case view.Err != nil && view.ErrKind == catalog.ResetFailed:
		return []string{
			bg.FillLine("", width),
			bg.FillLine(bg.Space()+bg.Render(truncate(errorSummary(view.Err), width-2), styles.DangerText), width),
			bg.FillLine(bg.Space()+bg.Render("r to retry", styles.FaintText), width),
		}
	case kind == screenSearch && view.Filter.Query == "":
		msg = "Press / to search"
	default:
		msg = "No results"
	}
	return []string{
		bg.FillLine("", width),
		bg.FillLine(bg.Space()+bg.Render(msg, style), width),
	}
}

func (m Model) renderRows(ls *listScreen, view state.View, styles Styles, bg BgStyle, width, height int) []string {
	rows := len(view.Entries)
	footer := hasFooterRow(ls.ctrl.Snapshot())
	if footer {
		rows++
	}

	// Keep the cursor inside the visible window
	start := 0
	if ls.selected >= height {
		start = ls.selected - height + 1
	}
	end := start + height
	if end > rows {
		end = rows
	}

	signedIn := m.session.Current().Active()
	titleWidth := width - markWidth - yearWidth - scoreWidth - 5
	if titleWidth < 8 {
		titleWidth = 8
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		selected := i == ls.selected
		if i == len(view.Entries) {
			lines = append(lines, m.renderFooterRow(view, styles, bg, width, selected))
			continue
		}
		e := view.Entries[i]
		if selected {
			lines = append(lines, bg.FillLine(m.renderSelectedRow(e, signedIn, titleWidth), width))
			continue
		}
		line := m.renderMarks(e, signedIn, bg) + bg.Space() +
			bg.Render(fit(e.Item.DisplayTitle(), titleWidth), styles.Text) + bg.Space() +
			bg.Render(fit(e.Item.Year(), yearWidth), styles.MutedText) + bg.Space() +
			bg.Render(formatScore(e.Item.VoteAverage), styles.ScoreStyle(e.Item.VoteAverage))
		lines = append(lines, bg.FillLine(line, width))
	}
	return lines
}

// renderMarks draws the favorite, watchlist and rated markers.
func (m Model) renderMarks(e state.Entry, signedIn bool, bg BgStyle) string {
	styles := m.theme.Styles()
	if !signedIn {
		return bg.Spaces(markWidth)
	}
	if !e.HasStatus {
		return bg.Render("·", styles.MarkStyle(markUnknown)) + bg.Spaces(markWidth-1)
	}
	mark := func(on bool, glyph, name string) string {
		if !on {
			return bg.Space()
		}
		return bg.Render(glyph, styles.MarkStyle(name))
	}
	return mark(e.Status.Favorite, "★", markFavorite) +
		mark(e.Status.Watchlist, "◆", markWatchlist) +
		mark(e.Status.Rated.Set, "✓", markRated)
}

func (m Model) renderSelectedRow(e state.Entry, signedIn bool, titleWidth int) string {
	sel := m.theme.Styles().Selected
	marks := strings.Repeat(" ", markWidth)
	if signedIn {
		switch {
		case !e.HasStatus:
			marks = padRight("·", markWidth)
		default:
			marks = ternary(e.Status.Favorite, "★", " ") +
				ternary(e.Status.Watchlist, "◆", " ") +
				ternary(e.Status.Rated.Set, "✓", " ")
		}
	}
	text := marks + " " + fit(e.Item.DisplayTitle(), titleWidth) + " " +
		fit(e.Item.Year(), yearWidth) + " " + formatScore(e.Item.VoteAverage)
	return sel.Render(text)
}

// renderFooterRow is the selectable last row: load more, loading, or retry.
func (m Model) renderFooterRow(view state.View, styles Styles, bg BgStyle, width int, selected bool) string {
	var text string
	style := styles.AccentText
	switch {
	case view.LoadingMore:
		text = m.spinner.View() + " Loading more..."
	case view.ErrKind == catalog.AppendFailed && view.Err != nil:
		text = "Load failed: " + errorSummary(view.Err) + " (m to retry)"
		style = styles.DangerText
	default:
		text = fmt.Sprintf("Load more (m) · %d of %s", len(view.Entries), formatCount(view.TotalResults))
	}
	text = truncate(text, width-2)
	if selected {
		return lipgloss.NewStyle().Width(width).Render(m.theme.Styles().Selected.Render(" " + padRight(text, width-1)))
	}
	return bg.FillLine(bg.Space()+bg.Render(text, style), width)
}
