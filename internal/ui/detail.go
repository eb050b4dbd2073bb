package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/detail"
	"github.com/five82/marquee/internal/tmdb"
)

// posterSize is the image size requested for poster links.
const posterSize = "w500"

// Caps on the lists shown in the full detail view.
const (
	castLimit           = 8
	reviewLimit         = 3
	reviewWidth         = 280
	recommendationLimit = 8
)

// detailEntry is the cached detail bundle for one title.
type detailEntry struct {
	bundle  detail.Bundle
	err     error
	loading bool
}

// openDetail starts loading the detail bundle for item unless it is cached
// or already loading. A failed load is retried on the next open.
func (m *Model) openDetail(item tmdb.Item) tea.Cmd {
	if m.api == nil || !item.MediaType.Valid() || item.ID <= 0 {
		return nil
	}
	key := detail.KeyOf(item)
	if e, ok := m.details[key]; ok && (e.loading || e.err == nil) {
		return nil
	}
	m.details[key] = detailEntry{loading: true}
	return loadDetailCmd(m.ctx, m.api, item, detail.Options{Region: m.config.Region, Logger: m.logger})
}

// renderDetailPane renders the side pane for the item under the cursor.
func (m Model) renderDetailPane(ls *listScreen, width, height int) string {
	box := lipgloss.NewStyle().
		Width(width-2).
		Height(height-2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderMuted)).
		Background(lipgloss.Color(m.theme.Background))

	item, ok := ls.selectedItem(ls.ctrl.Snapshot())
	if !ok {
		hint := m.theme.Styles().FaintText.Render("Select a title")
		return box.Render(hint)
	}

	lines := strings.Split(m.detailContent(item, width-4), "\n")
	if len(lines) > height-2 {
		lines = lines[:height-2]
	}
	return box.Render(strings.Join(lines, "\n"))
}

// renderDetailFull renders the scrollable full-screen detail view.
func (m Model) renderDetailFull(height int) string {
	vp := m.detailViewport
	vp.Height = height - 2
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Render(vp.View())
}

// refreshDetail reloads the full-screen detail content after the cursor or
// the item status changed.
func (m *Model) refreshDetail() {
	if !m.showDetail || !m.current.isList() || m.detailViewport.Width == 0 {
		return
	}
	ls := m.lists[m.current]
	item, ok := ls.selectedItem(ls.ctrl.Snapshot())
	if !ok {
		m.showDetail = false
		return
	}
	m.detailViewport.SetContent(m.detailContent(item, m.detailViewport.Width))
}

func (m Model) detailContent(item tmdb.Item, width int) string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(truncate(item.DisplayTitle(), width)))
	b.WriteString("\n")
	if orig := originalTitle(item); orig != "" && orig != item.DisplayTitle() {
		b.WriteString(styles.MutedText.Render(truncate(orig, width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	row := func(label, value string, style lipgloss.Style) {
		if value == "" {
			return
		}
		b.WriteString(styles.FaintText.Render(padRight(label, 10)))
		b.WriteString(style.Render(truncate(value, width-10)))
		b.WriteString("\n")
	}

	row("Type", mediaLabel(item.MediaType), styles.Text)
	row("Year", item.Year(), styles.Text)
	row("Score", fmt.Sprintf("%s (%s votes)", formatScore(item.VoteAverage), formatCount(item.VoteCount)), styles.ScoreStyle(item.VoteAverage))
	row("Genres", m.genreNames(item), styles.Text)
	row("Language", item.OriginalLanguage, styles.Text)
	row("Status", m.statusLine(item), styles.AccentText)
	if item.PosterPath != "" && m.api != nil {
		row("Poster", m.api.ImageURL(item.PosterPath, posterSize), styles.InfoText)
	}

	if overview := strings.TrimSpace(item.Overview); overview != "" {
		b.WriteString("\n")
		b.WriteString(styles.Text.Width(width).Render(overview))
		b.WriteString("\n")
	}
	m.writeDetailSections(&b, item, width, row)
	return b.String()
}

func (m Model) writeDetailSections(b *strings.Builder, item tmdb.Item, width int, row func(label, value string, style lipgloss.Style)) {
	entry, ok := m.details[detail.KeyOf(item)]
	if !ok {
		return
	}
	styles := m.theme.Styles()
	line := func(value string, style lipgloss.Style) {
		b.WriteString(style.Render(truncate(value, width)))
		b.WriteString("\n")
	}
	heading := func(title string) {
		b.WriteString("\n")
		line(title, styles.AccentText.Bold(true))
	}

	switch {
	case entry.loading:
		b.WriteString("\n")
		line("Loading details...", styles.FaintText)
		return
	case entry.err != nil:
		b.WriteString("\n")
		line("Details unavailable: "+entry.err.Error(), styles.DangerText)
		return
	}

	bundle := entry.bundle
	d := bundle.Details
	heading("Details")
	row("Tagline", d.Tagline, styles.MutedText)
	row("Runtime", formatRuntime(d.RuntimeMinutes()), styles.Text)
	row("Director", bundle.Director, styles.Text)
	if n := len(d.Seasons); n > 0 {
		row("Seasons", fmt.Sprintf("%d", n), styles.Text)
	}
	if bundle.Trailer != nil {
		row("Trailer", bundle.Trailer.URL(), styles.InfoText)
	}
	row("Homepage", d.Homepage, styles.InfoText)

	heading("Where to watch (" + bundle.Region + ")")
	if !bundle.HasProviders {
		line("Not available", styles.FaintText)
	} else {
		p := bundle.Providers
		row("Stream", providerNames(p.Flatrate), styles.SuccessText)
		row("With ads", providerNames(p.Ads), styles.Text)
		row("Rent", providerNames(p.Rent), styles.Text)
		row("Buy", providerNames(p.Buy), styles.Text)
	}

	if len(bundle.Cast) > 0 {
		heading("Cast")
		for _, c := range bundle.Cast[:min(len(bundle.Cast), castLimit)] {
			name := c.Name
			if c.Character != "" {
				name += " as " + c.Character
			}
			line(name, styles.Text)
		}
	}

	if len(bundle.Reviews) > 0 {
		heading("Reviews")
		for _, r := range bundle.Reviews[:min(len(bundle.Reviews), reviewLimit)] {
			author := r.Author
			if rating := r.AuthorDetails.Rating; rating != nil {
				author += fmt.Sprintf("  ★ %.1f", *rating)
			}
			line(author, styles.InfoText)
			body := truncate(strings.Join(strings.Fields(r.Content), " "), reviewWidth)
			b.WriteString(styles.MutedText.Width(width).Render(body))
			b.WriteString("\n")
		}
	}

	if len(bundle.Recommendations) > 0 {
		heading("Recommended")
		for _, rec := range bundle.Recommendations[:min(len(bundle.Recommendations), recommendationLimit)] {
			title := rec.DisplayTitle()
			if y := rec.Year(); y != "" {
				title += " (" + y + ")"
			}
			line(title, styles.Text)
		}
	}

	if len(bundle.Missing) > 0 {
		b.WriteString("\n")
		line("Unavailable: "+strings.Join(bundle.Missing, ", "), styles.FaintText)
	}
}

func providerNames(ps []tmdb.Provider) string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

func formatRuntime(minutes int) string {
	switch {
	case minutes <= 0:
		return ""
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	default:
		return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
	}
}

func originalTitle(item tmdb.Item) string {
	if item.OriginalTitle != "" {
		return item.OriginalTitle
	}
	return item.OriginalName
}

func (m Model) genreNames(item tmdb.Item) string {
	if len(item.GenreIDs) == 0 {
		return ""
	}
	known := m.genres[item.MediaType]
	names := make([]string, 0, len(item.GenreIDs))
	for _, id := range item.GenreIDs {
		names = append(names, genreName(known, &id))
	}
	return strings.Join(names, ", ")
}

// statusLine summarizes the personalization flags for one item.
func (m Model) statusLine(item tmdb.Item) string {
	if !m.session.Current().Active() {
		return "sign in to track"
	}
	st, ok := m.overlay.Status(item.ID)
	if !ok {
		return "loading..."
	}
	var flags []string
	if st.Favorite {
		flags = append(flags, "★ favorite")
	}
	if st.Watchlist {
		flags = append(flags, "◆ watchlist")
	}
	if st.Rated.Set {
		flags = append(flags, fmt.Sprintf("✓ rated %.1f", st.Rated.Value))
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, "  ")
}
