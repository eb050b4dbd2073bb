package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

var helpSections = []helpSection{
	{
		title: "Screens",
		items: []helpItem{
			{"1-6", "Discover/Search/Trending/Favorites/Themes/Logs"},
			{"tab", "Next screen"},
			{"j/k", "Move up/down"},
			{"g/G", "Go to top/bottom"},
			{"enter", "Details or load more"},
		},
	},
	{
		title: "Lists",
		items: []helpItem{
			{"m", "Load next page"},
			{"r", "Reload"},
			{"t", "Movies/TV"},
			{"/", "Search"},
			{"f", "Toggle favorite"},
			{"w", "Toggle watchlist"},
		},
	},
	{
		title: "Discover filters",
		items: []helpItem{
			{"[/]", "Previous/next genre"},
			{"y/Y", "Year down/up"},
			{"-/+", "Minimum score"},
			{"s/o", "Sort field/order"},
			{"x", "Clear filters"},
		},
	},
	{
		title: "Themes",
		items: []helpItem{
			{"[/]", "Previous/next theme"},
		},
	},
	{
		title: "General",
		items: []helpItem{
			{"space", "Follow logs"},
			{"L", "Sign out"},
			{"T", "Cycle color theme"},
			{"?", "Toggle help"},
			{"q/ctrl+c", "Quit"},
		},
	},
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	for i, section := range helpSections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(helpSections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(56)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
