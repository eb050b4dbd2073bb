package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/logtail"
)

// renderLogs renders the in-app log tail.
func (m Model) renderLogs(height int) string {
	styles := m.theme.Styles()

	title := styles.AccentText.Bold(true).Render("Log") + " " +
		styles.FaintText.Render(truncateMiddle(m.config.LogFile, 60))
	if m.logFollow {
		title += " " + styles.SuccessText.Render("following")
	}

	vp := m.logViewport
	vp.Height = height - 3
	if vp.Height < 1 {
		vp.Height = 1
	}

	body := vp.View()
	if len(m.logLines) == 0 {
		body = styles.FaintText.Render("No log output yet")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(m.width - 2).
		Render(body)
	return title + "\n" + box
}

// updateLogViewport re-renders the log lines into the viewport.
func (m *Model) updateLogViewport() {
	if m.logViewport.Width == 0 {
		return
	}
	m.logViewport.SetContent(m.renderLogContent())
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	var b strings.Builder
	for i, line := range m.logLines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.formatLogLine(line, styles))
	}
	return b.String()
}

// formatLogLine colors a slog text line by level, keeping the time and
// attributes muted.
func (m Model) formatLogLine(line string, styles Styles) string {
	level := logtail.Level(line)
	msg := logtail.Message(line)
	if level == "" || msg == "" {
		return styles.MutedText.Render(truncate(line, m.logViewport.Width))
	}

	levelStyle := styles.InfoText
	switch level {
	case "ERROR":
		levelStyle = styles.DangerText
	case "WARN":
		levelStyle = styles.WarningText
	case "DEBUG":
		levelStyle = styles.FaintText
	}

	text := fmt.Sprintf("%-5s %s", level, msg)
	if attrs := logAttrs(line); attrs != "" {
		text += " " + attrs
	}
	text = truncate(text, m.logViewport.Width)
	head := len(level)
	if head > len(text) {
		head = len(text)
	}
	return levelStyle.Render(text[:head]) + styles.Text.Render(text[head:])
}

// logAttrs returns everything after the msg field of a slog text line.
func logAttrs(line string) string {
	_, rest, ok := strings.Cut(line, "msg=")
	if !ok {
		return ""
	}
	if strings.HasPrefix(rest, `"`) {
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			return ""
		}
		rest = rest[end+2:]
	} else if sp := strings.IndexByte(rest, ' '); sp >= 0 {
		rest = rest[sp:]
	} else {
		return ""
	}
	return strings.TrimSpace(rest)
}
