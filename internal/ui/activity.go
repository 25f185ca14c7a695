package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/readaloud/internal/logtail"
)

// renderActivityLines formats parsed panel log entries for the viewport.
func (m Model) renderActivityLines(entries []logtail.Entry) string {
	styles := m.theme.Styles()
	if len(entries) == 0 {
		return styles.FaintText.Render("No activity yet.")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Time.IsZero() && e.Level == "" {
			lines = append(lines, styles.MutedText.Render(e.Raw))
			continue
		}
		var parts []string
		if !e.Time.IsZero() {
			parts = append(parts, styles.FaintText.Render(e.Time.Format("15:04:05")))
		}
		if e.Level != "" {
			parts = append(parts, styles.LevelStyle(e.Level).Width(5).Render(e.Level))
		}
		parts = append(parts, styles.Text.Render(e.Message))
		if e.Fields != "" {
			parts = append(parts, styles.AccentText.Render(e.Fields))
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderActivity(height int) string {
	styles := m.theme.Styles()

	title := styles.PanelTitle.Render("Activity") + "  " + styles.FaintText.Render(truncateMiddle(m.logPath, 60))
	body := m.activity.View()
	if m.activityErr != nil {
		body = styles.DangerText.Render("Could not read log: " + m.activityErr.Error())
	}
	hint := styles.FaintText.Render("↑/↓ scroll · esc close")

	box := styles.Modal.Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, title, body, hint))
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Top, box)
}
