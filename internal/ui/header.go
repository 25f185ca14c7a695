package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// renderHeader renders the status bar: connectivity, engine availability,
// service state and the age of the last check.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("readaloud", styles.Logo)}

	snap := m.snapshot
	if snap.Connected {
		parts = append(parts, bg.Render("● Connected", styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("● Disconnected", styles.DangerText))
	}

	if snap.HasStatus {
		engine := bg.Render("Not Available", styles.DangerText)
		if snap.EngineAvailable {
			engine = bg.Render("Available", styles.SuccessText)
		}
		parts = append(parts, bg.Render("Higgs:", styles.MutedText)+bg.Space()+engine)
	}

	if st, ok := snap.ServiceState(); ok {
		parts = append(parts,
			bg.Render("Service:", styles.MutedText)+bg.Space()+
				bg.Render(st.String(), styles.ServiceStyle(st)))
	}

	if !compact {
		checked := "never"
		if !snap.LastChecked.IsZero() {
			checked = humanize.Time(snap.LastChecked)
		}
		parts = append(parts, bg.Render("checked "+checked, styles.FaintText))
		if !snap.Connected && snap.ConsecutiveFailures > 1 {
			parts = append(parts, bg.Render(humanize.Ordinal(snap.ConsecutiveFailures)+" failed check", styles.WarningText))
		}
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  ")+sep)
}

// renderFooter renders the toast line above the key hints.
func (m Model) renderFooter() string {
	var b strings.Builder
	b.WriteString(m.renderToast())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return lipgloss.NewStyle().Width(m.width).Render(b.String())
}
