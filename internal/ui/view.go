package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/five82/readaloud/internal/loading"
)

// renderScreen lays out header, body and footer. Overlays replace the body
// so the status bar and toasts stay visible underneath them.
func (m Model) renderScreen() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(footer))

	var body string
	switch {
	case m.dialog != nil:
		body = m.dialog.View(m.theme, m.width, bodyHeight)
	case m.loading.Visible():
		body = m.renderLoading(bodyHeight)
	case m.showHelp:
		body = m.renderHelp(bodyHeight)
	case m.showActivity:
		body = m.renderActivity(bodyHeight)
	default:
		body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(m.renderForm())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) panelWidth() int {
	w := m.width - 2
	if w > MaxPanelWidth {
		w = MaxPanelWidth
	}
	if w < MinPanelWidth {
		w = MinPanelWidth
	}
	return w
}

func (m Model) renderForm() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderConfigPanel(),
		m.renderActionsPanel(),
		m.renderServicePanel(),
	)
}

func (m Model) panel(title, content string) string {
	styles := m.theme.Styles()
	return styles.Panel.Width(m.panelWidth() - 2).Render(
		styles.PanelTitle.Render(title) + "\n" + content,
	)
}

func (m Model) label(f field, text string) string {
	styles := m.theme.Styles()
	if m.focus == f {
		return styles.FocusedLabel.Render("› " + text)
	}
	return styles.Label.Render("  " + text)
}

func (m Model) button(f field, text string, enabled bool) string {
	styles := m.theme.Styles()
	switch {
	case !enabled:
		return styles.DisabledButton.Render(text)
	case m.focus == f:
		return styles.FocusedButton.Render(text)
	default:
		return styles.Button.Render(text)
	}
}

func (m Model) renderSelector(f field, s selector) string {
	styles := m.theme.Styles()
	arrow := styles.FaintText
	if m.focus == f {
		arrow = styles.AccentText
	}
	return arrow.Render("‹ ") + styles.Text.Render(s.value()) + arrow.Render(" ›")
}

func (m Model) renderSlider(f field, s slider, readout string) string {
	styles := m.theme.Styles()
	filled := int(s.fraction()*float64(sliderWidth) + 0.5)
	filled = min(max(filled, 0), sliderWidth)

	fill := styles.AccentText
	if m.focus != f {
		fill = styles.MutedText
	}
	bar := fill.Render(strings.Repeat("━", filled)) +
		styles.FaintText.Render(strings.Repeat("─", sliderWidth-filled))
	return bar + " " + styles.Text.Render(readout)
}

func (m Model) renderConfigPanel() string {
	styles := m.theme.Styles()
	c := m.controls

	rows := []string{
		m.label(fieldEngine, "TTS Engine") + m.renderSelector(fieldEngine, c.engine),
		m.label(fieldVoice, "Voice") + m.renderSelector(fieldVoice, c.voice),
		m.label(fieldTemperature, "Temperature") + m.renderSlider(fieldTemperature, c.temperature, formatTemperature(c.temperature.shown(m.settings.Temperature))),
		m.label(fieldVolume, "Volume") + m.renderSlider(fieldVolume, c.volume, formatVolume(c.volume.shown(m.settings.Volume))),
		m.label(fieldSpeed, "Speed") + m.renderSlider(fieldSpeed, c.speed, formatSpeed(c.speed.shown(m.settings.Speed))),
		m.label(fieldOutputPath, "Output path") + c.outputPath.View(),
		"",
		styles.MutedText.Render("  Current engine: ") + styles.Text.Render(currentReadout(m.settings.TTSEngine)) +
			styles.MutedText.Render("   voice: ") + styles.Text.Render(currentReadout(m.settings.Voice)),
		"",
		"  " + m.button(fieldSave, "Save", true) + "  " + m.button(fieldReset, "Reset", true),
	}
	return m.panel("Configuration", strings.Join(rows, "\n"))
}

func (m Model) renderActionsPanel() string {
	rows := []string{
		m.label(fieldTestText, "Test text") + m.controls.testText.View(),
		"",
		"  " + strings.Join([]string{
			m.button(fieldTest, "Test", true),
			m.button(fieldReadClipboard, "Read Clipboard", true),
			m.button(fieldReadSelection, "Read Selection", true),
			m.button(fieldStop, "Stop", true),
		}, "  "),
	}
	return m.panel("TTS Actions", strings.Join(rows, "\n"))
}

func (m Model) renderServicePanel() string {
	styles := m.theme.Styles()
	start, stop := m.serviceButtons()

	state := styles.FaintText.Render("Unknown")
	if st, ok := m.snapshot.ServiceState(); ok {
		state = styles.ServiceStyle(st).Render(st.String())
	}

	rows := []string{
		m.label(-1, "Higgs service") + state,
		"",
		"  " + m.button(fieldStartService, "Start Service", start) + "  " + m.button(fieldStopService, "Stop Service", stop),
	}
	return m.panel("Service", strings.Join(rows, "\n"))
}

// renderToast renders the visible toast, truncated to the terminal width.
func (m Model) renderToast() string {
	t, ok := m.toasts.Current()
	if !ok {
		return ""
	}
	styles := m.theme.Styles()
	text := t.Severity.Icon() + " " + t.Text
	if pending := m.toasts.Pending(); pending > 0 {
		text += fmt.Sprintf("  (+%d)", pending)
	}
	width := max(8, m.width-2)
	return styles.ToastStyle(t.Severity).Render(truncate.StringWithTail(text, uint(width), "…"))
}

func (m Model) renderLoading(height int) string {
	s, ok := m.loading.Current()
	if !ok {
		return ""
	}
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.spinner.View() + " " + styles.PanelTitle.Render(s.Title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(s.Message))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(s.Progress / 100))
	b.WriteString(" " + styles.MutedText.Render(fmt.Sprintf("%3.0f%%", s.Progress)))
	b.WriteString("\n\n")
	for i, lbl := range loading.StepLabels {
		mark, style := "○", styles.FaintText
		if s.Steps[i] {
			mark, style = "●", styles.SuccessText
		}
		b.WriteString(style.Render(mark+" "+lbl) + "\n")
	}
	b.WriteString("\n" + styles.FaintText.Render("esc stops audio"))

	box := styles.Modal.Width(modalWidth).Render(b.String())
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
