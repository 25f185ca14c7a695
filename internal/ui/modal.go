package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// Update returns the updated modal, a command, and whether the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmDialog asks a yes/no question. Confirming emits onConfirm as a
// message; cancelling closes without side effects.
type confirmDialog struct {
	title     string
	prompt    string
	onConfirm tea.Msg
	yes       bool // which button is highlighted
}

func newConfirmDialog(title, prompt string, onConfirm tea.Msg) *confirmDialog {
	return &confirmDialog{title: title, prompt: prompt, onConfirm: onConfirm}
}

func (d *confirmDialog) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil, false
	}

	switch {
	case kmsg.String() == "y":
		return d, d.confirm(), true
	case kmsg.String() == "enter":
		if d.yes {
			return d, d.confirm(), true
		}
		return d, nil, true
	case key.Matches(kmsg, keys.Cancel):
		return d, nil, true
	case key.Matches(kmsg, keys.Decrease, keys.Increase, keys.Next, keys.Prev):
		d.yes = !d.yes
	}
	return d, nil, false
}

func (d *confirmDialog) confirm() tea.Cmd {
	out := d.onConfirm
	return func() tea.Msg { return out }
}

func (d *confirmDialog) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render(d.title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Width(modalWidth - 6).Render(d.prompt))
	b.WriteString("\n\n")

	okStyle, cancelStyle := styles.Button, styles.FocusedButton
	if d.yes {
		okStyle, cancelStyle = styles.FocusedButton, styles.Button
	}
	b.WriteString(okStyle.Render("OK") + "  " + cancelStyle.Render("Cancel"))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("y confirm · n/esc cancel · ←/→ choose"))

	box := styles.Modal.Width(modalWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
