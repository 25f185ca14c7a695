package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the panel.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Activity   key.Binding

	// Configuration
	Save  key.Binding
	Reset key.Binding

	// TTS actions
	Test          key.Binding
	ReadClipboard key.Binding
	ReadSelection key.Binding
	StopAudio     key.Binding
	Paste         key.Binding

	// Service
	StartService key.Binding
	StopService  key.Binding

	// Navigation
	Next     key.Binding
	Prev     key.Binding
	Decrease key.Binding
	Increase key.Binding
	Activate key.Binding

	// Dialogs
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?/f1", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "Cycle theme"),
		),
		Activity: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Activity log"),
		),

		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save config"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "Reset to defaults"),
		),

		// Terminals cannot report ctrl+enter.
		Test: key.NewBinding(
			key.WithKeys("ctrl+t", "alt+enter"),
			key.WithHelp("ctrl+t", "Test TTS"),
		),
		ReadClipboard: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Read clipboard"),
		),
		ReadSelection: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "Read selection (outside text fields)"),
		),
		StopAudio: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Stop audio"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Paste into test text"),
		),

		StartService: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "Start service"),
		),
		StopService: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "Stop service (outside text fields)"),
		),

		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "Next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "Previous field"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "Decrease / previous option"),
		),
		Increase: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "Increase / next option"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Press button"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Test, k.Save, k.StopAudio, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Test, k.ReadClipboard, k.ReadSelection, k.StopAudio, k.Paste},
		{k.Save, k.Reset, k.StartService, k.StopService},
		{k.Next, k.Prev, k.Decrease, k.Increase, k.Activate},
		{k.CycleTheme, k.Activity, k.Help, k.Quit},
	}
}
