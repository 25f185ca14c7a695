package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/readaloud/internal/notify"
	"github.com/five82/readaloud/internal/readaloud"
)

// Theme defines the panel palette.
type Theme struct {
	Name string

	Background string // outermost background
	Surface    string // panels
	SurfaceAlt string // inputs and track backgrounds
	FocusBg    string // focused control

	SelectionBg   string // focused button
	SelectionText string

	Border      string
	BorderMuted string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		FaintText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)).
			Width(labelWidth),
		FocusedLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			Width(labelWidth),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)).
			Background(lipgloss.Color(t.SurfaceAlt)).
			Padding(0, 1),
		FocusedButton: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.SelectionText)).
			Background(lipgloss.Color(t.SelectionBg)).
			Bold(true).
			Padding(0, 1),
		DisabledButton: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)).
			Background(lipgloss.Color(t.BorderMuted)).
			Padding(0, 1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Accent)).
			Padding(1, 2),

		severity: map[notify.Severity]string{
			notify.Info:    t.Info,
			notify.Success: t.Success,
			notify.Error:   t.Danger,
			notify.Warning: t.Warning,
		},
		background: t.Background,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	Label        lipgloss.Style
	FocusedLabel lipgloss.Style

	Button         lipgloss.Style
	FocusedButton  lipgloss.Style
	DisabledButton lipgloss.Style

	Modal lipgloss.Style

	severity   map[notify.Severity]string
	background string
}

// ToastStyle returns the badge style for a toast severity.
func (s Styles) ToastStyle(sev notify.Severity) lipgloss.Style {
	color := s.severity[sev]
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Bold(true).
		Padding(0, 1)
}

// ServiceStyle returns the text style for a service state label.
func (s Styles) ServiceStyle(st readaloud.ServiceState) lipgloss.Style {
	switch st {
	case readaloud.ServiceReady:
		return s.SuccessText
	case readaloud.ServiceLoading:
		return s.WarningText.Bold(true)
	default:
		return s.DangerText
	}
}

// LevelStyle returns the style for a log level in the activity view.
func (s Styles) LevelStyle(level string) lipgloss.Style {
	switch level {
	case "ERROR", "FATAL":
		return s.DangerText
	case "WARN":
		return s.WarningText.Bold(true)
	case "DEBUG":
		return s.InfoText
	case "INFO":
		return s.SuccessText
	default:
		return s.MutedText
	}
}

var themes = map[string]Theme{
	"Nightfox": nightfoxTheme(),
	"Kanagawa": kanagawaTheme(),
	"Slate":    slateTheme(),
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

// GetTheme returns a theme by name, falling back to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return nightfoxTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}

// https://github.com/EdenEast/nightfox.nvim
func nightfoxTheme() Theme {
	return Theme{
		Name:       "Nightfox",
		Background: "#131a24", Surface: "#192330", SurfaceAlt: "#212e3f", FocusBg: "#29394f",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf",
		Border: "#39506d", BorderMuted: "#212e3f", BorderFocus: "#719cd6",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b", Accent: "#719cd6",
		Success: "#81b29a", Warning: "#dbc074", Danger: "#c94f6d", Info: "#63cdcf",
	}
}

// https://github.com/rebelot/kanagawa.nvim
func kanagawaTheme() Theme {
	return Theme{
		Name:       "Kanagawa",
		Background: "#16161D", Surface: "#1F1F28", SurfaceAlt: "#2A2A37", FocusBg: "#2A2A37",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA",
		Border: "#54546D", BorderMuted: "#2A2A37", BorderFocus: "#7E9CD8",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169", Accent: "#7E9CD8",
		Success: "#98BB6C", Warning: "#E6C384", Danger: "#E46876", Info: "#7FB4CA",
	}
}

// Tailwind slate/sky.
func slateTheme() Theme {
	return Theme{
		Name:       "Slate",
		Background: "#020617", Surface: "#0f172a", SurfaceAlt: "#1e293b", FocusBg: "#283548",
		SelectionBg: "#0284c7", SelectionText: "#f8fafc",
		Border: "#334155", BorderMuted: "#1e293b", BorderFocus: "#38bdf8",
		Text: "#f1f5f9", Muted: "#94a3b8", Faint: "#64748b", Accent: "#38bdf8",
		Success: "#22c55e", Warning: "#f59e0b", Danger: "#ef4444", Info: "#06b6d4",
	}
}
