package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the palette for one color scheme.
type Theme struct {
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	UserText  lipgloss.Color
	Assistant lipgloss.Color
	ErrorText lipgloss.Color
	Border    lipgloss.Color
}

// DarkTheme is the default palette.
var DarkTheme = Theme{
	Accent:    lipgloss.Color("86"),
	Muted:     lipgloss.Color("241"),
	UserText:  lipgloss.Color("81"),
	Assistant: lipgloss.Color("252"),
	ErrorText: lipgloss.Color("203"),
	Border:    lipgloss.Color("62"),
}

// LightTheme is the alternate palette for light terminals.
var LightTheme = Theme{
	Accent:    lipgloss.Color("29"),
	Muted:     lipgloss.Color("245"),
	UserText:  lipgloss.Color("26"),
	Assistant: lipgloss.Color("235"),
	ErrorText: lipgloss.Color("160"),
	Border:    lipgloss.Color("60"),
}

// ThemeByName resolves a configured theme name.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme
	}
	return DarkTheme
}

type styles struct {
	title       lipgloss.Style
	tab         lipgloss.Style
	activeTab   lipgloss.Style
	userEntry   lipgloss.Style
	assistEntry lipgloss.Style
	muted       lipgloss.Style
	errorLine   lipgloss.Style
	overlay     lipgloss.Style
	overlayHead lipgloss.Style
	selected    lipgloss.Style
	help        lipgloss.Style
}

func newStyles(theme Theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent).
			Padding(0, 1),
		tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),
		activeTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent).
			Underline(true).
			Padding(0, 2),
		userEntry: lipgloss.NewStyle().
			Foreground(theme.UserText),
		assistEntry: lipgloss.NewStyle().
			Foreground(theme.Assistant),
		muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		errorLine: lipgloss.NewStyle().
			Foreground(theme.ErrorText),
		overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
		overlayHead: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),
		selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),
		help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),
	}
}
