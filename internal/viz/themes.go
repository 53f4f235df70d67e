package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the terminal palette.
type Theme struct {
	Name    string
	Sky     lipgloss.Color
	Title   lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeDeepSpace = Theme{
		Name:    "deep-space",
		Sky:     lipgloss.Color("#c8d6ff"),
		Title:   lipgloss.Color("#fdb813"), // sun
		Accent:  lipgloss.Color("#2e86ab"), // earth
		Text:    lipgloss.Color("#e0e6f0"),
		Muted:   lipgloss.Color("#5a6478"),
		Warning: lipgloss.Color("#c1440e"), // mars
	}

	ThemeSolar = Theme{
		Name:    "solar",
		Sky:     lipgloss.Color("#ffd27f"),
		Title:   lipgloss.Color("#ff9f1c"),
		Accent:  lipgloss.Color("#e4d191"),
		Text:    lipgloss.Color("#fff5e0"),
		Muted:   lipgloss.Color("#8b6b4c"),
		Warning: lipgloss.Color("#ff4757"),
	}

	ThemeMono = Theme{
		Name:    "mono",
		Sky:     lipgloss.Color("#ffffff"),
		Title:   lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#aaaaaa"),
		Text:    lipgloss.Color("#dddddd"),
		Muted:   lipgloss.Color("#777777"),
		Warning: lipgloss.Color("#ffffff"),
	}

	Themes = []Theme{ThemeDeepSpace, ThemeSolar, ThemeMono}
)

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	canvas  lipgloss.Style
	stats   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	active  lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	hint    lipgloss.Style
	warning lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas:  lipgloss.NewStyle().Foreground(t.Sky),
		stats:   lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(0, 2).Width(statsWidth - 1),
		header:  lipgloss.NewStyle().Foreground(t.Title).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		active:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		graph:   lipgloss.NewStyle().Foreground(t.Accent),
		help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		hint:    lipgloss.NewStyle().Foreground(t.Muted),
		warning: lipgloss.NewStyle().Foreground(t.Warning),
	}
}
