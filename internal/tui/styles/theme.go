package styles

import (
	"github.com/charmbracelet/lipgloss"

	"albumview/internal/config"
)

// Styles defines the core UI styles
type Styles struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Path       lipgloss.Style
	Directory  lipgloss.Style
	File       lipgloss.Style
	Cursor     lipgloss.Style
	Selected   lipgloss.Style
	Focused    lipgloss.Style
	Unselected lipgloss.Style
	Panel      lipgloss.Style
	Help       lipgloss.Style
	Notice     lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Dialog     lipgloss.Style
}

// Theme is the active set of styles.
var Theme = New(config.GetTheme("default"))

// New builds styles from a colour map as returned by config.GetTheme.
func New(colors map[string]string) Styles {
	c := func(name string) lipgloss.Color { return lipgloss.Color(colors[name]) }
	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(c("primary")).
			Padding(0, 1),
		Path: lipgloss.NewStyle().
			Foreground(c("info")),
		Directory: lipgloss.NewStyle().
			Foreground(c("info")).
			Bold(true),
		File: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(c("primary")),
		Selected: lipgloss.NewStyle().
			Foreground(c("success")).
			Bold(true),
		Focused: lipgloss.NewStyle().
			Foreground(c("emphasis")).
			Underline(true),
		Unselected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c("border")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9")),
		Notice: lipgloss.NewStyle().
			Foreground(c("warning")),
		Error: lipgloss.NewStyle().
			Foreground(c("error")),
		Success: lipgloss.NewStyle().
			Foreground(c("success")),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c("error")).
			Padding(1, 3).
			Align(lipgloss.Center),
	}
}

// Apply makes the theme from cfg the active one.
func Apply(cfg *config.Config) {
	Theme = New(map[string]string{
		"primary":  cfg.Theme.Primary,
		"success":  cfg.Theme.Success,
		"warning":  cfg.Theme.Warning,
		"error":    cfg.Theme.Error,
		"info":     cfg.Theme.Info,
		"emphasis": cfg.Theme.Emphasis,
		"border":   cfg.Theme.Border,
	})
}
