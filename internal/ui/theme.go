package ui

import "github.com/charmbracelet/lipgloss"

// Theme is a palette for the board and HUD.
type Theme struct {
	Name      string
	Empty     lipgloss.Style
	Solid     lipgloss.Style
	Breakable lipgloss.Style
	Accent    lipgloss.Color
	Border    lipgloss.Color
}

var (
	bg = func(c string) lipgloss.Style { return lipgloss.NewStyle().Background(lipgloss.Color(c)) }

	classicTheme = Theme{
		Name:      "classic",
		Empty:     bg("#2ed573"),
		Solid:     bg("#2f3542").Foreground(lipgloss.Color("#57606f")),
		Breakable: bg("#95a5a6").Foreground(lipgloss.Color("#7f8c8d")),
		Accent:    lipgloss.Color("#ff8844"),
		Border:    lipgloss.Color("#444466"),
	}

	retroTheme = Theme{
		Name:      "retro",
		Empty:     bg("#2f3542"),
		Solid:     bg("#a5a5a5").Foreground(lipgloss.Color("#7a7a7a")),
		Breakable: bg("#d2691e").Foreground(lipgloss.Color("#8b4513")),
		Accent:    lipgloss.Color("#feca57"),
		Border:    lipgloss.Color("#a5a5a5"),
	}

	neonTheme = Theme{
		Name:      "neon",
		Empty:     bg("#0a0a12"),
		Solid:     bg("#16213e").Foreground(lipgloss.Color("#00f3ff")),
		Breakable: bg("#ff9f1c").Foreground(lipgloss.Color("#ff6b35")),
		Accent:    lipgloss.Color("#00f3ff"),
		Border:    lipgloss.Color("#ff00ff"),
	}
)

// Themes lists the selectable themes in menu order.
var Themes = []Theme{classicTheme, retroTheme, neonTheme}

// ThemeByName looks a theme up by name.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// Entity styles are shared by every theme; only the background follows it.
var (
	bombStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2f3542")).
			Bold(true)

	bombPulseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	fireStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff4757")).
			Foreground(lipgloss.Color("#ffcc00")).
			Bold(true)

	fireFadeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff9f43")).
			Foreground(lipgloss.Color("#ffeaa7"))

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true)

	shieldedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#48dbfb")).
			Bold(true)

	enemyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4757")).
			Bold(true)

	powerUpStyles = map[string]lipgloss.Style{
		"range":  lipgloss.NewStyle().Foreground(lipgloss.Color("#ff9f43")).Bold(true),
		"bomb":   lipgloss.NewStyle().Foreground(lipgloss.Color("#54a0ff")).Bold(true),
		"speed":  lipgloss.NewStyle().Foreground(lipgloss.Color("#feca57")).Bold(true),
		"shield": lipgloss.NewStyle().Foreground(lipgloss.Color("#48dbfb")).Bold(true),
	}

	blastParticleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	enemyParticleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4757"))

	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)
