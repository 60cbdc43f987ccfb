// Package theme holds the lipgloss styles shared by log output and the CLI.
package theme

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

const defaultThemeName = "kanagawa"

// --- Kanagawa palette (dark / light) ---
const (
	kanagawaDarkGreen      = "#98BB6C"
	kanagawaDarkYellow     = "#FF9E3B"
	kanagawaDarkRed        = "#FF5D62"
	kanagawaDarkCyan       = "#7E9CD8"
	kanagawaDarkViolet     = "#957FB8"
	kanagawaDarkLightText  = "#DCD7BA"
	kanagawaDarkMutedText  = "#727169"
	kanagawaLightGreen     = "#4E7C5A"
	kanagawaLightYellow    = "#A68A64"
	kanagawaLightRed       = "#C34043"
	kanagawaLightCyan      = "#5B8BBE"
	kanagawaLightViolet    = "#674D7A"
	kanagawaLightLightText = "#2B2F42"
	kanagawaLightMutedText = "#6C7086"
)

// --- Terminal (ANSI-friendly) palette ---
const (
	terminalGreen     = "2"
	terminalYellow    = "3"
	terminalRed       = "1"
	terminalCyan      = "6"
	terminalViolet    = "5"
	terminalLightText = "7"
	terminalMutedText = "8"
)

// Colors encapsulates the palette used by a theme.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	LightText lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
}

// Theme groups the styles used to render deck output.
type Theme struct {
	Name   string
	Colors Colors

	Header  lipgloss.Style
	Accent  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Workflow lifecycle markers
	Active   lipgloss.Style
	Pending  lipgloss.Style
	Inactive lipgloss.Style
}

// DefaultTheme is selected from DECK_THEME ("kanagawa" or "terminal").
var DefaultTheme = New(themeName())

func themeName() string {
	if name := os.Getenv("DECK_THEME"); name != "" {
		return name
	}
	return defaultThemeName
}

// New builds the named theme, falling back to kanagawa for unknown names.
func New(name string) *Theme {
	var c Colors
	switch name {
	case "terminal":
		c = Colors{
			Green:     lipgloss.Color(terminalGreen),
			Yellow:    lipgloss.Color(terminalYellow),
			Red:       lipgloss.Color(terminalRed),
			Cyan:      lipgloss.Color(terminalCyan),
			Violet:    lipgloss.Color(terminalViolet),
			LightText: lipgloss.Color(terminalLightText),
			MutedText: lipgloss.Color(terminalMutedText),
		}
	default:
		name = defaultThemeName
		c = Colors{
			Green:     lipgloss.AdaptiveColor{Light: kanagawaLightGreen, Dark: kanagawaDarkGreen},
			Yellow:    lipgloss.AdaptiveColor{Light: kanagawaLightYellow, Dark: kanagawaDarkYellow},
			Red:       lipgloss.AdaptiveColor{Light: kanagawaLightRed, Dark: kanagawaDarkRed},
			Cyan:      lipgloss.AdaptiveColor{Light: kanagawaLightCyan, Dark: kanagawaDarkCyan},
			Violet:    lipgloss.AdaptiveColor{Light: kanagawaLightViolet, Dark: kanagawaDarkViolet},
			LightText: lipgloss.AdaptiveColor{Light: kanagawaLightLightText, Dark: kanagawaDarkLightText},
			MutedText: lipgloss.AdaptiveColor{Light: kanagawaLightMutedText, Dark: kanagawaDarkMutedText},
		}
	}

	return &Theme{
		Name:     name,
		Colors:   c,
		Header:   lipgloss.NewStyle().Bold(true).Foreground(c.Cyan),
		Accent:   lipgloss.NewStyle().Foreground(c.Violet),
		Muted:    lipgloss.NewStyle().Foreground(c.MutedText),
		Success:  lipgloss.NewStyle().Foreground(c.Green),
		Warning:  lipgloss.NewStyle().Foreground(c.Yellow),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(c.Red),
		Active:   lipgloss.NewStyle().Bold(true).Foreground(c.Green),
		Pending:  lipgloss.NewStyle().Foreground(c.Yellow),
		Inactive: lipgloss.NewStyle().Foreground(c.MutedText),
	}
}
