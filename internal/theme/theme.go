package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

// TitleStyle is used for the application banner.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// LabelStyle renders field labels in status lines.
var LabelStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGray)

// HintStyle is used for secondary hints under a status line.
var HintStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// SyncStateStyle returns a color-coded style for a sync outcome label.
func SyncStateStyle(state string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch state {
	case "success":
		return base.Foreground(ColorGreen)
	case "no new data":
		return base.Foreground(ColorYellow)
	case "failure":
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}
