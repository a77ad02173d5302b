package ui

import "github.com/charmbracelet/lipgloss"

// Color palette: a single lime accent on grays.
const (
	ColorLime     = "154"
	ColorLimeDim  = "106"
	ColorWhite    = "255"
	ColorGray     = "245"
	ColorDarkGray = "238"
	ColorRed      = "196"
	ColorYellow   = "220"
)

// Styles holds all UI styles.
type Styles struct {
	Header     lipgloss.Style
	Question   lipgloss.Style
	Answer     lipgloss.Style
	Score      lipgloss.Style
	Suggestion lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	Dim        lipgloss.Style
	Label      lipgloss.Style

	Panel lipgloss.Style
	Input lipgloss.Style
}

// DefaultStyles returns styles for interactive terminals.
func DefaultStyles() Styles {
	return Styles{
		Header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Question:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Answer:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite)),
		Score:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Suggestion: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:        lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Label:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDarkGray)).
			Padding(0, 1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorLimeDim)).
			Padding(0, 1),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:     plain,
		Question:   plain,
		Answer:     plain,
		Score:      plain,
		Suggestion: plain,
		Success:    plain,
		Warning:    plain,
		Error:      plain,
		Dim:        plain,
		Label:      plain,
		Panel:      plain,
		Input:      plain,
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
