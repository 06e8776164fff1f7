// Package tuistyles holds the lipgloss palette and styles shared by the TUI
// and its components.
package tuistyles

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#7D56F4")
	ColorSecondary = lipgloss.Color("#3C7DD9")
	ColorAccent    = lipgloss.Color("#F2A541")
	ColorSuccess   = lipgloss.Color("#3FB950")
	ColorDanger    = lipgloss.Color("#F85149")
	ColorWarning   = lipgloss.Color("#D29922")
	ColorInfo      = lipgloss.Color("#58A6FF")

	ColorForeground = lipgloss.Color("#E6EDF3")
	ColorMuted      = lipgloss.Color("#8B949E")
	ColorBorder     = lipgloss.Color("#30363D")
)

var (
	AppStyle = lipgloss.NewStyle().Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorForeground).
			Background(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorBorder)

	StatusKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	ActiveTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Underline(true)
	InactiveTabStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	DateLabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	DateValueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorForeground)
	RuleStyle      = lipgloss.NewStyle().Foreground(ColorSecondary)

	HelpKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)

	TableHeaderStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorForeground).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(ColorBorder)
	TableHighlightStyle = lipgloss.NewStyle().Foreground(ColorForeground).Background(ColorSecondary)
)

// AdjustmentStyle colours a day movement: deductions bring a date forward,
// additions push it back.
func AdjustmentStyle(days int) lipgloss.Style {
	switch {
	case days < 0:
		return SuccessStyle
	case days > 0:
		return WarningStyle
	default:
		return SubtitleStyle
	}
}
