package tui

import "github.com/rgehrsitz/rdcalc/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	TitleStyle          = tuistyles.TitleStyle
	SubtitleStyle       = tuistyles.SubtitleStyle
	StatusBarStyle      = tuistyles.StatusBarStyle
	StatusKeyStyle      = tuistyles.StatusKeyStyle
	BorderStyle         = tuistyles.BorderStyle
	HelpKeyStyle        = tuistyles.HelpKeyStyle
	HelpDescStyle       = tuistyles.HelpDescStyle
	ErrorStyle          = tuistyles.ErrorStyle
	WarningStyle        = tuistyles.WarningStyle
	InfoStyle           = tuistyles.InfoStyle
	TableHeaderStyle    = tuistyles.TableHeaderStyle
	TableHighlightStyle = tuistyles.TableHighlightStyle
)
