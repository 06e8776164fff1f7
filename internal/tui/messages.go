package tui

import (
	"github.com/rgehrsitz/rdcalc/internal/config"
	"github.com/rgehrsitz/rdcalc/internal/validation"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneDates Scene = iota
	SceneUnits
	SceneMessages
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneDates:
		return "Release Dates"
	case SceneUnits:
		return "Calculation Units"
	case SceneMessages:
		return "Validation"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Message types for the Bubble Tea update cycle

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// BookingLoadedMsg signals the booking file has been read
type BookingLoadedMsg struct {
	Booking *config.BookingFile
}

// CalculationCompleteMsg carries the outcome of validating and calculating
// the loaded booking
type CalculationCompleteMsg struct {
	Result validation.Result
	Err    error
}
