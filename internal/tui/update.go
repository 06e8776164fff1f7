package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.unitsTable.SetHeight(max(3, msg.Height-10))
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case BookingLoadedMsg:
		m.booking = msg.Booking
		m.inputs = msg.Booking.Inputs
		m.err = nil
		return m.recalculate()

	case CalculationCompleteMsg:
		m.loading = false
		m.calculated = true
		m.result = msg.Result
		m.err = msg.Err
		if msg.Result.Output != nil {
			m.unitsTable.SetRows(unitRows(msg.Result.Output.Calculations))
		} else {
			m.unitsTable.SetRows(nil)
		}
		if len(msg.Result.Messages) > 0 {
			m.previousScene = m.currentScene
			m.currentScene = SceneMessages
		}
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

func (m Model) recalculate() (tea.Model, tea.Cmd) {
	if m.booking == nil {
		return m, nil
	}
	m.loading = true
	m.loadingMessage = "Calculating release dates..."
	return m, calculateCmd(m.orchestrator, m.booking.SourceData, m.inputs)
}

func navigate(scene Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: scene}
	}
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		return m, navigate(SceneHelp)

	case key.Matches(msg, m.keys.Back):
		if m.currentScene != SceneDates {
			target := SceneDates
			if m.previousScene != m.currentScene {
				target = m.previousScene
			}
			return m, navigate(target)
		}

	case key.Matches(msg, m.keys.Dates):
		return m, navigate(SceneDates)

	case key.Matches(msg, m.keys.Units):
		return m, navigate(SceneUnits)

	case key.Matches(msg, m.keys.Messages):
		return m, navigate(SceneMessages)

	case key.Matches(msg, m.keys.Ersed):
		m.inputs.CalculateErsed = !m.inputs.CalculateErsed
		return m.recalculate()

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		m.loadingMessage = "Reloading " + m.bookingPath + "..."
		return m, loadBookingCmd(m.parser, m.bookingPath)
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's widgets
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.currentScene == SceneUnits {
		var cmd tea.Cmd
		m.unitsTable, cmd = m.unitsTable.Update(msg)
		return m, cmd
	}
	return m, nil
}
