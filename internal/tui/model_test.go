package tui

import (
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rdcalc/internal/calculation"
	"github.com/rgehrsitz/rdcalc/internal/config"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/validation"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

var singleBooking = filepath.Join("..", "..", "testdata", "bookings", "single.yaml")

func newTestModel(t *testing.T, path string) Model {
	t.Helper()
	engine, err := calculation.NewEngine(domain.DefaultRulesCatalogue())
	require.NoError(t, err)
	return NewModel(path, validation.NewOrchestrator(engine))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive feeds msg to the model and then every message its commands produce.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	for i := 0; msg != nil; i++ {
		require.Less(t, i, 10, "too many chained commands")
		next, cmd := m.Update(msg)
		m = next.(Model)
		if cmd == nil {
			break
		}
		msg = cmd()
	}
	return m
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t, singleBooking)
	assert.Equal(t, SceneDates, m.currentScene)
	assert.False(t, m.calculated)
	assert.NotNil(t, m.Init(), "Init should load the booking")
	assert.Contains(t, m.View(), "No calculation yet.")
}

func TestModel_LoadAndCalculate(t *testing.T) {
	m := newTestModel(t, singleBooking)

	m = drive(t, m, m.Init()())

	require.NoError(t, m.err)
	require.True(t, m.calculated)
	require.NotNil(t, m.result.Output)
	assert.Equal(t, "B1001", m.booking.BookingID)

	crd := m.result.Output.Dates[domain.CRD]
	assert.Equal(t, "2022-02-14", dateutil.Format(crd.Date), "two years less fourteen days of deductions")

	view := m.View()
	assert.Contains(t, view, "booking B1001")
	assert.Contains(t, view, "Conditional release")
	assert.Contains(t, view, "2022-02-14")
	assert.Contains(t, view, "-14 days")
	assert.Contains(t, view, "ERSED off")
}

func TestModel_Navigation(t *testing.T) {
	m := newTestModel(t, singleBooking)
	m = drive(t, m, m.Init()())

	m = drive(t, m, runes("u"))
	assert.Equal(t, SceneUnits, m.currentScene)
	assert.Contains(t, m.View(), "SDS_STANDARD_RELEASE")
	assert.Len(t, m.unitsTable.Rows(), 1)

	m = drive(t, m, runes("?"))
	assert.Equal(t, SceneHelp, m.currentScene)
	assert.Contains(t, m.View(), "Keyboard shortcuts")

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, SceneUnits, m.currentScene, "esc returns to the previous scene")

	m = drive(t, m, runes("d"))
	assert.Equal(t, SceneDates, m.currentScene)

	m = drive(t, m, runes("m"))
	assert.Contains(t, m.View(), "No validation problems found.")
}

func TestModel_ToggleErsedRecalculates(t *testing.T) {
	m := newTestModel(t, singleBooking)
	m = drive(t, m, m.Init()())
	_, hadErsed := m.result.Output.Dates[domain.ERSED]
	assert.False(t, hadErsed)

	m = drive(t, m, runes("e"))

	assert.True(t, m.inputs.CalculateErsed)
	require.NotNil(t, m.result.Output)
	_, hasErsed := m.result.Output.Dates[domain.ERSED]
	assert.True(t, hasErsed, "ERSED is calculated once switched on")
	assert.Contains(t, m.View(), "ERSED on")
}

func TestModel_ValidationMessagesSwitchScene(t *testing.T) {
	m := newTestModel(t, filepath.Join("..", "..", "testdata", "bookings", "invalid.yaml"))
	m = drive(t, m, m.Init()())

	assert.Equal(t, SceneMessages, m.currentScene)
	assert.Nil(t, m.result.Output)
	require.NotEmpty(t, m.result.Messages)
	view := m.View()
	assert.Contains(t, view, "problem(s)")
	assert.Contains(t, view, string(m.result.Messages[0].Code))

	m = drive(t, m, runes("d"))
	assert.Contains(t, m.View(), "No dates: see the validation screen.")
}

func TestModel_LoadError(t *testing.T) {
	m := newTestModel(t, "missing.yaml")
	m = drive(t, m, m.Init()())

	require.Error(t, m.err)
	assert.Contains(t, m.View(), "Error: failed to read file missing.yaml")
}

func TestModel_CalculationFailureShown(t *testing.T) {
	m := newTestModel(t, singleBooking)
	m.booking = &config.BookingFile{}
	m = drive(t, m, CalculationCompleteMsg{Err: errors.New("boom")})

	assert.Contains(t, m.View(), "Error: boom")
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, singleBooking)
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, "%s should quit", k)
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(t, singleBooking)
	m = drive(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	assert.Equal(t, 140, m.width)
	assert.Equal(t, 40, m.height)
}

func TestScene_String(t *testing.T) {
	assert.Equal(t, "Release Dates", SceneDates.String())
	assert.Equal(t, "Calculation Units", SceneUnits.String())
	assert.Equal(t, "Validation", SceneMessages.String())
	assert.Equal(t, "Help", SceneHelp.String())
	assert.Equal(t, "Unknown", Scene(42).String())
}
