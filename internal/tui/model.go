package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/rdcalc/internal/config"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/validation"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene
	keys          KeyMap

	// Terminal dimensions
	width  int
	height int

	// Booking and calculation
	bookingPath  string
	parser       *config.InputParser
	orchestrator *validation.Orchestrator
	booking      *config.BookingFile
	inputs       domain.UserInputs
	result       validation.Result
	calculated   bool

	unitsTable table.Model

	// Error state
	err error

	// Loading state
	loading        bool
	loadingMessage string
}

// NewModel creates a new application model
func NewModel(bookingPath string, orchestrator *validation.Orchestrator) Model {
	return Model{
		currentScene: SceneDates,
		keys:         DefaultKeyMap(),
		bookingPath:  bookingPath,
		parser:       config.NewInputParser(),
		orchestrator: orchestrator,
		unitsTable:   newUnitsTable(),
		width:        100,
		height:       30,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadBookingCmd(m.parser, m.bookingPath)
}

// loadBookingCmd returns a command that loads the booking file
func loadBookingCmd(parser *config.InputParser, path string) tea.Cmd {
	return func() tea.Msg {
		booking, err := parser.LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return BookingLoadedMsg{Booking: booking}
	}
}

// calculateCmd returns a command that validates and calculates the booking
func calculateCmd(orchestrator *validation.Orchestrator, src domain.SourceData, inputs domain.UserInputs) tea.Cmd {
	return func() tea.Msg {
		res, err := orchestrator.Run(src, inputs, validation.StageOther)
		return CalculationCompleteMsg{Result: res, Err: err}
	}
}

var unitColumns = []table.Column{
	{Title: "Sentences", Width: 18},
	{Title: "Tracks", Width: 30},
	{Title: "Custodial", Width: 9},
	{Title: "Release", Width: 8},
	{Title: "Type", Width: 5},
	{Title: "Date", Width: 10},
}

func newUnitsTable() table.Model {
	t := table.New(
		table.WithColumns(unitColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableHighlightStyle
	t.SetStyles(s)
	return t
}

func unitRows(calcs []domain.SentenceCalculation) []table.Row {
	rows := make([]table.Row, 0, len(calcs))
	for _, c := range calcs {
		release, _ := c.ReleaseDate()
		rows = append(rows, table.Row{
			joinIDs(c.SentenceIDs),
			joinTracks(c.Tracks),
			itoa(c.CustodialDays),
			itoa(c.ReleaseDays),
			string(c.ReleaseType),
			formatDate(release),
		})
	}
	return rows
}
