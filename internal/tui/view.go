package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/output"
	"github.com/rgehrsitz/rdcalc/internal/tui/components"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderLoading()
	}

	var content string
	switch m.currentScene {
	case SceneDates:
		content = m.renderDates()
	case SceneUnits:
		content = m.renderUnits()
	case SceneMessages:
		content = m.renderMessages()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	if m.err != nil {
		content = m.renderError() + "\n\n" + content
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentContainer := lipgloss.NewStyle().
		Height(max(1, m.height-4)).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		contentContainer,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("RDCALC - Release Date Calculation")

	breadcrumb := m.currentScene.String()
	if m.booking != nil {
		breadcrumb = fmt.Sprintf("%s / booking %s / person %s", breadcrumb, m.booking.BookingID, m.booking.PersonID)
	}
	ersed := "off"
	if m.inputs.CalculateErsed {
		ersed = "on"
	}
	breadcrumb += " / ERSED " + ersed

	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(breadcrumb))
}

func (m Model) renderStatusBar() string {
	shortcuts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		shortcuts = append(shortcuts, formatShortcut(b))
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

func formatShortcut(b key.Binding) string {
	h := b.Help()
	return StatusKeyStyle.Render(h.Key) + " " + h.Desc
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return InfoStyle.Render(message)
}

func (m Model) renderError() string {
	return ErrorStyle.Render("Error: " + m.err.Error())
}

func (m Model) renderDates() string {
	out := m.result.Output
	if out == nil {
		if !m.calculated {
			return SubtitleStyle.Render("No calculation yet.")
		}
		return SubtitleStyle.Render("No dates: see the validation screen.")
	}

	shifts := controllingShifts(out)
	cards := make([]*components.DateCard, 0, len(out.Dates))
	for _, d := range out.SortedDates() {
		cards = append(cards, components.NewDateCard(d).WithShift(shifts[d.Type]).WithWidth(32))
	}
	columns := max(1, m.width/34)
	return components.CardGrid(cards, columns)
}

// controllingShifts is the adjusted-minus-unadjusted movement per date
// type in the unit with the latest release.
func controllingShifts(out *domain.CalculationOutput) map[domain.ReleaseDateType]int {
	shifts := make(map[domain.ReleaseDateType]int)
	var controlling *domain.SentenceCalculation
	var latest time.Time
	for i := range out.Calculations {
		if release, ok := out.Calculations[i].ReleaseDate(); ok && (controlling == nil || release.After(latest)) {
			controlling, latest = &out.Calculations[i], release
		}
	}
	if controlling == nil {
		return shifts
	}
	for t, adjusted := range controlling.AdjustedDates {
		if unadjusted, ok := controlling.UnadjustedDates[t]; ok {
			shifts[t] = dateutil.DaysBetween(unadjusted, adjusted)
		}
	}
	return shifts
}

func (m Model) renderUnits() string {
	if m.result.Output == nil {
		return SubtitleStyle.Render("No calculation units.")
	}
	return BorderStyle.Render(m.unitsTable.View())
}

func (m Model) renderMessages() string {
	if len(m.result.Messages) == 0 {
		return InfoStyle.Render("No validation problems found.")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", WarningStyle.Render(fmt.Sprintf("Stage %s reported %d problem(s)", m.result.Stage, len(m.result.Messages))))
	for _, msg := range m.result.Messages {
		fmt.Fprintf(&b, "%s %s\n", HelpKeyStyle.Render(string(msg.Code)), msg.Message)
		fmt.Fprintf(&b, "  %s\n", HelpDescStyle.Render(string(msg.Category)))
	}
	return b.String()
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString("Keyboard shortcuts\n\n")
	for _, binding := range append(m.keys.ShortHelp(), m.keys.Back) {
		h := binding.Help()
		fmt.Fprintf(&b, "  %s  %s\n", HelpKeyStyle.Render(fmt.Sprintf("%-4s", h.Key)), HelpDescStyle.Render(h.Desc))
	}
	b.WriteString("\nArrow keys move through the calculation units table.\n")
	return b.String()
}

func joinIDs(ids []string) string { return strings.Join(ids, " > ") }

func joinTracks(tracks []domain.IdentificationTrack) string {
	parts := make([]string, len(tracks))
	for i, t := range tracks {
		parts[i] = string(t)
	}
	return strings.Join(parts, "+")
}

func itoa(n int) string { return strconv.Itoa(n) }

func formatDate(d time.Time) string { return output.FormatDate(d) }
