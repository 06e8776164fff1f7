package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/output"
	"github.com/rgehrsitz/rdcalc/internal/tui/tuistyles"
)

// DateCard displays one booking-level release date with the rules that
// produced it.
type DateCard struct {
	Date  domain.ReleaseDate
	Shift int
	Width int
}

// NewDateCard creates a new date card
func NewDateCard(d domain.ReleaseDate) *DateCard {
	return &DateCard{Date: d, Width: 30}
}

// WithShift records how far adjustments moved the date.
func (c *DateCard) WithShift(days int) *DateCard {
	c.Shift = days
	return c
}

// WithWidth sets the card width
func (c *DateCard) WithWidth(width int) *DateCard {
	c.Width = width
	return c
}

func (c *DateCard) shift() string {
	if c.Shift == 0 {
		return ""
	}
	return tuistyles.AdjustmentStyle(c.Shift).Render(fmt.Sprintf("%+d days", c.Shift))
}

// Render returns the styled card
func (c *DateCard) Render() string {
	label := tuistyles.DateLabelStyle.Render(fmt.Sprintf("%s  %s", c.Date.Type, output.DescribeDateType(c.Date.Type)))
	value := tuistyles.DateValueStyle.Render(output.FormatDate(c.Date.Date))
	if s := c.shift(); s != "" {
		value += " " + s
	}

	content := label + "\n" + value
	if len(c.Date.Rules) > 0 {
		content += "\n" + tuistyles.RuleStyle.Width(c.Width-4).Render(output.FormatRules(c.Date.Rules))
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(c.Width)

	return cardStyle.Render(content)
}

// RenderCompact returns a one-line version without border
func (c *DateCard) RenderCompact() string {
	line := tuistyles.DateLabelStyle.Render(string(c.Date.Type)+":") + " " +
		tuistyles.DateValueStyle.Render(output.FormatDate(c.Date.Date))
	if s := c.shift(); s != "" {
		line += " " + s
	}
	return line
}

// CardGrid renders cards in rows of the given width.
func CardGrid(cards []*DateCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	rows := []string{}
	currentRow := []string{}

	for i, card := range cards {
		currentRow = append(currentRow, card.Render())

		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = []string{}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
