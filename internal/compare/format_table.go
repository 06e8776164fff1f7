package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("RELEASE DATE SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Booking: %s\n", compSet.BookingID))
	if compSet.BookingPath != "" {
		sb.WriteString(fmt.Sprintf("File: %s\n", compSet.BookingPath))
	}
	sb.WriteString("\n")

	nameWidth := 25
	colWidth := 12

	// Table header
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		colWidth, "Release",
		colWidth, "Date",
		colWidth, "Expiry",
		colWidth, "Change"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, colWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, colWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Per-date differences
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if len(alt.DateDiffs) == 0 && len(alt.Gained) == 0 && len(alt.Lost) == 0 {
				sb.WriteString("  No change\n")
				continue
			}
			for _, t := range domain.ReleaseDateOrder {
				if diff, ok := alt.DateDiffs[t]; ok {
					sb.WriteString(fmt.Sprintf("  %-7s %s (%s)\n", t, dateutil.Format(alt.Dates[t]), tf.formatDays(diff)))
				}
			}
			for _, t := range alt.Gained {
				sb.WriteString(fmt.Sprintf("  %-7s %s (new)\n", t, dateutil.Format(alt.Dates[t])))
			}
			for _, t := range alt.Lost {
				sb.WriteString(fmt.Sprintf("  %-7s removed\n", t))
			}
		}
		sb.WriteString("\n")
	}

	// Recommendations
	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nNOTES\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, colWidth int, isBase bool) string {
	name := result.ScenarioName
	change := tf.formatDays(result.ReleaseDiffFromBase)
	if isBase {
		name += " (base)"
		change = ""
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		colWidth, string(result.ReleaseType),
		colWidth, formatDate(result.Release),
		colWidth, formatDate(result.Expiry),
		colWidth, change)
}

// formatDays renders a day difference with its sign
func (tf *TableFormatter) formatDays(days int) string {
	if days == 0 {
		return "same"
	}
	return fmt.Sprintf("%+d days", days)
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", formatDate(compSet.BaseResult.Release)))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, tf.formatDays(alt.ReleaseDiffFromBase)))
	}

	return sb.String()
}
