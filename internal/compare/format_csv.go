package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Release Type",
		"Release",
		"Expiry",
		"Release Diff (Days)",
		"Expiry Diff (Days)",
		"Gained",
		"Lost",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	gained := make([]string, 0, len(result.Gained))
	for _, t := range result.Gained {
		gained = append(gained, string(t))
	}
	lost := make([]string, 0, len(result.Lost))
	for _, t := range result.Lost {
		lost = append(lost, string(t))
	}
	return []string{
		result.ScenarioName,
		scenarioType,
		string(result.ReleaseType),
		formatDate(result.Release),
		formatDate(result.Expiry),
		strconv.Itoa(result.ReleaseDiffFromBase),
		strconv.Itoa(result.ExpiryDiffFromBase),
		strings.Join(gained, " "),
		strings.Join(lost, " "),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return dateutil.Format(t)
}
