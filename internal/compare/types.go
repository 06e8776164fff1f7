package compare

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// ComparisonResult represents one calculated scenario with its key dates
type ComparisonResult struct {
	ScenarioName string                    `json:"scenarioName"`
	Description  string                    `json:"description"`
	Output       *domain.CalculationOutput `json:"-"`

	// Key dates
	ReleaseType domain.ReleaseDateType               `json:"releaseType"`
	Release     time.Time                            `json:"release"`
	Expiry      time.Time                            `json:"expiry,omitempty"`
	Dates       map[domain.ReleaseDateType]time.Time `json:"dates"`

	// Comparison to base, in days; negative means earlier than base
	ReleaseDiffFromBase int                            `json:"releaseDiffFromBase"`
	ExpiryDiffFromBase  int                            `json:"expiryDiffFromBase"`
	DateDiffs           map[domain.ReleaseDateType]int `json:"dateDiffs,omitempty"`
	Gained              []domain.ReleaseDateType       `json:"gained,omitempty"`
	Lost                []domain.ReleaseDateType       `json:"lost,omitempty"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BookingID          string             `json:"bookingId"`
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	BookingPath        string             `json:"bookingPath,omitempty"`
}

// releasePoints is the order in which a booking's controlling release date
// is looked for.
var releasePoints = []domain.ReleaseDateType{domain.CRD, domain.ARD, domain.MTD, domain.PED, domain.Tariff}

// MetricsCalculator extracts key dates from calculation outputs
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics pulls the release point, the expiry and every booking
// date out of an output.
func (mc *MetricsCalculator) CalculateMetrics(name string, out *domain.CalculationOutput) ComparisonResult {
	result := ComparisonResult{
		ScenarioName: name,
		Output:       out,
		Dates:        make(map[domain.ReleaseDateType]time.Time, len(out.Dates)),
	}
	for t, d := range out.Dates {
		result.Dates[t] = d.Date
	}

	for _, t := range releasePoints {
		if d, ok := result.Dates[t]; ok {
			result.ReleaseType, result.Release = t, d
			break
		}
	}

	if d, ok := result.Dates[domain.SLED]; ok {
		result.Expiry = d
	} else if d, ok := result.Dates[domain.SED]; ok {
		result.Expiry = d
	}
	return result
}

// CalculateComparison computes day differences between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	if !scenario.Release.IsZero() && !base.Release.IsZero() {
		scenario.ReleaseDiffFromBase = dateutil.DaysBetween(base.Release, scenario.Release)
	}
	if !scenario.Expiry.IsZero() && !base.Expiry.IsZero() {
		scenario.ExpiryDiffFromBase = dateutil.DaysBetween(base.Expiry, scenario.Expiry)
	}

	scenario.DateDiffs = make(map[domain.ReleaseDateType]int)
	scenario.Gained, scenario.Lost = nil, nil
	for _, t := range domain.ReleaseDateOrder {
		d, inScenario := scenario.Dates[t]
		b, inBase := base.Dates[t]
		switch {
		case inScenario && inBase:
			if diff := dateutil.DaysBetween(b, d); diff != 0 {
				scenario.DateDiffs[t] = diff
			}
		case inScenario:
			scenario.Gained = append(scenario.Gained, t)
		case inBase:
			scenario.Lost = append(scenario.Lost, t)
		}
	}
	return scenario
}

// GenerateRecommendations creates notes based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 || compSet.BaseResult == nil {
		return recommendations
	}

	// Find earliest release
	earliest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if !alt.Release.IsZero() && alt.Release.Before(earliest.Release) {
			earliest = alt
		}
	}

	if earliest != compSet.BaseResult {
		recommendations = append(recommendations,
			fmt.Sprintf("Earliest Release: %s releases %d days before the base scenario (%s %s)",
				earliest.ScenarioName, -earliest.ReleaseDiffFromBase, earliest.ReleaseType, dateutil.Format(earliest.Release)))
	}

	// Scenarios that change the sentence expiry
	for _, alt := range compSet.AlternativeResults {
		if alt.ExpiryDiffFromBase != 0 {
			recommendations = append(recommendations,
				fmt.Sprintf("Expiry: %s moves the sentence expiry by %+d days", alt.ScenarioName, alt.ExpiryDiffFromBase))
		}
	}

	// Eligibility gained or lost
	for _, alt := range compSet.AlternativeResults {
		for _, t := range alt.Gained {
			recommendations = append(recommendations,
				fmt.Sprintf("Eligibility: %s adds %s on %s", alt.ScenarioName, t, dateutil.Format(alt.Dates[t])))
		}
		for _, t := range alt.Lost {
			recommendations = append(recommendations,
				fmt.Sprintf("Eligibility: %s loses %s", alt.ScenarioName, t))
		}
	}

	return recommendations
}
