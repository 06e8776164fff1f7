package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

func sampleSet() *ComparisonSet {
	mc := NewMetricsCalculator()
	base := mc.CalculateMetrics("base", output(map[domain.ReleaseDateType]time.Time{
		domain.CRD:  dateutil.Date(2022, 2, 14),
		domain.SLED: dateutil.Date(2023, 2, 15),
	}))
	alt := mc.CalculateComparison(mc.CalculateMetrics("no_deductions", output(map[domain.ReleaseDateType]time.Time{
		domain.CRD:  dateutil.Date(2022, 2, 28),
		domain.SLED: dateutil.Date(2023, 3, 1),
	})), base)
	same := mc.CalculateComparison(mc.CalculateMetrics("sds_plus", output(map[domain.ReleaseDateType]time.Time{
		domain.CRD:  dateutil.Date(2022, 2, 14),
		domain.SLED: dateutil.Date(2023, 2, 15),
	})), base)

	set := &ComparisonSet{
		BookingID:          "B1",
		BaseScenarioName:   "base",
		BaseResult:         &base,
		AlternativeResults: []ComparisonResult{alt, same},
		BookingPath:        "testdata/bookings/single.yaml",
	}
	set.Recommendations = GenerateRecommendations(set)
	return set
}

func TestTableFormatter_Format(t *testing.T) {
	result := (&TableFormatter{}).Format(sampleSet())

	assert.Contains(t, result, "RELEASE DATE SCENARIO COMPARISON")
	assert.Contains(t, result, "Booking: B1")
	assert.Contains(t, result, "File: testdata/bookings/single.yaml")
	assert.Contains(t, result, "base (base)")
	assert.Contains(t, result, "+14 days")
	assert.Contains(t, result, "CRD     2022-02-28 (+14 days)")
	assert.Contains(t, result, "No change")
	assert.Contains(t, result, "NOTES")
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	set := sampleSet()
	set.AlternativeResults = nil
	set.Recommendations = nil

	result := (&TableFormatter{}).Format(set)
	assert.NotContains(t, result, "COMPARISON TO BASE")
	assert.NotContains(t, result, "NOTES")
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	assert.Equal(t, "Base: 2022-02-14 | no_deductions: +14 days | sds_plus: same",
		(&TableFormatter{}).FormatCompact(sampleSet()))
}

func TestTableFormatter_Truncate(t *testing.T) {
	tf := &TableFormatter{}
	assert.Equal(t, "short", tf.truncate("short", 10))
	assert.Equal(t, "a very ...", tf.truncate("a very long scenario name", 10))
}

func TestCSVFormatter_Format(t *testing.T) {
	data, err := (&CSVFormatter{}).Format(sampleSet())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "Scenario", records[0][0])
	assert.Equal(t, []string{"base", "base", "CRD", "2022-02-14", "2023-02-15", "0", "0", "", ""}, records[1])
	assert.Equal(t, []string{"no_deductions", "alternative", "CRD", "2022-02-28", "2023-03-01", "14", "14", "", ""}, records[2])
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		data, err := (&JSONFormatter{Pretty: pretty}).Format(sampleSet())
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(data), &decoded))
		assert.Equal(t, "B1", decoded["bookingId"])
		assert.Len(t, decoded["alternativeResults"], 2)
		assert.Equal(t, pretty, strings.Contains(data, "\n  "))
	}
}
