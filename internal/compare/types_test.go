package compare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

func output(dates map[domain.ReleaseDateType]time.Time) *domain.CalculationOutput {
	out := &domain.CalculationOutput{BookingID: "B1", Dates: make(map[domain.ReleaseDateType]domain.ReleaseDate)}
	for t, d := range dates {
		out.Dates[t] = domain.ReleaseDate{Type: t, Date: d}
	}
	return out
}

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	mc := NewMetricsCalculator()

	t.Run("conditional release and licence expiry", func(t *testing.T) {
		r := mc.CalculateMetrics("base", output(map[domain.ReleaseDateType]time.Time{
			domain.CRD:   dateutil.Date(2022, 2, 14),
			domain.HDCED: dateutil.Date(2021, 9, 1),
			domain.SLED:  dateutil.Date(2023, 2, 15),
		}))
		assert.Equal(t, domain.CRD, r.ReleaseType)
		assert.Equal(t, dateutil.Date(2022, 2, 14), r.Release)
		assert.Equal(t, dateutil.Date(2023, 2, 15), r.Expiry)
		assert.Len(t, r.Dates, 3)
	})

	t.Run("tariff only", func(t *testing.T) {
		r := mc.CalculateMetrics("life", output(map[domain.ReleaseDateType]time.Time{
			domain.Tariff: dateutil.Date(2035, 1, 1),
		}))
		assert.Equal(t, domain.Tariff, r.ReleaseType)
		assert.True(t, r.Expiry.IsZero())
	})

	t.Run("sentence expiry without licence", func(t *testing.T) {
		r := mc.CalculateMetrics("ard", output(map[domain.ReleaseDateType]time.Time{
			domain.ARD: dateutil.Date(2022, 1, 1),
			domain.SED: dateutil.Date(2023, 1, 1),
		}))
		assert.Equal(t, domain.ARD, r.ReleaseType)
		assert.Equal(t, dateutil.Date(2023, 1, 1), r.Expiry)
	})
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	mc := NewMetricsCalculator()
	base := mc.CalculateMetrics("base", output(map[domain.ReleaseDateType]time.Time{
		domain.CRD:   dateutil.Date(2022, 2, 14),
		domain.HDCED: dateutil.Date(2021, 9, 1),
		domain.SLED:  dateutil.Date(2023, 2, 15),
	}))
	alt := mc.CalculateMetrics("alt", output(map[domain.ReleaseDateType]time.Time{
		domain.CRD:   dateutil.Date(2022, 2, 28),
		domain.ERSED: dateutil.Date(2021, 12, 1),
		domain.SLED:  dateutil.Date(2023, 3, 1),
	}))

	got := mc.CalculateComparison(alt, base)
	assert.Equal(t, 14, got.ReleaseDiffFromBase)
	assert.Equal(t, 14, got.ExpiryDiffFromBase)
	assert.Equal(t, map[domain.ReleaseDateType]int{domain.CRD: 14, domain.SLED: 14}, got.DateDiffs)
	assert.Equal(t, []domain.ReleaseDateType{domain.ERSED}, got.Gained)
	assert.Equal(t, []domain.ReleaseDateType{domain.HDCED}, got.Lost)

	same := mc.CalculateComparison(base, base)
	assert.Zero(t, same.ReleaseDiffFromBase)
	assert.Empty(t, same.DateDiffs)
	assert.Empty(t, same.Gained)
	assert.Empty(t, same.Lost)
}

func TestGenerateRecommendations(t *testing.T) {
	mc := NewMetricsCalculator()
	base := mc.CalculateMetrics("base", output(map[domain.ReleaseDateType]time.Time{
		domain.CRD:  dateutil.Date(2025, 8, 29),
		domain.SLED: dateutil.Date(2027, 3, 1),
	}))
	early := mc.CalculateComparison(mc.CalculateMetrics("sds40", output(map[domain.ReleaseDateType]time.Time{
		domain.CRD:  dateutil.Date(2025, 5, 12),
		domain.SLED: dateutil.Date(2027, 3, 1),
	})), base)
	later := mc.CalculateComparison(mc.CalculateMetrics("added", output(map[domain.ReleaseDateType]time.Time{
		domain.CRD:  dateutil.Date(2025, 9, 8),
		domain.SLED: dateutil.Date(2027, 3, 1),
	})), base)

	t.Run("earliest release is named", func(t *testing.T) {
		set := &ComparisonSet{BaseResult: &base, AlternativeResults: []ComparisonResult{later, early}}
		recs := GenerateRecommendations(set)
		require.Len(t, recs, 1)
		assert.Equal(t, "Earliest Release: sds40 releases 109 days before the base scenario (CRD 2025-05-12)", recs[0])
	})

	t.Run("base already earliest", func(t *testing.T) {
		set := &ComparisonSet{BaseResult: &base, AlternativeResults: []ComparisonResult{later}}
		assert.Empty(t, GenerateRecommendations(set))
	})

	t.Run("no alternatives", func(t *testing.T) {
		assert.Empty(t, GenerateRecommendations(&ComparisonSet{BaseResult: &base}))
	})
}
