package calculation

import (
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// totalAdjustments buckets the adjustments that apply to a calculation unit.
// Dated remand and tagged bail are counted over the union of their periods,
// so a day covered by both, or by two overlapping records, is credited once.
// Undated records contribute their day count as given.
func totalAdjustments(adjustments []domain.Adjustment, sentenceIDs []string) domain.AdjustmentTotals {
	var (
		totals        domain.AdjustmentTotals
		remandPeriods []dateutil.Interval
		deductPeriods []dateutil.Interval
		ualPeriods    []dateutil.Interval
	)

	for _, adj := range adjustments {
		if !adj.AppliesTo(sentenceIDs) {
			continue
		}
		period, dated := adj.Period()

		switch adj.Type {
		case domain.AdjustmentRemand, domain.AdjustmentTaggedBail:
			if !dated {
				if adj.Type == domain.AdjustmentRemand {
					totals.Remand += adj.Days
				} else {
					totals.TaggedBail += adj.Days
				}
				continue
			}
			deductPeriods = append(deductPeriods, period)
			if adj.Type == domain.AdjustmentRemand {
				remandPeriods = append(remandPeriods, period)
			}
		case domain.AdjustmentUnlawfullyAtLarge:
			if dated {
				ualPeriods = append(ualPeriods, period)
			} else {
				totals.UnlawfullyAtLarge += adj.Days
			}
		case domain.AdjustmentAdditionalDays:
			totals.AdditionalDays += adj.EffectiveDays()
		case domain.AdjustmentRestoredDays:
			totals.RestoredDays += adj.EffectiveDays()
		}
	}

	remand := dateutil.UnionDays(remandPeriods)
	totals.Remand += remand
	totals.TaggedBail += dateutil.UnionDays(deductPeriods) - remand
	totals.UnlawfullyAtLarge += dateutil.UnionDays(ualPeriods)
	return totals
}
