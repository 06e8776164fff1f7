package calculation

import (
	"testing"

	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApplyMultiplier(t *testing.T) {
	tests := []struct {
		name       string
		days       int
		multiplier decimal.Decimal
		expected   int
	}{
		{"half of even", 730, domain.MultiplierHalf, 365},
		{"half of odd rounds up", 365, domain.MultiplierHalf, 183},
		{"two thirds exact", 3, domain.MultiplierTwoThirds, 2},
		{"two thirds inexact", 4, domain.MultiplierTwoThirds, 3},
		{"forty percent", 1096, decimal.RequireFromString("0.4"), 439},
		{"full term", 10, domain.MultiplierFullTerm, 10},
		{"one day at half", 1, domain.MultiplierHalf, 1},
		{"nothing", 0, domain.MultiplierHalf, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, applyMultiplier(tt.days, tt.multiplier))
		})
	}
}

func TestTotalAdjustments(t *testing.T) {
	d := dateutil.Date
	remandFrom, remandTo := d(2020, 6, 1), d(2020, 6, 10)
	bailFrom, bailTo := d(2020, 6, 5), d(2020, 6, 14)
	secondRemandFrom, secondRemandTo := d(2020, 6, 8), d(2020, 6, 12)
	ualFrom, ualTo := d(2021, 1, 1), d(2021, 1, 3)

	adjustments := []domain.Adjustment{
		{Type: domain.AdjustmentRemand, From: &remandFrom, To: &remandTo},
		{Type: domain.AdjustmentRemand, From: &secondRemandFrom, To: &secondRemandTo},
		{Type: domain.AdjustmentTaggedBail, From: &bailFrom, To: &bailTo},
		{Type: domain.AdjustmentRemand, Days: 7, SentenceID: "S1"},
		{Type: domain.AdjustmentTaggedBail, Days: 99, SentenceID: "OTHER"},
		{Type: domain.AdjustmentUnlawfullyAtLarge, From: &ualFrom, To: &ualTo},
		{Type: domain.AdjustmentUnlawfullyAtLarge, Days: 2},
		{Type: domain.AdjustmentAdditionalDays, Days: 10},
		{Type: domain.AdjustmentRestoredDays, Days: 4},
		{Type: domain.AdjustmentUnusedDeductions, Days: 50},
	}

	totals := totalAdjustments(adjustments, []string{"S1", "S2"})

	assert.Equal(t, domain.AdjustmentTotals{
		Remand:            12 + 7,
		TaggedBail:        2,
		UnlawfullyAtLarge: 3 + 2,
		AdditionalDays:    10,
		RestoredDays:      4,
	}, totals)
	assert.Equal(t, 21, totals.Deductions())
	assert.Equal(t, 11, totals.NonDeductionDays())
}
