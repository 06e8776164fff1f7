package domain

import (
	"time"

	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// AdjustmentType classifies a change to the time a person must serve.
type AdjustmentType string

const (
	AdjustmentRemand            AdjustmentType = "REMAND"
	AdjustmentTaggedBail        AdjustmentType = "TAGGED_BAIL"
	AdjustmentUnlawfullyAtLarge AdjustmentType = "UNLAWFULLY_AT_LARGE"
	AdjustmentAdditionalDays    AdjustmentType = "ADDITIONAL_DAYS_AWARDED"
	AdjustmentRestoredDays      AdjustmentType = "RESTORATION_OF_ADDITIONAL_DAYS_AWARDED"
	AdjustmentUnusedDeductions  AdjustmentType = "UNUSED_DEDUCTIONS"
)

// IsDeduction reports whether the type credits time already spent in custody
// or on qualifying bail.
func (t AdjustmentType) IsDeduction() bool {
	return t == AdjustmentRemand || t == AdjustmentTaggedBail
}

// Adjustment is a single adjustment record. Deductions may be tied to one
// sentence through SentenceID; everything else applies to the whole booking.
// When From/To are given the period drives the day count, otherwise Days is
// used as supplied.
type Adjustment struct {
	ID         string         `yaml:"id,omitempty" json:"id,omitempty"`
	Type       AdjustmentType `yaml:"type" json:"type"`
	SentenceID string         `yaml:"sentence_id,omitempty" json:"sentence_id,omitempty"`
	From       *time.Time     `yaml:"from,omitempty" json:"from,omitempty"`
	To         *time.Time     `yaml:"to,omitempty" json:"to,omitempty"`
	Days       int            `yaml:"days,omitempty" json:"days,omitempty"`
}

// Period returns the adjustment's date range when it has one.
func (a Adjustment) Period() (dateutil.Interval, bool) {
	if a.From == nil || a.To == nil {
		return dateutil.Interval{}, false
	}
	return dateutil.Interval{From: *a.From, To: *a.To}, true
}

// EffectiveDays is the number of days the adjustment is worth on its own.
func (a Adjustment) EffectiveDays() int {
	if p, ok := a.Period(); ok {
		return p.Days()
	}
	return a.Days
}

// AppliesTo reports whether the adjustment counts towards any of the given
// sentence IDs. Booking-wide adjustments apply everywhere.
func (a Adjustment) AppliesTo(sentenceIDs []string) bool {
	if a.SentenceID == "" {
		return true
	}
	for _, id := range sentenceIDs {
		if id == a.SentenceID {
			return true
		}
	}
	return false
}

// AdjustmentTotals buckets adjustment days for one calculation unit.
type AdjustmentTotals struct {
	Remand            int `json:"remand"`
	TaggedBail        int `json:"tagged_bail"`
	UnlawfullyAtLarge int `json:"unlawfully_at_large"`
	AdditionalDays    int `json:"additional_days_awarded"`
	RestoredDays      int `json:"restored_days"`
}

// Deductions is remand plus tagged bail.
func (t AdjustmentTotals) Deductions() int {
	return t.Remand + t.TaggedBail
}

// NonDeductionDays is everything that is not a deduction, netted.
func (t AdjustmentTotals) NonDeductionDays() int {
	return t.UnlawfullyAtLarge + t.AdditionalDays - t.RestoredDays
}

// ReleaseDays is the net movement applied to release-point dates.
func (t AdjustmentTotals) ReleaseDays() int {
	return t.NonDeductionDays() - t.Deductions()
}

// ExpiryDays is the net movement applied to expiry dates. Awarded and
// restored days never move an expiry date.
func (t AdjustmentTotals) ExpiryDays() int {
	return t.UnlawfullyAtLarge - t.Deductions()
}
