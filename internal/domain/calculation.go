package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReleaseDateType names a statutory date.
type ReleaseDateType string

const (
	SLED   ReleaseDateType = "SLED"   // sentence and licence expiry
	SED    ReleaseDateType = "SED"    // sentence expiry
	CRD    ReleaseDateType = "CRD"    // conditional release
	ARD    ReleaseDateType = "ARD"    // automatic release
	PED    ReleaseDateType = "PED"    // parole eligibility
	HDCED  ReleaseDateType = "HDCED"  // home detention curfew eligibility
	ERSED  ReleaseDateType = "ERSED"  // early removal scheme eligibility
	TUSED  ReleaseDateType = "TUSED"  // top-up supervision expiry
	MTD    ReleaseDateType = "MTD"    // DTO mid-term
	ETD    ReleaseDateType = "ETD"    // DTO early transfer
	LTD    ReleaseDateType = "LTD"    // DTO late transfer
	Tariff ReleaseDateType = "TARIFF" // indeterminate tariff expiry
)

// ReleaseDateOrder is the display order of release date types.
var ReleaseDateOrder = []ReleaseDateType{SLED, SED, CRD, ARD, PED, HDCED, ERSED, TUSED, MTD, ETD, LTD, Tariff}

// IsReleasePoint reports whether the date marks a release rather than the
// end of a sentence or licence.
func (t ReleaseDateType) IsReleasePoint() bool {
	switch t {
	case CRD, ARD, PED, HDCED, ERSED, MTD, ETD, LTD, Tariff:
		return true
	}
	return false
}

// MovesOffNonReleaseDays reports whether a date falling on a weekend or
// other non-release day is brought forward to the previous working day.
// Parole eligibility and tariff expiry are decision points, not releases.
func (t ReleaseDateType) MovesOffNonReleaseDays() bool {
	return t.IsReleasePoint() && t != PED && t != Tariff
}

// CalculationRule explains which policy branch produced a date.
type CalculationRule string

const (
	RuleConsecutiveChain          CalculationRule = "CONSECUTIVE_CHAIN"
	RuleEarlyReleaseTranche       CalculationRule = "EARLY_RELEASE_TRANCHE"
	RuleTrancheCommencement       CalculationRule = "TRANCHE_COMMENCEMENT_APPLIES"
	RuleHDCQuarterOfSentence      CalculationRule = "HDCED_QUARTER_OF_SENTENCE"
	RuleHDCMinimumCustodialPeriod CalculationRule = "HDCED_MINIMUM_CUSTODIAL_PERIOD"
	RuleHDCDaysBeforeRelease      CalculationRule = "HDCED_DAYS_BEFORE_RELEASE"
	RuleERSHalfCustodialPeriod    CalculationRule = "ERSED_HALF_CUSTODIAL_PERIOD"
	RuleERSMaxPeriodBeforeRelease CalculationRule = "ERSED_MAX_PERIOD_BEFORE_RELEASE"
	RuleTopUpSupervision          CalculationRule = "TUSED_TOP_UP_SUPERVISION"
	RuleDTOShortTransferWindow    CalculationRule = "DTO_SHORT_TRANSFER_WINDOW"
	RuleDTOLongTransferWindow     CalculationRule = "DTO_LONG_TRANSFER_WINDOW"
	RuleDeductionsApplied         CalculationRule = "DEDUCTIONS_APPLIED"
	RuleAdditionsApplied          CalculationRule = "ADDITIONS_APPLIED"
	RuleControllingSentence       CalculationRule = "CONTROLLING_SENTENCE"
	RuleNonReleaseDayShift        CalculationRule = "NON_RELEASE_DAY_SHIFT"
	RuleOverridden                CalculationRule = "OVERRIDDEN"
)

// SentenceAnswer carries a user's answer about one sentence when offence
// indicators from source data are not being used.
type SentenceAnswer struct {
	SentenceID string `yaml:"sentence_id" json:"sentence_id"`
	SDSPlus    bool   `yaml:"sds_plus" json:"sds_plus"`
}

// UserInputs are the caller's choices for one calculation.
type UserInputs struct {
	UseOffenceIndicators bool                          `yaml:"use_offence_indicators" json:"use_offence_indicators"`
	CalculateErsed       bool                          `yaml:"calculate_ersed" json:"calculate_ersed"`
	SentenceAnswers      []SentenceAnswer              `yaml:"sentence_answers,omitempty" json:"sentence_answers,omitempty"`
	OverrideDates        map[ReleaseDateType]time.Time `yaml:"override_dates,omitempty" json:"override_dates,omitempty"`
}

// AnswerFor finds the user's answer for a sentence.
func (u UserInputs) AnswerFor(sentenceID string) (SentenceAnswer, bool) {
	for _, a := range u.SentenceAnswers {
		if a.SentenceID == sentenceID {
			return a, true
		}
	}
	return SentenceAnswer{}, false
}

// Annotation is what the resolvers learn about a sentence. It is produced
// fresh per calculation; sentences themselves are never modified.
type Annotation struct {
	SentenceID   string              `json:"sentence_id"`
	Track        IdentificationTrack `json:"track"`
	Multiplier   decimal.Decimal     `json:"multiplier"`
	EarlyRelease AppliedTranche      `json:"early_release"`
}

// WithTranche returns a copy carrying the applied tranche and its multiplier.
func (a Annotation) WithTranche(t AppliedTranche) Annotation {
	a.EarlyRelease = t
	if !t.IsTrancheZero() {
		a.Multiplier = t.Multiplier
	}
	return a
}

// SentenceCalculation is the result for one calculation unit: a single
// sentence or a whole consecutive chain.
type SentenceCalculation struct {
	SentenceIDs     []string                              `json:"sentence_ids"`
	Tracks          []IdentificationTrack                 `json:"tracks"`
	SentencedAt     time.Time                             `json:"sentenced_at"`
	SentenceDays    int                                   `json:"sentence_days"`
	CustodialDays   int                                   `json:"custodial_days"`
	ReleaseDays     int                                   `json:"release_days"`
	PEDDays         int                                   `json:"ped_days,omitempty"`
	ReleaseType     ReleaseDateType                       `json:"release_type"`
	Adjustments     AdjustmentTotals                      `json:"adjustments"`
	UnadjustedDates map[ReleaseDateType]time.Time         `json:"unadjusted_dates"`
	AdjustedDates   map[ReleaseDateType]time.Time         `json:"adjusted_dates"`
	Rules           map[ReleaseDateType][]CalculationRule `json:"rules"`
}

// IsChain reports whether the unit spans more than one sentence.
func (c SentenceCalculation) IsChain() bool {
	return len(c.SentenceIDs) > 1
}

// ReleaseDate returns the adjusted release-point date for the unit.
func (c SentenceCalculation) ReleaseDate() (time.Time, bool) {
	d, ok := c.AdjustedDates[c.ReleaseType]
	return d, ok
}

// UnadjustedReleaseDate returns the release-point date before adjustments.
func (c SentenceCalculation) UnadjustedReleaseDate() (time.Time, bool) {
	d, ok := c.UnadjustedDates[c.ReleaseType]
	return d, ok
}

// ReleaseDate is a booking-level date with the rules that produced it.
type ReleaseDate struct {
	Type  ReleaseDateType   `json:"type"`
	Date  time.Time         `json:"date"`
	Rules []CalculationRule `json:"rules"`
}

// CalculationOutput is the full result of one calculation request.
type CalculationOutput struct {
	RequestID        uuid.UUID                       `json:"request_id"`
	InputFingerprint string                          `json:"input_fingerprint,omitempty"`
	BookingID        string                          `json:"booking_id"`
	PersonID         string                          `json:"person_id"`
	Annotations      []Annotation                    `json:"annotations"`
	Calculations     []SentenceCalculation           `json:"calculations"`
	Dates            map[ReleaseDateType]ReleaseDate `json:"dates"`
}

// SortedDates returns the booking dates in ReleaseDateOrder.
func (o *CalculationOutput) SortedDates() []ReleaseDate {
	dates := make([]ReleaseDate, 0, len(o.Dates))
	for _, t := range ReleaseDateOrder {
		if d, ok := o.Dates[t]; ok {
			dates = append(dates, d)
		}
	}
	return dates
}

// AnnotationFor finds the annotation for a sentence.
func (o *CalculationOutput) AnnotationFor(sentenceID string) (Annotation, bool) {
	for _, a := range o.Annotations {
		if a.SentenceID == sentenceID {
			return a, true
		}
	}
	return Annotation{}, false
}

// Booking is the aggregate one calculation runs over.
type Booking struct {
	BookingID   string
	PersonID    string
	Sentences   []Sentence
	Chains      [][]Sentence
	Adjustments []Adjustment
}

// ConsecutiveChains returns only the chains with more than one sentence.
func (b *Booking) ConsecutiveChains() [][]Sentence {
	var chains [][]Sentence
	for _, c := range b.Chains {
		if len(c) > 1 {
			chains = append(chains, c)
		}
	}
	return chains
}

// SentenceByID finds a sentence in the booking.
func (b *Booking) SentenceByID(id string) (Sentence, bool) {
	for _, s := range b.Sentences {
		if s.Core().ID == id {
			return s, true
		}
	}
	return nil, false
}

// SortSentences orders sentences by sentencing date, then case and line
// sequence, then ID, so every stage sees the same order.
func SortSentences(sentences []Sentence) {
	sort.SliceStable(sentences, func(i, j int) bool {
		a, b := sentences[i].Core(), sentences[j].Core()
		if !a.SentencedAt.Equal(b.SentencedAt) {
			return a.SentencedAt.Before(b.SentencedAt)
		}
		if a.CaseSequence != b.CaseSequence {
			return a.CaseSequence < b.CaseSequence
		}
		if a.LineSequence != b.LineSequence {
			return a.LineSequence < b.LineSequence
		}
		return a.ID < b.ID
	})
}
