package domain

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// SentenceKind tags the variant of a Sentence.
type SentenceKind string

const (
	KindStandardDeterminate  SentenceKind = "SDS"
	KindExtendedDeterminate  SentenceKind = "EDS"
	KindSOPC                 SentenceKind = "SOPC"
	KindAFine                SentenceKind = "A_FINE"
	KindDetentionAndTraining SentenceKind = "DTO"
	KindBailOnTheRun         SentenceKind = "BAIL_OTR"
	KindIndeterminate        SentenceKind = "INDETERMINATE"
)

// Duration is a sentence length expressed the way the court imposed it.
type Duration struct {
	Years  int `yaml:"years,omitempty" json:"years,omitempty"`
	Months int `yaml:"months,omitempty" json:"months,omitempty"`
	Weeks  int `yaml:"weeks,omitempty" json:"weeks,omitempty"`
	Days   int `yaml:"days,omitempty" json:"days,omitempty"`
}

// IsZero reports whether the duration has no length at all.
func (d Duration) IsZero() bool {
	return d.Years == 0 && d.Months == 0 && d.Weeks == 0 && d.Days == 0
}

// Plus adds two durations component-wise.
func (d Duration) Plus(other Duration) Duration {
	return Duration{
		Years:  d.Years + other.Years,
		Months: d.Months + other.Months,
		Weeks:  d.Weeks + other.Weeks,
		Days:   d.Days + other.Days,
	}
}

// EndDate is the date on which the duration elapses when served from start.
func (d Duration) EndDate(start time.Time) time.Time {
	return dateutil.AddPeriod(start, d.Years, d.Months, d.Weeks*7+d.Days)
}

// DaysFrom converts the duration to a day count anchored at start.
func (d Duration) DaysFrom(start time.Time) int {
	return dateutil.DaysBetween(start, d.EndDate(start))
}

// String renders the duration as e.g. "2y 6m 0w 0d".
func (d Duration) String() string {
	return fmt.Sprintf("%dy %dm %dw %dd", d.Years, d.Months, d.Weeks, d.Days)
}

// OffenceIndicators are the offence-level flags that steer track selection.
type OffenceIndicators struct {
	SDSPlus                bool `yaml:"sds_plus,omitempty" json:"sds_plus,omitempty"`
	ScheduleFifteenMaxLife bool `yaml:"schedule_15_max_life,omitempty" json:"schedule_15_max_life,omitempty"`
	ViolentOrSexual        bool `yaml:"violent_or_sexual,omitempty" json:"violent_or_sexual,omitempty"`
}

// Offence is the offence a sentence was imposed for.
type Offence struct {
	Code        string            `yaml:"code" json:"code"`
	CommittedAt time.Time         `yaml:"committed_at" json:"committed_at"`
	Indicators  OffenceIndicators `yaml:"indicators,omitempty" json:"indicators,omitempty"`
}

// SentenceCore holds the fields shared by every sentence variant. It is
// immutable once constructed; resolvers describe a sentence through an
// Annotation instead of writing back into it.
type SentenceCore struct {
	ID            string    `json:"id"`
	Offence       Offence   `json:"offence"`
	SentencedAt   time.Time `json:"sentenced_at"`
	Duration      Duration  `json:"duration"`
	ConsecutiveTo string    `json:"consecutive_to,omitempty"`
	CaseReference string    `json:"case_reference,omitempty"`
	CaseSequence  int       `json:"case_sequence,omitempty"`
	LineSequence  int       `json:"line_sequence,omitempty"`
}

// Core returns the shared sentence fields.
func (c SentenceCore) Core() SentenceCore { return c }

func (SentenceCore) isSentence() {}

// Sentence is the closed set of sentence variants. Every implementation
// embeds SentenceCore.
type Sentence interface {
	Core() SentenceCore
	Kind() SentenceKind
	// TotalDuration is the full term including any extension or licence
	// period that follows the custodial term.
	TotalDuration() Duration
	// ChainEligible reports whether the sentence may take part in a
	// consecutive chain.
	ChainEligible() bool
	isSentence()
}

// StandardDeterminate is a standard determinate sentence (SDS).
type StandardDeterminate struct {
	SentenceCore
	EarlyReleaseExcluded bool `json:"early_release_excluded,omitempty"`
}

func (StandardDeterminate) Kind() SentenceKind        { return KindStandardDeterminate }
func (s StandardDeterminate) TotalDuration() Duration { return s.Duration }
func (StandardDeterminate) ChainEligible() bool       { return true }

// ExtendedDeterminate is a custodial term followed by an extended licence.
type ExtendedDeterminate struct {
	SentenceCore
	Extension Duration `json:"extension"`
}

func (ExtendedDeterminate) Kind() SentenceKind { return KindExtendedDeterminate }
func (s ExtendedDeterminate) TotalDuration() Duration {
	return s.Duration.Plus(s.Extension)
}
func (ExtendedDeterminate) ChainEligible() bool { return true }

// SOPC is a special custodial sentence for offenders of particular concern.
// The licence period is a year unless the court said otherwise.
type SOPC struct {
	SentenceCore
	LicencePeriod Duration `json:"licence_period"`
}

func (SOPC) Kind() SentenceKind        { return KindSOPC }
func (s SOPC) TotalDuration() Duration { return s.Duration.Plus(s.LicencePeriod) }
func (SOPC) ChainEligible() bool       { return true }

// AFine is a term imposed in default of paying a fine.
type AFine struct {
	SentenceCore
	FineAmount decimal.Decimal `json:"fine_amount"`
}

func (AFine) Kind() SentenceKind        { return KindAFine }
func (s AFine) TotalDuration() Duration { return s.Duration }
func (AFine) ChainEligible() bool       { return true }

// DetentionAndTraining is a youth detention and training order.
type DetentionAndTraining struct {
	SentenceCore
}

func (DetentionAndTraining) Kind() SentenceKind        { return KindDetentionAndTraining }
func (s DetentionAndTraining) TotalDuration() Duration { return s.Duration }
func (DetentionAndTraining) ChainEligible() bool       { return true }

// BailOnTheRun is a fixed term served in full with no licence.
type BailOnTheRun struct {
	SentenceCore
}

func (BailOnTheRun) Kind() SentenceKind        { return KindBailOnTheRun }
func (s BailOnTheRun) TotalDuration() Duration { return s.Duration }
func (BailOnTheRun) ChainEligible() bool       { return false }

// Indeterminate is a life or IPP sentence; Duration holds the tariff.
type Indeterminate struct {
	SentenceCore
}

func (Indeterminate) Kind() SentenceKind        { return KindIndeterminate }
func (s Indeterminate) TotalDuration() Duration { return s.Duration }
func (Indeterminate) ChainEligible() bool       { return false }

// SentenceIDs lists the identifiers of the given sentences in order.
func SentenceIDs(sentences []Sentence) []string {
	ids := make([]string, 0, len(sentences))
	for _, s := range sentences {
		ids = append(ids, s.Core().ID)
	}
	return ids
}
