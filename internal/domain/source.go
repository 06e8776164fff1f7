package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SentenceRecord is a sentence as supplied by the caller, before it is
// turned into a typed Sentence.
type SentenceRecord struct {
	ID                   string           `yaml:"id" json:"id"`
	Kind                 SentenceKind     `yaml:"kind" json:"kind"`
	SentencedAt          time.Time        `yaml:"sentenced_at" json:"sentenced_at"`
	Duration             Duration         `yaml:"duration" json:"duration"`
	Extension            *Duration        `yaml:"extension,omitempty" json:"extension,omitempty"`
	LicencePeriod        *Duration        `yaml:"licence_period,omitempty" json:"licence_period,omitempty"`
	ConsecutiveTo        string           `yaml:"consecutive_to,omitempty" json:"consecutive_to,omitempty"`
	CaseReference        string           `yaml:"case_reference,omitempty" json:"case_reference,omitempty"`
	CaseSequence         int              `yaml:"case_sequence,omitempty" json:"case_sequence,omitempty"`
	LineSequence         int              `yaml:"line_sequence,omitempty" json:"line_sequence,omitempty"`
	Offence              Offence          `yaml:"offence" json:"offence"`
	EarlyReleaseExcluded bool             `yaml:"early_release_excluded,omitempty" json:"early_release_excluded,omitempty"`
	FineAmount           *decimal.Decimal `yaml:"fine_amount,omitempty" json:"fine_amount,omitempty"`
}

// DefaultSOPCLicencePeriod is the licence that follows an SOPC custodial term
// when none is recorded.
var DefaultSOPCLicencePeriod = Duration{Years: 1}

// ToSentence converts the record into its typed variant.
func (r SentenceRecord) ToSentence() (Sentence, error) {
	core := SentenceCore{
		ID:            r.ID,
		Offence:       r.Offence,
		SentencedAt:   r.SentencedAt,
		Duration:      r.Duration,
		ConsecutiveTo: r.ConsecutiveTo,
		CaseReference: r.CaseReference,
		CaseSequence:  r.CaseSequence,
		LineSequence:  r.LineSequence,
	}

	switch r.Kind {
	case KindStandardDeterminate:
		return StandardDeterminate{SentenceCore: core, EarlyReleaseExcluded: r.EarlyReleaseExcluded}, nil
	case KindExtendedDeterminate:
		s := ExtendedDeterminate{SentenceCore: core}
		if r.Extension != nil {
			s.Extension = *r.Extension
		}
		return s, nil
	case KindSOPC:
		s := SOPC{SentenceCore: core, LicencePeriod: DefaultSOPCLicencePeriod}
		if r.LicencePeriod != nil {
			s.LicencePeriod = *r.LicencePeriod
		}
		return s, nil
	case KindAFine:
		s := AFine{SentenceCore: core}
		if r.FineAmount != nil {
			s.FineAmount = *r.FineAmount
		}
		return s, nil
	case KindDetentionAndTraining:
		return DetentionAndTraining{SentenceCore: core}, nil
	case KindBailOnTheRun:
		return BailOnTheRun{SentenceCore: core}, nil
	case KindIndeterminate:
		return Indeterminate{SentenceCore: core}, nil
	default:
		return nil, fmt.Errorf("sentence %s has unsupported kind %q", r.ID, r.Kind)
	}
}

// IsSupportedKind reports whether ToSentence understands the kind.
func IsSupportedKind(kind SentenceKind) bool {
	switch kind {
	case KindStandardDeterminate, KindExtendedDeterminate, KindSOPC, KindAFine,
		KindDetentionAndTraining, KindBailOnTheRun, KindIndeterminate:
		return true
	}
	return false
}

// SourceData is everything a calculation needs about one booking, as
// fetched by an external collaborator.
type SourceData struct {
	BookingID   string           `yaml:"booking_id" json:"booking_id"`
	PersonID    string           `yaml:"person_id" json:"person_id"`
	Sentences   []SentenceRecord `yaml:"sentences" json:"sentences"`
	Adjustments []Adjustment     `yaml:"adjustments,omitempty" json:"adjustments,omitempty"`
}

// Sorted returns a copy with sentences in sentencing-date order. The
// receiver is left untouched.
func (s SourceData) Sorted() SourceData {
	out := s
	out.Sentences = append([]SentenceRecord(nil), s.Sentences...)
	out.Adjustments = append([]Adjustment(nil), s.Adjustments...)
	sort.SliceStable(out.Sentences, func(i, j int) bool {
		a, b := out.Sentences[i], out.Sentences[j]
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
	return out
}

// WithAdjustments returns a copy whose adjustments are replaced.
func (s SourceData) WithAdjustments(adjustments []Adjustment) SourceData {
	out := s
	out.Adjustments = append([]Adjustment(nil), adjustments...)
	return out
}
