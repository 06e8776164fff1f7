// Package identification assigns each sentence to the release policy track
// that governs it and resolves the release multiplier that track implies.
package identification

import (
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// Resolver maps sentences to identification tracks using the commencement
// dates and thresholds of a rules catalogue.
type Resolver struct {
	commencement domain.CommencementDates
	rules        domain.ReleasePointRules
}

// NewResolver creates a resolver for the given catalogue. Missing values are
// taken from the default catalogue.
func NewResolver(catalogue domain.RulesCatalogue) *Resolver {
	catalogue.ApplyDefaults()
	return &Resolver{
		commencement: catalogue.Commencement,
		rules:        catalogue.ReleaseRules,
	}
}

// Resolve returns the track for a sentence. A sentence whose attributes match
// no track yields a *domain.ClassificationError; there is no fallback track.
func (r *Resolver) Resolve(s domain.Sentence, inputs domain.UserInputs) (domain.IdentificationTrack, error) {
	core := s.Core()
	if core.SentencedAt.IsZero() {
		return "", classificationError(s, "sentencing date is missing")
	}

	switch v := s.(type) {
	case domain.StandardDeterminate:
		return r.resolveSDS(v, inputs), nil
	case domain.ExtendedDeterminate:
		return r.resolveEDS(v)
	case domain.SOPC:
		if core.SentencedAt.Before(r.commencement.PCSC) {
			return domain.TrackSOPCPEDAtHalfway, nil
		}
		return domain.TrackSOPCPEDAtTwoThirds, nil
	case domain.AFine:
		if v.FineAmount.GreaterThanOrEqual(r.rules.AFineFullTermThreshold) {
			return domain.TrackAFineARDAtFullTerm, nil
		}
		return domain.TrackAFineARDAtHalfway, nil
	case domain.DetentionAndTraining:
		return domain.TrackDTO, nil
	case domain.BailOnTheRun:
		return domain.TrackBailOnTheRun, nil
	case domain.Indeterminate:
		return domain.TrackIndeterminate, nil
	default:
		return "", classificationError(s, "unrecognised sentence variant")
	}
}

// Annotate resolves the track and the multiplier that goes with it. SDS
// standard release starts at halfway; the tranche resolver may replace it.
func (r *Resolver) Annotate(s domain.Sentence, inputs domain.UserInputs) (domain.Annotation, error) {
	track, err := r.Resolve(s, inputs)
	if err != nil {
		return domain.Annotation{}, err
	}

	multiplier := domain.MultiplierHalf
	if track.IsMultiplierFixed() {
		m, err := track.FixedMultiplier()
		if err != nil {
			return domain.Annotation{}, err
		}
		multiplier = m
	}

	return domain.Annotation{
		SentenceID: s.Core().ID,
		Track:      track,
		Multiplier: multiplier,
	}, nil
}

func (r *Resolver) resolveSDS(s domain.StandardDeterminate, inputs domain.UserInputs) domain.IdentificationTrack {
	if !r.sdsPlusIndicated(s, inputs) {
		return domain.TrackSDSStandardRelease
	}

	start := s.SentencedAt
	end := s.Duration.EndDate(start)
	atLeast := func(years int) bool {
		return dateutil.IsAfterOrEqual(end, dateutil.AddPeriod(start, years, 0, 0))
	}

	if dateutil.IsAfterOrEqual(start, r.commencement.SDSPlus) && atLeast(r.rules.SDSPlusMinimumYears) {
		return domain.TrackSDSPlusRelease
	}
	if dateutil.IsAfterOrEqual(start, r.commencement.PCSC) && atLeast(r.rules.SDSPlusPCSCMinimumYears) {
		return domain.TrackSDSPlusRelease
	}
	return domain.TrackSDSStandardRelease
}

func (r *Resolver) sdsPlusIndicated(s domain.StandardDeterminate, inputs domain.UserInputs) bool {
	if inputs.UseOffenceIndicators {
		return s.Offence.Indicators.SDSPlus
	}
	answer, ok := inputs.AnswerFor(s.ID)
	return ok && answer.SDSPlus
}

func (r *Resolver) resolveEDS(s domain.ExtendedDeterminate) (domain.IdentificationTrack, error) {
	if s.Extension.IsZero() {
		return "", classificationError(s, "extended sentence has no extension period")
	}

	start := s.SentencedAt
	shortTerm := s.Duration.EndDate(start).Before(dateutil.AddPeriod(start, r.rules.EDSAutomaticMaximumYears, 0, 0))
	if dateutil.IsBeforeOrEqual(start, r.commencement.EDSAutomaticEnd) &&
		shortTerm && !s.Offence.Indicators.ScheduleFifteenMaxLife {
		return domain.TrackEDSAutomaticRelease, nil
	}
	return domain.TrackEDSDiscretionaryRelease, nil
}

func classificationError(s domain.Sentence, reason string) error {
	return &domain.ClassificationError{
		SentenceID: s.Core().ID,
		Kind:       s.Kind(),
		Reason:     reason,
	}
}
