package validation

import (
	"github.com/rgehrsitz/rdcalc/internal/chain"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

func checkHasSentences(src domain.SourceData, _ domain.UserInputs) []domain.ValidationMessage {
	if len(src.Sentences) > 0 {
		return nil
	}
	return []domain.ValidationMessage{
		domain.NewValidationMessage(domain.CodeNoSentences, "booking %s has no sentences", src.BookingID),
	}
}

func checkSentenceDates(src domain.SourceData, _ domain.UserInputs) []domain.ValidationMessage {
	var msgs []domain.ValidationMessage
	for _, s := range src.Sentences {
		if s.SentencedAt.IsZero() {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeMissingSentenceDate,
				"sentence %s has no sentencing date", s.ID).WithArguments(s.ID))
		}
	}
	return msgs
}

func checkSupportedKinds(src domain.SourceData, _ domain.UserInputs) []domain.ValidationMessage {
	var msgs []domain.ValidationMessage
	for _, s := range src.Sentences {
		if !domain.IsSupportedKind(s.Kind) {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeUnsupportedSentenceType,
				"sentence %s is of unsupported type %q", s.ID, s.Kind).
				WithArguments(s.ID, string(s.Kind)).
				InCategory(domain.CategoryUnsupportedSentence))
		}
	}
	return msgs
}

func checkIndeterminateMix(b *domain.Booking, _ domain.UserInputs) []domain.ValidationMessage {
	var indeterminate, determinate bool
	for _, s := range b.Sentences {
		if s.Kind() == domain.KindIndeterminate {
			indeterminate = true
		} else {
			determinate = true
		}
	}
	if !indeterminate || !determinate {
		return nil
	}
	return []domain.ValidationMessage{
		domain.NewValidationMessage(domain.CodeIndeterminateWithDeterminate,
			"booking %s mixes indeterminate and determinate sentences", b.BookingID).
			InCategory(domain.CategoryUnsupportedCalculation),
	}
}

func checkDTOChains(b *domain.Booking, _ domain.UserInputs) []domain.ValidationMessage {
	var msgs []domain.ValidationMessage
	for _, ch := range b.Chains {
		for i := 1; i < len(ch); i++ {
			prev, cur := ch[i-1], ch[i]
			if cur.Kind() == domain.KindDetentionAndTraining && prev.Kind() != domain.KindDetentionAndTraining {
				msgs = append(msgs, domain.NewValidationMessage(domain.CodeDTOConsecutiveToNonDTO,
					"detention and training order %s runs consecutively to %s sentence %s",
					cur.Core().ID, prev.Kind(), prev.Core().ID).
					WithArguments(cur.Core().ID, prev.Core().ID).
					InCategory(domain.CategoryUnsupportedCalculation))
			}
		}
	}
	return msgs
}

// checkChainEligibility flags sentences that cannot take part in a chain
// but were recorded as running consecutively to another.
func checkChainEligibility(b *domain.Booking, _ domain.UserInputs) []domain.ValidationMessage {
	var msgs []domain.ValidationMessage
	for _, s := range b.Sentences {
		core := s.Core()
		if !s.ChainEligible() && core.ConsecutiveTo != "" {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeConsecutiveNotEligible,
				"%s sentence %s cannot run consecutively to %s", s.Kind(), core.ID, core.ConsecutiveTo).
				WithArguments(core.ID, core.ConsecutiveTo).
				InCategory(domain.CategoryUnsupportedCalculation))
		}
	}
	return msgs
}

func checkDuplicateIDs(src domain.SourceData, _ domain.UserInputs) []domain.ValidationMessage {
	var msgs []domain.ValidationMessage
	seen := make(map[string]bool, len(src.Sentences))
	for _, s := range src.Sentences {
		if seen[s.ID] {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeDuplicateSentence,
				"sentence id %s is used more than once", s.ID).WithArguments(s.ID))
		}
		seen[s.ID] = true
	}
	return msgs
}

func checkDurations(src domain.SourceData, _ domain.UserInputs) []domain.ValidationMessage {
	var msgs []domain.ValidationMessage
	for _, s := range src.Sentences {
		if s.Duration.IsZero() {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeZeroDuration,
				"sentence %s has no length", s.ID).WithArguments(s.ID))
		}
	}
	return msgs
}

func checkExtensions(src domain.SourceData, _ domain.UserInputs) []domain.ValidationMessage {
	var msgs []domain.ValidationMessage
	for _, s := range src.Sentences {
		if s.Kind == domain.KindExtendedDeterminate && (s.Extension == nil || s.Extension.IsZero()) {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeMissingExtension,
				"extended sentence %s has no extension period", s.ID).WithArguments(s.ID))
		}
	}
	return msgs
}

func checkConsecutiveTargets(src domain.SourceData, _ domain.UserInputs) []domain.ValidationMessage {
	ids := make(map[string]bool, len(src.Sentences))
	for _, s := range src.Sentences {
		ids[s.ID] = true
	}

	var msgs []domain.ValidationMessage
	for _, s := range src.Sentences {
		if s.ConsecutiveTo != "" && !ids[s.ConsecutiveTo] {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeConsecutiveToUnknown,
				"sentence %s runs consecutively to unknown sentence %s", s.ID, s.ConsecutiveTo).
				WithArguments(s.ID, s.ConsecutiveTo))
		}
	}
	return msgs
}

func checkAdjustmentPeriods(src domain.SourceData, _ domain.UserInputs) []domain.ValidationMessage {
	var msgs []domain.ValidationMessage
	for _, a := range src.Adjustments {
		if a.From != nil && a.To != nil && a.To.Before(*a.From) {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeAdjustmentPeriodInverted,
				"%s adjustment %s ends on %s, before it starts on %s",
				a.Type, a.ID, dateutil.Format(*a.To), dateutil.Format(*a.From)).WithArguments(a.ID))
		}
	}
	return msgs
}

func checkAdjustmentSentences(src domain.SourceData, _ domain.UserInputs) []domain.ValidationMessage {
	ids := make(map[string]bool, len(src.Sentences))
	for _, s := range src.Sentences {
		ids[s.ID] = true
	}

	var msgs []domain.ValidationMessage
	for _, a := range src.Adjustments {
		if a.SentenceID != "" && !ids[a.SentenceID] {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeAdjustmentUnknownSentence,
				"%s adjustment %s refers to unknown sentence %s", a.Type, a.ID, a.SentenceID).
				WithArguments(a.ID, a.SentenceID))
		}
	}
	return msgs
}

// checkCycles reports sentences left out of every chain even though the
// sentence they follow exists, which only happens when they loop back on
// themselves.
func checkCycles(b *domain.Booking, _ domain.UserInputs) []domain.ValidationMessage {
	var msgs []domain.ValidationMessage
	keyOf := func(s domain.Sentence) string { return s.Core().ID }
	for _, s := range chain.Unreached(b.Sentences, b.Chains, keyOf) {
		core := s.Core()
		if _, ok := b.SentenceByID(core.ConsecutiveTo); ok {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeConsecutiveCycle,
				"sentence %s is part of a consecutive cycle through %s", core.ID, core.ConsecutiveTo).
				WithArguments(core.ID, core.ConsecutiveTo))
		}
	}
	return msgs
}

func checkErsedApplicable(_ *domain.Booking, out *domain.CalculationOutput, inputs domain.UserInputs) []domain.ValidationMessage {
	if !inputs.CalculateErsed {
		return nil
	}
	for _, a := range out.Annotations {
		if a.Track.CalculateErsed() {
			return nil
		}
	}
	return []domain.ValidationMessage{
		domain.NewValidationMessage(domain.CodeErsedNotApplicable,
			"early removal was requested but no sentence in booking %s is eligible", out.BookingID).
			InCategory(domain.CategoryUnsupportedCalculation),
	}
}

func checkReleaseAfterSentence(_ *domain.Booking, out *domain.CalculationOutput, _ domain.UserInputs) []domain.ValidationMessage {
	var msgs []domain.ValidationMessage
	for _, c := range out.Calculations {
		release, ok := c.ReleaseDate()
		if ok && release.Before(c.SentencedAt) {
			msgs = append(msgs, domain.NewValidationMessage(domain.CodeReleaseBeforeSentence,
				"adjustments move the release of %v to %s, before sentencing on %s",
				c.SentenceIDs, dateutil.Format(release), dateutil.Format(c.SentencedAt)).
				WithArguments(c.SentenceIDs...))
		}
	}
	return msgs
}
