// Package calculation computes release dates for a booking: per calculation
// unit first (a single sentence or a consecutive chain), then aggregated to
// the booking.
package calculation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/identification"
	"github.com/rgehrsitz/rdcalc/internal/tranche"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// Engine calculates release dates against one rules catalogue. An Engine
// holds no per-request state and may serve concurrent calls.
type Engine struct {
	Catalogue  domain.RulesCatalogue
	Identifier *identification.Resolver
	Tranches   *tranche.Resolver
	Logger     Logger

	// NewRequestID stamps each output; tests replace it for stable IDs.
	NewRequestID func() uuid.UUID

	nonReleaseDays map[string]bool
}

// NewEngine prepares an engine for the catalogue. Missing catalogue values
// are defaulted; malformed early release configurations are rejected.
func NewEngine(catalogue domain.RulesCatalogue) (*Engine, error) {
	catalogue.ApplyDefaults()

	tranches, err := tranche.NewResolver(catalogue.EarlyRelease)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare early release configurations: %w", err)
	}

	return &Engine{
		Catalogue:      catalogue,
		Identifier:     identification.NewResolver(catalogue),
		Tranches:       tranches,
		Logger:         NopLogger{},
		NewRequestID:   uuid.New,
		nonReleaseDays: catalogue.NonReleaseDaySet(),
	}, nil
}

// SetLogger sets the logger for the engine. A nil logger disables logging.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Calculate produces every release date for the booking. Sentences and
// adjustments are read, never modified. Any failure is returned as a
// *domain.CalculationError wrapping the cause.
func (e *Engine) Calculate(booking *domain.Booking, inputs domain.UserInputs) (*domain.CalculationOutput, error) {
	if booking == nil || len(booking.Sentences) == 0 {
		return nil, &domain.CalculationError{Operation: "calculate", Err: errors.New("booking has no sentences")}
	}

	annotations := make(map[string]domain.Annotation, len(booking.Sentences))
	ordered := make([]domain.Annotation, 0, len(booking.Sentences))
	position := make(map[string]int, len(booking.Sentences))
	for _, s := range booking.Sentences {
		a, err := e.Identifier.Annotate(s, inputs)
		if err != nil {
			return nil, &domain.CalculationError{Operation: "annotate", SentenceIDs: []string{s.Core().ID}, Err: err}
		}
		annotations[a.SentenceID] = a
		position[a.SentenceID] = len(ordered)
		ordered = append(ordered, a)
	}

	calcs := make([]domain.SentenceCalculation, 0, len(booking.Chains))
	for _, ch := range booking.Chains {
		links := make([]link, 0, len(ch))
		for _, s := range ch {
			links = append(links, link{sentence: s, annotation: annotations[s.Core().ID]})
		}
		if err := e.earlyRelease(links); err != nil {
			return nil, &domain.CalculationError{Operation: "early release", SentenceIDs: domain.SentenceIDs(ch), Err: err}
		}
		for _, l := range links {
			// a sentence shared by forked chains reports any tranche it was given
			if i := position[l.annotation.SentenceID]; ordered[i].EarlyRelease.IsTrancheZero() {
				ordered[i] = l.annotation
			}
		}
		calc, err := e.calculateUnit(links, booking.Adjustments, inputs)
		if err != nil {
			return nil, &domain.CalculationError{Operation: "calculate unit", SentenceIDs: domain.SentenceIDs(ch), Err: err}
		}
		calcs = append(calcs, calc)
	}

	fingerprint, err := Fingerprint(booking, inputs)
	if err != nil {
		return nil, &domain.CalculationError{Operation: "fingerprint", Err: err}
	}

	out := &domain.CalculationOutput{
		RequestID:        e.NewRequestID(),
		InputFingerprint: fingerprint,
		BookingID:        booking.BookingID,
		PersonID:         booking.PersonID,
		Annotations:      ordered,
		Calculations:     calcs,
		Dates:            e.aggregate(calcs, inputs),
	}
	e.Logger.Infof("booking %s calculated: %d units, %d dates (request %s)",
		booking.BookingID, len(calcs), len(out.Dates), out.RequestID)
	return out, nil
}

// aggregate reduces the unit results to one date per type. The latest date
// of each type wins and release points move off non-release days. HDCED and
// ERSED come only from the unit that controls release and are dropped unless
// they still fall before it once both have moved.
func (e *Engine) aggregate(calcs []domain.SentenceCalculation, inputs domain.UserInputs) map[domain.ReleaseDateType]domain.ReleaseDate {
	dates := make(map[domain.ReleaseDateType]domain.ReleaseDate)

	controlling := -1
	var release time.Time
	for i, c := range calcs {
		if d, ok := c.ReleaseDate(); ok && (controlling < 0 || d.After(release)) {
			controlling, release = i, d
		}
	}
	if controlling >= 0 && calcs[controlling].ReleaseType.MovesOffNonReleaseDays() {
		release = dateutil.PreviousWorkingDay(release, e.nonReleaseDays)
	}

	for _, t := range domain.ReleaseDateOrder {
		for i, c := range calcs {
			d, ok := c.AdjustedDates[t]
			if !ok {
				continue
			}
			if (t == domain.HDCED || t == domain.ERSED) && i != controlling {
				continue
			}
			if cur, seen := dates[t]; seen && !d.After(cur.Date) {
				continue
			}
			rules := append([]domain.CalculationRule(nil), c.Rules[t]...)
			if len(calcs) > 1 {
				rules = append(rules, domain.RuleControllingSentence)
			}
			dates[t] = domain.ReleaseDate{Type: t, Date: d, Rules: rules}
		}
	}

	for t, rd := range dates {
		if !t.MovesOffNonReleaseDays() {
			continue
		}
		if shifted := dateutil.PreviousWorkingDay(rd.Date, e.nonReleaseDays); !shifted.Equal(rd.Date) {
			e.Logger.Debugf("%s moved from %s to %s", t, dateutil.Format(rd.Date), dateutil.Format(shifted))
			rd.Date = shifted
			rd.Rules = append(rd.Rules, domain.RuleNonReleaseDayShift)
			dates[t] = rd
		}
	}

	for _, t := range []domain.ReleaseDateType{domain.HDCED, domain.ERSED} {
		if rd, ok := dates[t]; ok && !rd.Date.Before(release) {
			e.Logger.Debugf("%s %s dropped: not before release %s", t, dateutil.Format(rd.Date), dateutil.Format(release))
			delete(dates, t)
		}
	}

	for t, d := range inputs.OverrideDates {
		dates[t] = domain.ReleaseDate{Type: t, Date: dateutil.Truncate(d), Rules: []domain.CalculationRule{domain.RuleOverridden}}
	}
	return dates
}
