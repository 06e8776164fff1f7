// Package deductions works out how much remand and tagged bail credit a
// person could not use, so the unused-deductions record held elsewhere can
// be brought into line.
package deductions

import (
	"context"
	"fmt"
	"time"

	"github.com/rgehrsitz/rdcalc/internal/calculation"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// SourceDataProvider fetches a person's current booking data.
type SourceDataProvider interface {
	SourceData(ctx context.Context, personID string) (domain.SourceData, error)
}

// Calculator runs a calculation. *calculation.Engine satisfies it.
type Calculator interface {
	Calculate(booking *domain.Booking, inputs domain.UserInputs) (*domain.CalculationOutput, error)
}

// Action is what should happen to the stored unused-deductions record.
type Action string

const (
	ActionNone   Action = "NONE"
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Result is the outcome of one reconciliation.
type Result struct {
	PersonID           string
	TotalDeductions    int
	AbsorbableDays     int
	UnusedDays         int
	ControllingRelease time.Time
	Action             Action
	// Record is the unused-deductions adjustment as it should be stored. It
	// is nil for ActionNone and ActionDelete.
	Record *domain.Adjustment
	// Existing is the record found in the supplied adjustments, if any.
	Existing *domain.Adjustment
	// Duplicates are any further unused-deductions records in the supplied
	// adjustments. A person holds at most one, so these are always deleted.
	Duplicates []domain.Adjustment
}

// Reconciler recalculates a person's booking with a proposed set of
// adjustments and derives the unused deduction days.
type Reconciler struct {
	Provider SourceDataProvider
	Engine   Calculator
	Inputs   domain.UserInputs
	Logger   calculation.Logger
}

// NewReconciler creates a reconciler with default user inputs.
func NewReconciler(provider SourceDataProvider, engine Calculator) *Reconciler {
	return &Reconciler{Provider: provider, Engine: engine, Logger: calculation.NopLogger{}}
}

// Reconcile replaces the person's adjustments with the supplied set,
// recalculates, and reports the unused days and the action to take on any
// unused-deductions record already in that set. Existing unused-deductions
// records never count towards the calculation.
func (r *Reconciler) Reconcile(ctx context.Context, personID string, adjustments []domain.Adjustment) (Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = calculation.NopLogger{}
	}

	src, err := r.Provider.SourceData(ctx, personID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load source data for %s: %w", personID, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var (
		existing   *domain.Adjustment
		duplicates []domain.Adjustment
		applied    = make([]domain.Adjustment, 0, len(adjustments))
	)
	for i := range adjustments {
		if adjustments[i].Type != domain.AdjustmentUnusedDeductions {
			applied = append(applied, adjustments[i])
			continue
		}
		if existing == nil {
			existing = &adjustments[i]
			continue
		}
		duplicates = append(duplicates, adjustments[i])
	}
	if len(duplicates) > 0 {
		logger.Warnf("person %s: %d extra unused-deductions records will be deleted", personID, len(duplicates))
	}

	booking, err := calculation.BuildBooking(src.WithAdjustments(applied), logger)
	if err != nil {
		return Result{}, err
	}
	out, err := r.Engine.Calculate(booking, r.Inputs)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		PersonID:        personID,
		Existing:        existing,
		Duplicates:      duplicates,
		TotalDeductions: TotalDeductions(applied),
	}

	release, ok := ControllingRelease(out.Calculations)
	if ok {
		res.ControllingRelease = release
		res.AbsorbableDays = AbsorbableDays(out.Calculations, latestSentencing(booking.Sentences))
		res.UnusedDays = UnusedDays(res.TotalDeductions, res.AbsorbableDays)
	}

	res.Action, res.Record = decide(existing, res.UnusedDays)
	logger.Infof("person %s: %d deduction days, %d absorbable, %d unused (%s)",
		personID, res.TotalDeductions, res.AbsorbableDays, res.UnusedDays, res.Action)
	return res, nil
}

// UnusedDays is the deduction credit beyond what could be absorbed. It is
// never negative.
func UnusedDays(totalDeductions, absorbable int) int {
	return max(0, totalDeductions-absorbable)
}

// TotalDeductions is the remand and tagged bail credit. Dated records are
// counted over the union of their periods, so a day covered twice is
// credited once; undated records add their days as given.
func TotalDeductions(adjustments []domain.Adjustment) int {
	total := 0
	var periods []dateutil.Interval
	for _, a := range adjustments {
		if !a.Type.IsDeduction() {
			continue
		}
		if p, ok := a.Period(); ok {
			periods = append(periods, p)
			continue
		}
		total += a.Days
	}
	return total + dateutil.UnionDays(periods)
}

// ControllingRelease is the earliest conditional, automatic or mid-term
// release date across all units. ok is false when no unit has one.
func ControllingRelease(calcs []domain.SentenceCalculation) (release time.Time, ok bool) {
	for _, c := range calcs {
		for _, t := range []domain.ReleaseDateType{domain.CRD, domain.ARD, domain.MTD} {
			if d, found := c.AdjustedDates[t]; found && (!ok || d.Before(release)) {
				release, ok = d, true
			}
		}
	}
	return release, ok
}

// AbsorbableDays is the most deduction credit the booking can use. The
// anchor is the unit whose release, before deductions, is latest. When it
// was sentenced before the latest sentencing date only the days from that
// date to its release can be absorbed; otherwise its whole custodial period
// plus its added days can.
func AbsorbableDays(calcs []domain.SentenceCalculation, latestSentencedAt time.Time) int {
	anchor := -1
	var anchorRelease time.Time
	for i, c := range calcs {
		d, ok := c.UnadjustedReleaseDate()
		if !ok {
			continue
		}
		d = dateutil.AddDays(d, c.Adjustments.NonDeductionDays())
		if anchor < 0 || d.After(anchorRelease) {
			anchor, anchorRelease = i, d
		}
	}
	if anchor < 0 {
		return 0
	}

	c := calcs[anchor]
	if !dateutil.SameDay(c.SentencedAt, latestSentencedAt) {
		return max(0, dateutil.DaysBetweenInclusive(latestSentencedAt, anchorRelease))
	}
	return c.Adjustments.NonDeductionDays() + c.ReleaseDays
}

func latestSentencing(sentences []domain.Sentence) time.Time {
	var latest time.Time
	for _, s := range sentences {
		latest = dateutil.Latest(latest, s.Core().SentencedAt)
	}
	return latest
}

func decide(existing *domain.Adjustment, unused int) (Action, *domain.Adjustment) {
	if unused == 0 {
		if existing != nil {
			return ActionDelete, nil
		}
		return ActionNone, nil
	}

	record := &domain.Adjustment{Type: domain.AdjustmentUnusedDeductions, Days: unused}
	switch {
	case existing == nil:
		return ActionCreate, record
	case existing.EffectiveDays() != unused:
		record.ID = existing.ID
		record.SentenceID = existing.SentenceID
		return ActionUpdate, record
	default:
		return ActionNone, nil
	}
}
