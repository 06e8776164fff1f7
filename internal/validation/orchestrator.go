// Package validation runs staged validators around a calculation so that a
// user-correctable problem is reported in user terms before any raw
// calculation failure surfaces.
package validation

import (
	"github.com/rgehrsitz/rdcalc/internal/calculation"
	"github.com/rgehrsitz/rdcalc/internal/domain"
)

// Calculator runs a calculation. *calculation.Engine satisfies it.
type Calculator interface {
	Calculate(booking *domain.Booking, inputs domain.UserInputs) (*domain.CalculationOutput, error)
}

// BookingBuilder turns source data into a booking.
type BookingBuilder func(src domain.SourceData, logger calculation.Logger) (*domain.Booking, error)

// Orchestrator runs the registry's validators stage by stage, building the
// booking and attempting the calculation at most once per run.
type Orchestrator struct {
	Registry     *Registry
	Engine       Calculator
	BuildBooking BookingBuilder
	Logger       calculation.Logger
}

// NewOrchestrator creates an orchestrator with the built-in validators.
func NewOrchestrator(engine Calculator) *Orchestrator {
	return &Orchestrator{
		Registry:     NewRegistry(),
		Engine:       engine,
		BuildBooking: calculation.BuildBooking,
		Logger:       calculation.NopLogger{},
	}
}

// Result is the outcome of a run. Output is set whenever the calculation
// succeeded, even if a later validator reported messages.
type Result struct {
	Messages []domain.ValidationMessage
	Stage    Stage
	Booking  *domain.Booking
	Output   *domain.CalculationOutput
}

// attempt memoizes the expensive steps of one run. It is never shared
// between runs.
type attempt struct {
	built      bool
	booking    *domain.Booking
	calculated bool
	output     *domain.CalculationOutput
	// failure is the first build or calculation error, held back until
	// every stage has had the chance to explain it.
	failure error
}

func (o *Orchestrator) logger() calculation.Logger {
	if o.Logger == nil {
		return calculation.NopLogger{}
	}
	return o.Logger
}

func (o *Orchestrator) booking(a *attempt, src domain.SourceData) *domain.Booking {
	if !a.built {
		a.built = true
		b, err := o.BuildBooking(src, o.logger())
		if err != nil {
			a.failure = err
		}
		a.booking = b
	}
	return a.booking
}

func (o *Orchestrator) calculate(a *attempt, inputs domain.UserInputs) *domain.CalculationOutput {
	if !a.calculated && a.booking != nil {
		a.calculated = true
		out, err := o.Engine.Calculate(a.booking, inputs)
		if err != nil {
			o.logger().Debugf("calculation failed, deferring: %v", err)
			a.failure = err
		}
		a.output = out
	}
	return a.output
}

// Validate runs every stage up to and including ceiling and returns the
// messages of the first stage that reports any. If no stage reports
// anything but the booking build or the calculation failed, that failure is
// returned unchanged.
func (o *Orchestrator) Validate(src domain.SourceData, inputs domain.UserInputs, ceiling Stage) ([]domain.ValidationMessage, error) {
	res, err := o.Run(src, inputs, ceiling)
	return res.Messages, err
}

// Run is Validate that also hands back the booking and calculation output.
func (o *Orchestrator) Run(src domain.SourceData, inputs domain.UserInputs, ceiling Stage) (Result, error) {
	sorted := src.Sorted()
	a := &attempt{}
	log := o.logger()

	for _, stage := range Stages {
		if stage > ceiling {
			break
		}

		for _, v := range o.Registry.source[stage] {
			if msgs := v.check(sorted, inputs); len(msgs) > 0 {
				log.Debugf("%s/%s reported %d messages", stage, v.name, len(msgs))
				return o.result(a, stage, msgs), nil
			}
		}

		booking := o.booking(a, sorted)
		if booking == nil {
			continue
		}
		for _, v := range o.Registry.booking[stage] {
			if msgs := v.check(booking, inputs); len(msgs) > 0 {
				log.Debugf("%s/%s reported %d messages", stage, v.name, len(msgs))
				return o.result(a, stage, msgs), nil
			}
		}

		out := o.calculate(a, inputs)
		if out == nil {
			continue
		}
		for _, v := range o.Registry.calculation[stage] {
			if msgs := v.check(booking, out, inputs); len(msgs) > 0 {
				log.Debugf("%s/%s reported %d messages", stage, v.name, len(msgs))
				return o.result(a, stage, msgs), nil
			}
		}
	}

	if a.failure != nil {
		log.Errorf("no validator explained the failure of booking %s: %v", src.BookingID, a.failure)
		return o.result(a, ceiling, nil), a.failure
	}
	return o.result(a, ceiling, nil), nil
}

func (o *Orchestrator) result(a *attempt, stage Stage, msgs []domain.ValidationMessage) Result {
	return Result{Messages: msgs, Stage: stage, Booking: a.booking, Output: a.output}
}
