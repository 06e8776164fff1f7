package validation

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/rdcalc/internal/domain"
)

// SourceDataCheck inspects the raw, sorted input.
type SourceDataCheck func(src domain.SourceData, inputs domain.UserInputs) []domain.ValidationMessage

// BookingCheck inspects the built booking before calculation.
type BookingCheck func(booking *domain.Booking, inputs domain.UserInputs) []domain.ValidationMessage

// CalculationCheck inspects a successful calculation.
type CalculationCheck func(booking *domain.Booking, out *domain.CalculationOutput, inputs domain.UserInputs) []domain.ValidationMessage

type entry[F any] struct {
	name  string
	check F
}

// Registry holds the validators the orchestrator runs, by stage and in
// registration order.
type Registry struct {
	names       map[string]Stage
	source      map[Stage][]entry[SourceDataCheck]
	booking     map[Stage][]entry[BookingCheck]
	calculation map[Stage][]entry[CalculationCheck]
}

// NewEmptyRegistry creates a registry with no validators.
func NewEmptyRegistry() *Registry {
	return &Registry{
		names:       make(map[string]Stage),
		source:      make(map[Stage][]entry[SourceDataCheck]),
		booking:     make(map[Stage][]entry[BookingCheck]),
		calculation: make(map[Stage][]entry[CalculationCheck]),
	}
}

// NewRegistry creates a registry with all built-in validators registered.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()

	r.MustRegisterSource("no_sentences", StageInitial, checkHasSentences)
	r.MustRegisterSource("sentence_date_missing", StageInitial, checkSentenceDates)

	r.MustRegisterSource("unsupported_sentence_type", StageUnsupported, checkSupportedKinds)
	r.MustRegisterBooking("indeterminate_with_determinate", StageUnsupported, checkIndeterminateMix)
	r.MustRegisterBooking("dto_consecutive_to_non_dto", StageUnsupported, checkDTOChains)
	r.MustRegisterBooking("consecutive_not_eligible", StageUnsupported, checkChainEligibility)

	r.MustRegisterSource("duplicate_sentence_id", StageInvalid, checkDuplicateIDs)
	r.MustRegisterSource("zero_duration", StageInvalid, checkDurations)
	r.MustRegisterSource("extension_missing", StageInvalid, checkExtensions)
	r.MustRegisterSource("consecutive_to_unknown", StageInvalid, checkConsecutiveTargets)
	r.MustRegisterSource("adjustment_period_inverted", StageInvalid, checkAdjustmentPeriods)
	r.MustRegisterSource("adjustment_unknown_sentence", StageInvalid, checkAdjustmentSentences)
	r.MustRegisterBooking("consecutive_cycle", StageInvalid, checkCycles)

	r.MustRegisterCalculation("ersed_not_applicable", StageOther, checkErsedApplicable)
	r.MustRegisterCalculation("release_before_sentence", StageOther, checkReleaseAfterSentence)

	return r
}

func (r *Registry) claim(name string, stage Stage) error {
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("validator %s is already registered", name)
	}
	r.names[name] = stage
	return nil
}

// RegisterSource adds a source data validator.
func (r *Registry) RegisterSource(name string, stage Stage, check SourceDataCheck) error {
	if err := r.claim(name, stage); err != nil {
		return err
	}
	r.source[stage] = append(r.source[stage], entry[SourceDataCheck]{name, check})
	return nil
}

// RegisterBooking adds a booking validator.
func (r *Registry) RegisterBooking(name string, stage Stage, check BookingCheck) error {
	if err := r.claim(name, stage); err != nil {
		return err
	}
	r.booking[stage] = append(r.booking[stage], entry[BookingCheck]{name, check})
	return nil
}

// RegisterCalculation adds a post-calculation validator.
func (r *Registry) RegisterCalculation(name string, stage Stage, check CalculationCheck) error {
	if err := r.claim(name, stage); err != nil {
		return err
	}
	r.calculation[stage] = append(r.calculation[stage], entry[CalculationCheck]{name, check})
	return nil
}

// MustRegisterSource is RegisterSource that panics on a duplicate name.
func (r *Registry) MustRegisterSource(name string, stage Stage, check SourceDataCheck) {
	if err := r.RegisterSource(name, stage, check); err != nil {
		panic(err)
	}
}

// MustRegisterBooking is RegisterBooking that panics on a duplicate name.
func (r *Registry) MustRegisterBooking(name string, stage Stage, check BookingCheck) {
	if err := r.RegisterBooking(name, stage, check); err != nil {
		panic(err)
	}
}

// MustRegisterCalculation is RegisterCalculation that panics on a
// duplicate name.
func (r *Registry) MustRegisterCalculation(name string, stage Stage, check CalculationCheck) {
	if err := r.RegisterCalculation(name, stage, check); err != nil {
		panic(err)
	}
}

// List returns the registered validator names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.names))
	for name := range r.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StageOf reports the stage a validator was registered at.
func (r *Registry) StageOf(name string) (Stage, bool) {
	s, ok := r.names[name]
	return s, ok
}
