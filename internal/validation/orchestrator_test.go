package validation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/rdcalc/internal/calculation"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEngine struct {
	calls int
	err   error
	inner Calculator
}

func (e *countingEngine) Calculate(b *domain.Booking, inputs domain.UserInputs) (*domain.CalculationOutput, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	if e.inner != nil {
		return e.inner.Calculate(b, inputs)
	}
	return &domain.CalculationOutput{BookingID: b.BookingID}, nil
}

type countingBuilder struct {
	calls int
}

func (b *countingBuilder) build(src domain.SourceData, logger calculation.Logger) (*domain.Booking, error) {
	b.calls++
	return calculation.BuildBooking(src, logger)
}

func newTestOrchestrator(engine Calculator, registry *Registry) (*Orchestrator, *countingBuilder) {
	builder := &countingBuilder{}
	o := NewOrchestrator(engine)
	o.Registry = registry
	o.BuildBooking = builder.build
	return o, builder
}

func validSource() domain.SourceData {
	return domain.SourceData{
		BookingID: "B1",
		PersonID:  "P1",
		Sentences: []domain.SentenceRecord{{
			ID:          "S1",
			Kind:        domain.KindStandardDeterminate,
			SentencedAt: dateutil.Date(2020, 1, 1),
			Duration:    domain.Duration{Days: 1},
		}},
	}
}

func message(code domain.ValidationCode) []domain.ValidationMessage {
	return []domain.ValidationMessage{domain.NewValidationMessage(code, "test")}
}

func TestOrchestrator_ShortCircuitsOnSourceMessages(t *testing.T) {
	registry := NewEmptyRegistry()
	laterCalled := false
	registry.MustRegisterSource("always", StageInitial, func(domain.SourceData, domain.UserInputs) []domain.ValidationMessage {
		return message(domain.CodeNoSentences)
	})
	registry.MustRegisterSource("later", StageInvalid, func(domain.SourceData, domain.UserInputs) []domain.ValidationMessage {
		laterCalled = true
		return nil
	})

	engine := &countingEngine{}
	o, builder := newTestOrchestrator(engine, registry)

	msgs, err := o.Validate(validSource(), domain.UserInputs{}, StageOther)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.CodeNoSentences, msgs[0].Code)

	assert.Equal(t, 0, builder.calls, "No booking is built")
	assert.Equal(t, 0, engine.calls, "Calculation is never attempted")
	assert.False(t, laterCalled, "Later stages do not run")
}

func TestOrchestrator_BuildsAndCalculatesOnce(t *testing.T) {
	registry := NewEmptyRegistry()
	bookingChecks := 0
	for _, stage := range Stages {
		registry.MustRegisterBooking("booking_"+stage.String(), stage, func(*domain.Booking, domain.UserInputs) []domain.ValidationMessage {
			bookingChecks++
			return nil
		})
	}

	engine := &countingEngine{}
	o, builder := newTestOrchestrator(engine, registry)

	res, err := o.Run(validSource(), domain.UserInputs{}, StageOther)
	require.NoError(t, err)
	assert.Empty(t, res.Messages)
	assert.NotNil(t, res.Output)

	assert.Equal(t, 1, builder.calls)
	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, len(Stages), bookingChecks)
}

func TestOrchestrator_DefersCalculationFailure(t *testing.T) {
	failure := errors.New("arithmetic went wrong")

	t.Run("raised when nothing explains it", func(t *testing.T) {
		registry := NewEmptyRegistry()
		postCalls := 0
		registry.MustRegisterCalculation("post", StageOther, func(*domain.Booking, *domain.CalculationOutput, domain.UserInputs) []domain.ValidationMessage {
			postCalls++
			return nil
		})
		engine := &countingEngine{err: failure}
		o, _ := newTestOrchestrator(engine, registry)

		msgs, err := o.Validate(validSource(), domain.UserInputs{}, StageOther)
		assert.Empty(t, msgs)
		assert.Same(t, failure, err, "The original failure is returned unchanged")
		assert.Equal(t, 1, engine.calls)
		assert.Equal(t, 0, postCalls, "Post-calculation checks need a result")
	})

	t.Run("explained by a later stage", func(t *testing.T) {
		registry := NewEmptyRegistry()
		registry.MustRegisterSource("explains", StageInvalid, func(domain.SourceData, domain.UserInputs) []domain.ValidationMessage {
			return message(domain.CodeZeroDuration)
		})
		engine := &countingEngine{err: failure}
		o, _ := newTestOrchestrator(engine, registry)

		res, err := o.Run(validSource(), domain.UserInputs{}, StageOther)
		require.NoError(t, err)
		require.Len(t, res.Messages, 1)
		assert.Equal(t, StageInvalid, res.Stage)
		assert.Equal(t, 1, engine.calls, "Calculation was attempted at the first stage")
	})

	t.Run("ceiling stops before the explanation", func(t *testing.T) {
		registry := NewEmptyRegistry()
		registry.MustRegisterSource("explains", StageInvalid, func(domain.SourceData, domain.UserInputs) []domain.ValidationMessage {
			return message(domain.CodeZeroDuration)
		})
		o, _ := newTestOrchestrator(&countingEngine{err: failure}, registry)

		_, err := o.Validate(validSource(), domain.UserInputs{}, StageUnsupported)
		assert.Same(t, failure, err)
	})
}

func TestOrchestrator_BuildFailureIsDeferred(t *testing.T) {
	src := validSource()
	src.Sentences[0].Kind = "COMMUNITY_ORDER"
	engine := &countingEngine{}
	o, builder := newTestOrchestrator(engine, NewRegistry())

	res, err := o.Run(src, domain.UserInputs{}, StageOther)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, domain.CodeUnsupportedSentenceType, res.Messages[0].Code)
	assert.Equal(t, domain.CategoryUnsupportedSentence, res.Messages[0].Category)
	assert.Equal(t, 1, builder.calls)
	assert.Equal(t, 0, engine.calls)

	o.Registry = NewEmptyRegistry()
	_, err = o.Validate(src, domain.UserInputs{}, StageOther)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COMMUNITY_ORDER")
}

func TestOrchestrator_PostCalculationMessages(t *testing.T) {
	engine, err := calculation.NewEngine(domain.DefaultRulesCatalogue())
	require.NoError(t, err)
	o := NewOrchestrator(engine)

	src := validSource()
	src.Sentences[0].Kind = domain.KindBailOnTheRun

	res, err := o.Run(src, domain.UserInputs{CalculateErsed: true}, StageOther)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, domain.CodeErsedNotApplicable, res.Messages[0].Code)
	assert.Equal(t, StageOther, res.Stage)
	assert.NotNil(t, res.Output, "The calculation is still handed back")
}

func TestOrchestrator_ExplainsClassificationFailure(t *testing.T) {
	engine, err := calculation.NewEngine(domain.DefaultRulesCatalogue())
	require.NoError(t, err)
	counting := &countingEngine{inner: engine}
	o, _ := newTestOrchestrator(counting, NewRegistry())

	src := validSource()
	src.Sentences[0].Kind = domain.KindExtendedDeterminate
	src.Sentences[0].Duration = domain.Duration{Years: 5}

	msgs, err := o.Validate(src, domain.UserInputs{}, StageOther)
	require.NoError(t, err, "The extension validator explains the failure")
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.CodeMissingExtension, msgs[0].Code)
	assert.Equal(t, 1, counting.calls)
}

func TestOrchestrator_ValidBooking(t *testing.T) {
	engine, err := calculation.NewEngine(domain.DefaultRulesCatalogue())
	require.NoError(t, err)
	o := NewOrchestrator(engine)

	res, err := o.Run(validSource(), domain.UserInputs{}, StageOther)
	require.NoError(t, err)
	assert.Empty(t, res.Messages)
	require.NotNil(t, res.Output)
	assert.Equal(t, dateutil.Date(2020, 1, 1), res.Output.Dates[domain.CRD].Date)
}
