package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/rdcalc/internal/calculation"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/validation"
)

// BaseScenarioName names the scenario built from the booking as supplied.
const BaseScenarioName = "base"

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	Catalogue         domain.RulesCatalogue
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *TemplateRegistry
	Logger            calculation.Logger
}

// NewCompareEngine creates a new comparison engine with the built-in templates
func NewCompareEngine(catalogue domain.RulesCatalogue) *CompareEngine {
	return &CompareEngine{
		Catalogue:         catalogue,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  CreateBuiltInTemplates(),
		Logger:            calculation.NopLogger{},
	}
}

// Compare calculates the booking as supplied and once per template, and
// measures each template against the base. A scenario that fails validation
// fails the comparison with a *domain.ValidationFailure.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	src domain.SourceData,
	inputs domain.UserInputs,
	templates []string,
) (*ComparisonSet, error) {

	base := Scenario{
		Name:      BaseScenarioName,
		Source:    src,
		Inputs:    inputs,
		Catalogue: ce.Catalogue,
	}

	// Resolve every template before calculating anything
	scenarios := make([]Scenario, 0, len(templates))
	for _, name := range templates {
		template, ok := ce.TemplateRegistry.Get(name)
		if !ok {
			return nil, fmt.Errorf("template %s not found (available: %v)", name, ce.TemplateRegistry.List())
		}
		s := template.Apply(base)
		s.Name = template.Name
		s.Description = template.Description
		scenarios = append(scenarios, s)
	}

	baseOutput, err := ce.run(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(base.Name, baseOutput)
	baseResult.Description = "Booking as supplied"

	alternatives := []ComparisonResult{}
	for _, s := range scenarios {
		out, err := ce.run(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", s.Name, err)
		}

		altResult := ce.MetricsCalculator.CalculateMetrics(s.Name, out)
		altResult.Description = s.Description
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		BookingID:          src.BookingID,
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) run(ctx context.Context, s Scenario) (*domain.CalculationOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engine, err := calculation.NewEngine(s.Catalogue)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(ce.Logger)
	orchestrator := validation.NewOrchestrator(engine)
	orchestrator.Logger = ce.Logger

	res, err := orchestrator.Run(s.Source, s.Inputs, validation.StageOther)
	if err != nil {
		return nil, err
	}
	if len(res.Messages) > 0 {
		return nil, &domain.ValidationFailure{Messages: res.Messages}
	}
	ce.Logger.Debugf("scenario %s calculated with fingerprint %s", s.Name, res.Output.InputFingerprint)
	return res.Output, nil
}
