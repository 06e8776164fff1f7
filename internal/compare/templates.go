package compare

import (
	"sort"
	"strings"

	"github.com/rgehrsitz/rdcalc/internal/domain"
)

// Scenario is one way of calculating a booking: the source data, the user
// inputs and the rules catalogue to run them against.
type Scenario struct {
	Name        string
	Description string
	Source      domain.SourceData
	Inputs      domain.UserInputs
	Catalogue   domain.RulesCatalogue
}

// ScenarioTransform modifies a scenario. It must not modify the scenario
// it is given in place; slices are copied before they are changed.
type ScenarioTransform func(Scenario) Scenario

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// Apply runs the template's transforms over a copy of the scenario.
func (t Template) Apply(s Scenario) Scenario {
	for _, transform := range t.Transforms {
		s = transform(s)
	}
	return s
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names in alphabetical order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with the common what-if
// questions asked of a booking.
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "ersed",
		Description: "Calculate the early removal scheme date",
		Transforms:  []ScenarioTransform{withErsed},
	})

	registry.Register(Template{
		Name:        "offence_indicators",
		Description: "Take SDS+ status from the recorded offence indicators",
		Transforms:  []ScenarioTransform{withOffenceIndicators},
	})

	registry.Register(Template{
		Name:        "sds_plus",
		Description: "Answer SDS+ for every sentence",
		Transforms:  []ScenarioTransform{withSDSPlusAnswers},
	})

	registry.Register(Template{
		Name:        "no_early_release",
		Description: "Run without any early release scheme",
		Transforms:  []ScenarioTransform{withoutEarlyRelease},
	})

	registry.Register(Template{
		Name:        "no_deductions",
		Description: "Drop remand and tagged bail",
		Transforms:  []ScenarioTransform{withoutAdjustments(domain.AdjustmentType.IsDeduction)},
	})

	registry.Register(Template{
		Name:        "no_added_days",
		Description: "Drop added, restored and unlawfully at large days",
		Transforms: []ScenarioTransform{withoutAdjustments(func(t domain.AdjustmentType) bool {
			return t == domain.AdjustmentAdditionalDays || t == domain.AdjustmentRestoredDays || t == domain.AdjustmentUnlawfullyAtLarge
		})},
	})

	return registry
}

func withErsed(s Scenario) Scenario {
	s.Inputs.CalculateErsed = true
	return s
}

func withOffenceIndicators(s Scenario) Scenario {
	s.Inputs.UseOffenceIndicators = true
	return s
}

func withSDSPlusAnswers(s Scenario) Scenario {
	s.Inputs.UseOffenceIndicators = false
	answers := make([]domain.SentenceAnswer, 0, len(s.Source.Sentences))
	for _, r := range s.Source.Sentences {
		answers = append(answers, domain.SentenceAnswer{SentenceID: r.ID, SDSPlus: true})
	}
	s.Inputs.SentenceAnswers = answers
	return s
}

func withoutEarlyRelease(s Scenario) Scenario {
	s.Catalogue.EarlyRelease = nil
	return s
}

func withoutAdjustments(drop func(domain.AdjustmentType) bool) ScenarioTransform {
	return func(s Scenario) Scenario {
		kept := make([]domain.Adjustment, 0, len(s.Source.Adjustments))
		for _, a := range s.Source.Adjustments {
			if !drop(a.Type) {
				kept = append(kept, a)
			}
		}
		s.Source = s.Source.WithAdjustments(kept)
		return s
	}
}
