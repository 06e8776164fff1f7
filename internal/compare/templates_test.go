package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rdcalc/internal/domain"
)

func TestTemplateRegistry(t *testing.T) {
	registry := CreateBuiltInTemplates()

	assert.Equal(t, []string{"ersed", "no_added_days", "no_deductions", "no_early_release", "offence_indicators", "sds_plus"}, registry.List())

	tmpl, ok := registry.Get("NO_DEDUCTIONS")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Equal(t, "no_deductions", tmpl.Name)

	_, ok = registry.Get("postpone")
	assert.False(t, ok)
}

func TestTemplates_Apply(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := Scenario{
		Name: BaseScenarioName,
		Source: domain.SourceData{
			BookingID: "B1",
			Sentences: []domain.SentenceRecord{{ID: "S1"}, {ID: "S2"}},
			Adjustments: []domain.Adjustment{
				{ID: "R1", Type: domain.AdjustmentRemand, Days: 10},
				{ID: "T1", Type: domain.AdjustmentTaggedBail, Days: 4},
				{ID: "A1", Type: domain.AdjustmentAdditionalDays, Days: 7},
				{ID: "U1", Type: domain.AdjustmentUnlawfullyAtLarge, Days: 3},
			},
		},
		Inputs:    domain.UserInputs{UseOffenceIndicators: true},
		Catalogue: domain.RulesCatalogue{EarlyRelease: []domain.EarlyReleaseConfiguration{{Name: "SDS_40"}}},
	}

	apply := func(name string) Scenario {
		tmpl, ok := registry.Get(name)
		require.True(t, ok, name)
		return tmpl.Apply(base)
	}

	t.Run("ersed", func(t *testing.T) {
		assert.True(t, apply("ersed").Inputs.CalculateErsed)
	})

	t.Run("sds_plus answers every sentence", func(t *testing.T) {
		s := apply("sds_plus")
		assert.False(t, s.Inputs.UseOffenceIndicators)
		assert.Equal(t, []domain.SentenceAnswer{{SentenceID: "S1", SDSPlus: true}, {SentenceID: "S2", SDSPlus: true}}, s.Inputs.SentenceAnswers)
	})

	t.Run("no_early_release", func(t *testing.T) {
		assert.Empty(t, apply("no_early_release").Catalogue.EarlyRelease)
		assert.Len(t, base.Catalogue.EarlyRelease, 1, "base catalogue untouched")
	})

	t.Run("no_deductions", func(t *testing.T) {
		s := apply("no_deductions")
		var ids []string
		for _, a := range s.Source.Adjustments {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, []string{"A1", "U1"}, ids)
		assert.Len(t, base.Source.Adjustments, 4, "base adjustments untouched")
	})

	t.Run("no_added_days", func(t *testing.T) {
		s := apply("no_added_days")
		var ids []string
		for _, a := range s.Source.Adjustments {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, []string{"R1", "T1"}, ids)
	})
}
