package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/rdcalc/internal/batch"
	"github.com/rgehrsitz/rdcalc/internal/calculation"
	"github.com/rgehrsitz/rdcalc/internal/config"
	"github.com/rgehrsitz/rdcalc/internal/deductions"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/validation"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

var (
	bookingsDir   = filepath.Join("..", "..", "testdata", "bookings")
	cataloguePath = filepath.Join("..", "..", "testdata", "rules.yaml")
)

type fixture struct {
	parser       *config.InputParser
	engine       *calculation.Engine
	orchestrator *validation.Orchestrator
}

func newFixture(t *testing.T, withCatalogue bool) fixture {
	t.Helper()
	parser := config.NewInputParser()
	catalogue := domain.DefaultRulesCatalogue()
	if withCatalogue {
		var err error
		catalogue, err = parser.LoadCatalogue(cataloguePath)
		require.NoError(t, err)
	}
	engine, err := calculation.NewEngine(catalogue)
	require.NoError(t, err)
	return fixture{parser: parser, engine: engine, orchestrator: validation.NewOrchestrator(engine)}
}

func (f fixture) run(t *testing.T, src domain.SourceData, inputs domain.UserInputs) *domain.CalculationOutput {
	t.Helper()
	res, err := f.orchestrator.Run(src, inputs, validation.StageOther)
	require.NoError(t, err)
	require.Empty(t, res.Messages)
	require.NotNil(t, res.Output)
	return res.Output
}

func sds(id string, sentencedAt string, years int) domain.SentenceRecord {
	d, _ := dateutil.Parse(sentencedAt)
	return domain.SentenceRecord{
		ID:          id,
		Kind:        domain.KindStandardDeterminate,
		SentencedAt: d,
		Duration:    domain.Duration{Years: years},
		Offence:     domain.Offence{Code: "TH68001", CommittedAt: d.AddDate(0, -3, 0)},
	}
}

// TestIntegrationSuite runs all integration tests
func TestIntegrationSuite(t *testing.T) {
	t.Run("Basic_Integration", TestBasicIntegration)
	t.Run("Early_Release", TestEarlyReleaseIntegration)
	t.Run("Data_Consistency", TestDataConsistency)
	t.Run("Reconciliation", TestReconciliationIntegration)
	t.Run("Batch", TestBatchIntegration)
}

func TestEarlyReleaseIntegration(t *testing.T) {
	src := domain.SourceData{
		BookingID: "B40",
		PersonID:  "P40",
		Sentences: []domain.SentenceRecord{sds("S1", "2024-03-01", 3)},
	}

	t.Run("without schemes the standard half applies", func(t *testing.T) {
		out := newFixture(t, false).run(t, src, domain.UserInputs{})
		crd := out.Dates[domain.CRD]
		assert.Equal(t, "2025-08-29", dateutil.Format(crd.Date), "Saturday 30 August moves to the Friday")
		assert.Contains(t, crd.Rules, domain.RuleNonReleaseDayShift)
	})

	t.Run("SDS 40 tranche one", func(t *testing.T) {
		out := newFixture(t, true).run(t, src, domain.UserInputs{})

		a, ok := out.AnnotationFor("S1")
		require.True(t, ok)
		assert.Equal(t, "SDS_40", a.EarlyRelease.Configuration)
		assert.Equal(t, "TRANCHE_1", a.EarlyRelease.Tranche.Name)

		crd := out.Dates[domain.CRD]
		assert.Equal(t, "2025-05-12", dateutil.Format(crd.Date), "438 of 1095 days")
		assert.Contains(t, crd.Rules, domain.RuleEarlyReleaseTranche)
		assert.Equal(t, "2027-03-01", dateutil.Format(out.Dates[domain.SLED].Date))
		require.Len(t, out.Calculations, 1)
		assert.Equal(t, 438, out.Calculations[0].ReleaseDays)
	})

	t.Run("excluded offences keep the standard half", func(t *testing.T) {
		excluded := src
		excluded.Sentences = []domain.SentenceRecord{sds("S1", "2024-03-01", 3)}
		excluded.Sentences[0].EarlyReleaseExcluded = true

		out := newFixture(t, true).run(t, excluded, domain.UserInputs{})
		a, _ := out.AnnotationFor("S1")
		assert.True(t, a.EarlyRelease.IsTrancheZero())
		assert.Equal(t, "2025-08-29", dateutil.Format(out.Dates[domain.CRD].Date))
	})

	t.Run("consecutive chain is assessed as one term", func(t *testing.T) {
		second := sds("S2", "2023-01-01", 2)
		second.ConsecutiveTo = "S1"
		chained := domain.SourceData{
			BookingID: "B41",
			PersonID:  "P41",
			Sentences: []domain.SentenceRecord{sds("S1", "2023-01-01", 2), second},
		}

		out := newFixture(t, true).run(t, chained, domain.UserInputs{})
		for _, id := range []string{"S1", "S2"} {
			a, ok := out.AnnotationFor(id)
			require.True(t, ok)
			assert.Equal(t, "TRANCHE_1", a.EarlyRelease.Tranche.Name)
		}

		crd := out.Dates[domain.CRD]
		assert.Equal(t, "2024-09-10", dateutil.Format(crd.Date), "585 days would be 2024-08-07")
		assert.Contains(t, crd.Rules, domain.RuleTrancheCommencement)
		require.Len(t, out.Calculations, 1)
		assert.Equal(t, 585, out.Calculations[0].ReleaseDays)
	})
}

func TestDataConsistency(t *testing.T) {
	f := newFixture(t, true)
	booking, err := f.parser.LoadFromFile(filepath.Join(bookingsDir, "single.yaml"))
	require.NoError(t, err)

	inputs := booking.Inputs
	inputs.CalculateErsed = true
	out := f.run(t, booking.SourceData, inputs)

	t.Run("release points fall inside the sentence", func(t *testing.T) {
		crd := out.Dates[domain.CRD].Date
		sled := out.Dates[domain.SLED].Date
		assert.True(t, crd.Before(sled), "CRD before SLED")
		if hdced, ok := out.Dates[domain.HDCED]; ok {
			assert.True(t, hdced.Date.Before(crd), "HDCED before CRD")
		}
		if ersed, ok := out.Dates[domain.ERSED]; ok {
			assert.True(t, ersed.Date.Before(crd), "ERSED before CRD")
		}
	})

	t.Run("every date carries rules", func(t *testing.T) {
		for _, d := range out.SortedDates() {
			assert.NotEmpty(t, d.Rules, "date %s", d.Type)
		}
	})

	t.Run("the same input gives the same fingerprint", func(t *testing.T) {
		again := f.run(t, booking.SourceData, inputs)
		assert.Equal(t, out.InputFingerprint, again.InputFingerprint)
		assert.NotEqual(t, out.RequestID, again.RequestID, "each request gets its own ID")
		assert.Equal(t, out.Dates, again.Dates)
	})

	t.Run("a different input gives a different fingerprint", func(t *testing.T) {
		other := f.run(t, booking.SourceData, booking.Inputs)
		assert.NotEqual(t, out.InputFingerprint, other.InputFingerprint)
	})
}

func TestReconciliationIntegration(t *testing.T) {
	f := newFixture(t, false)
	path := filepath.Join(bookingsDir, "single.yaml")
	booking, err := f.parser.LoadFromFile(path)
	require.NoError(t, err)

	reconciler := deductions.NewReconciler(config.FileSourceProvider{Path: path}, f.engine)

	t.Run("deductions the sentence can absorb", func(t *testing.T) {
		res, err := reconciler.Reconcile(context.Background(), booking.PersonID, booking.Adjustments)
		require.NoError(t, err)
		assert.Equal(t, 14, res.TotalDeductions)
		assert.Equal(t, 0, res.UnusedDays)
		assert.Equal(t, deductions.ActionNone, res.Action)
	})

	t.Run("more remand than the sentence", func(t *testing.T) {
		adjustments := append([]domain.Adjustment(nil), booking.Adjustments...)
		adjustments = append(adjustments, domain.Adjustment{Type: domain.AdjustmentRemand, Days: 500})

		res, err := reconciler.Reconcile(context.Background(), booking.PersonID, adjustments)
		require.NoError(t, err)
		assert.Positive(t, res.UnusedDays)
		assert.Equal(t, res.TotalDeductions-res.AbsorbableDays, res.UnusedDays)
		assert.Equal(t, deductions.ActionCreate, res.Action)
		require.NotNil(t, res.Record)
		assert.Equal(t, res.UnusedDays, res.Record.Days)
	})
}

func TestBatchIntegration(t *testing.T) {
	f := newFixture(t, true)

	var jobs []batch.Job
	for i := 0; i < 60; i++ {
		src := domain.SourceData{
			BookingID: fmt.Sprintf("B%03d", i),
			PersonID:  fmt.Sprintf("P%03d", i),
			Sentences: []domain.SentenceRecord{sds("S1", "2021-01-04", 1+i%6)},
		}
		if i%10 == 0 {
			src.Sentences = nil
		}
		jobs = append(jobs, batch.Job{Name: src.BookingID, Source: src})
	}

	runner := batch.NewRunner(f.orchestrator)
	runner.Concurrency = 8
	runner.Metrics = batch.NewMetrics()

	outcomes, err := runner.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, outcomes, len(jobs))

	assert.Equal(t, map[string]int{batch.ResultCalculated: 54, batch.ResultInvalid: 6}, batch.Summary(outcomes))
	for i, o := range outcomes {
		assert.Equal(t, jobs[i].Name, o.Name, "outcomes stay in job order")
		if o.Result == batch.ResultCalculated {
			assert.Equal(t, jobs[i].Source.BookingID, o.Output.BookingID)
		}
	}
}
