// Package batch validates and calculates many bookings concurrently.
package batch

import (
	"context"
	"time"

	"github.com/rgehrsitz/rdcalc/internal/calculation"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/internal/validation"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when a Runner is given no limit.
const DefaultConcurrency = 4

// Validator runs the staged validation and calculation for one booking.
// *validation.Orchestrator satisfies it.
type Validator interface {
	Run(src domain.SourceData, inputs domain.UserInputs, ceiling validation.Stage) (validation.Result, error)
}

// Job is one booking to calculate.
type Job struct {
	Name   string
	Source domain.SourceData
	Inputs domain.UserInputs
}

// Outcome is what happened to one job. Exactly one of Output, Messages or
// Err describes the result; Output may also accompany Messages when a
// post-calculation check reported a problem.
type Outcome struct {
	Name     string
	Result   string
	Stage    validation.Stage
	Messages []domain.ValidationMessage
	Output   *domain.CalculationOutput
	Err      error
	Elapsed  time.Duration
}

// Runner processes jobs with bounded concurrency. A failing booking never
// stops the run; only cancellation of the context does.
type Runner struct {
	Validator   Validator
	Concurrency int
	Ceiling     validation.Stage
	Metrics     *Metrics
	Logger      calculation.Logger
}

// NewRunner creates a runner that validates through every stage.
func NewRunner(v Validator) *Runner {
	return &Runner{
		Validator:   v,
		Concurrency: DefaultConcurrency,
		Ceiling:     validation.StageOther,
		Logger:      calculation.NopLogger{},
	}
}

// Run processes jobs and returns one outcome per job, in job order. The
// error is non-nil only when ctx ended before every job was processed; the
// outcomes of unprocessed jobs then carry the context error.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	log := r.Logger
	if log == nil {
		log = calculation.NopLogger{}
	}
	limit := r.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	outcomes := make([]Outcome, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var stopped error
	for i, job := range jobs {
		if err := gctx.Err(); err != nil {
			for j := i; j < len(jobs); j++ {
				outcomes[j] = cancelled(jobs[j].Name, err)
				r.Metrics.IncrementResult(ResultCancelled)
			}
			stopped = err
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = cancelled(job.Name, err)
				r.Metrics.IncrementResult(ResultCancelled)
				return err
			}
			outcomes[i] = r.process(job)
			log.Debugf("batch job %s finished as %s in %s", job.Name, outcomes[i].Result, outcomes[i].Elapsed)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, stopped
}

func cancelled(name string, err error) Outcome {
	return Outcome{Name: name, Result: ResultCancelled, Err: err}
}

func (r *Runner) process(job Job) Outcome {
	r.Metrics.enter()
	defer r.Metrics.leave()

	start := time.Now()
	res, err := r.Validator.Run(job.Source, job.Inputs, r.Ceiling)
	out := Outcome{
		Name:     job.Name,
		Stage:    res.Stage,
		Messages: res.Messages,
		Output:   res.Output,
		Err:      err,
		Elapsed:  time.Since(start),
	}
	switch {
	case err != nil:
		out.Result = ResultFailed
	case len(res.Messages) > 0:
		out.Result = ResultInvalid
	default:
		out.Result = ResultCalculated
	}

	r.Metrics.ObserveLatency(out.Elapsed)
	r.Metrics.IncrementResult(out.Result)
	for _, m := range res.Messages {
		r.Metrics.IncrementMessage(string(m.Code))
	}
	return out
}

// Summary counts outcomes by result.
func Summary(outcomes []Outcome) map[string]int {
	counts := make(map[string]int)
	for _, o := range outcomes {
		counts[o.Result]++
	}
	return counts
}
