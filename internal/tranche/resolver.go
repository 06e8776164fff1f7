// Package tranche decides which early release scheme, if any, applies to a
// sentence. Schemes are data: new tranches are added to the rules catalogue
// without touching the calculation code.
package tranche

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// celCostLimit bounds the work a single filter expression may do.
const celCostLimit = 10000

// Configuration is an early release configuration prepared for matching.
type Configuration struct {
	domain.EarlyReleaseConfiguration

	// ordered holds the tranches sorted by commencement date.
	ordered []domain.TrancheConfiguration
	program cel.Program
}

// Resolver matches sentences against the early release configurations of a
// catalogue. It is read-only after construction and safe for concurrent use.
type Resolver struct {
	configs []*Configuration
}

// NewResolver validates each configuration and compiles its filter
// expression. A configuration without tranches, with an unknown tranche
// unit, or with a filter that does not compile is a ConfigurationError.
func NewResolver(configs []domain.EarlyReleaseConfiguration) (*Resolver, error) {
	env, err := cel.NewEnv(cel.Variable("sentence", cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("failed to create filter environment: %w", err)
	}

	r := &Resolver{configs: make([]*Configuration, 0, len(configs))}
	for _, cfg := range configs {
		if _, err := cfg.EarliestTranche(); err != nil {
			return nil, err
		}
		if cfg.Filter.Exclusions == "" {
			cfg.Filter.Exclusions = domain.ExclusionsExcluded
		}

		c := &Configuration{EarlyReleaseConfiguration: cfg}
		c.ordered = append([]domain.TrancheConfiguration(nil), cfg.Tranches...)
		sort.SliceStable(c.ordered, func(i, j int) bool {
			return c.ordered[i].Date.Before(c.ordered[j].Date)
		})
		for _, t := range c.ordered {
			if _, err := t.DerivedDate(t.Date); err != nil {
				return nil, &domain.ConfigurationError{Configuration: cfg.Name, Reason: "tranche " + t.Label(), Err: err}
			}
		}

		if cfg.Filter.Expression != "" {
			prg, err := compile(env, cfg.Filter.Expression)
			if err != nil {
				return nil, &domain.ConfigurationError{Configuration: cfg.Name, Reason: "invalid filter expression", Err: err}
			}
			c.program = prg
		}
		r.configs = append(r.configs, c)
	}
	return r, nil
}

func compile(env *cel.Env, expr string) (cel.Program, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile: %w", issues.Err())
	}
	prg, err := env.Program(ast, cel.CostLimit(celCostLimit))
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}
	return prg, nil
}

// Configurations returns the prepared configurations in catalogue order.
func (r *Resolver) Configurations() []*Configuration {
	return r.configs
}

// Window is the calculation unit a sentence is assessed in. Start is the
// unit's first sentencing date, Expiry its combined custodial expiry and
// Target the release date the unit would have without early release.
type Window struct {
	Start  time.Time
	Expiry time.Time
	Target time.Time
}

// SentenceWindow is the window of a sentence served on its own.
func SentenceWindow(s domain.Sentence, target time.Time) Window {
	core := s.Core()
	return Window{
		Start:  core.SentencedAt,
		Expiry: core.Duration.EndDate(core.SentencedAt),
		Target: target,
	}
}

// Resolve picks the early release tranche for a sentence served within w.
// The first configuration in catalogue order whose filter matches wins.
// Within it the unit is allocated to the first tranche, in date order, whose
// length ceiling covers the whole unit. When w.Target falls before that
// tranche commences the result is tranche zero.
func (r *Resolver) Resolve(s domain.Sentence, a domain.Annotation, w Window) (domain.AppliedTranche, error) {
	for _, c := range r.configs {
		ok, err := c.Matches(s, a)
		if err != nil {
			return domain.AppliedTranche{}, err
		}
		if !ok {
			continue
		}

		t, found, err := c.allocate(w)
		if err != nil {
			return domain.AppliedTranche{}, err
		}
		if !found || w.Target.Before(t.Date) {
			return domain.AppliedTranche{}, nil
		}
		return domain.AppliedTranche{
			Configuration: c.Name,
			Multiplier:    c.ReleaseMultiplier,
			Tranche:       t,
		}, nil
	}
	return domain.AppliedTranche{}, nil
}

func (c *Configuration) allocate(w Window) (domain.TrancheConfiguration, bool, error) {
	for _, t := range c.ordered {
		if !t.HasDuration() {
			return t, true, nil
		}
		limit, err := t.DerivedDate(w.Start)
		if err != nil {
			return domain.TrancheConfiguration{}, false, &domain.ConfigurationError{Configuration: c.Name, Reason: "tranche " + t.Label(), Err: err}
		}
		if limit.After(w.Expiry) {
			return t, true, nil
		}
	}
	return domain.TrancheConfiguration{}, false, nil
}

// Matches reports whether the configuration applies to the sentence. Only
// SDS standard release sentences are eligible; the exclusion policy and the
// optional filter expression narrow that down.
func (c *Configuration) Matches(s domain.Sentence, a domain.Annotation) (bool, error) {
	if a.Track != domain.TrackSDSStandardRelease {
		return false, nil
	}
	if !c.Filter.Exclusions.Accepts(isExcluded(s)) {
		return false, nil
	}
	if c.program == nil {
		return true, nil
	}

	out, _, err := c.program.Eval(map[string]any{"sentence": sentenceVars(s, a)})
	if err != nil {
		return false, &domain.ConfigurationError{Configuration: c.Name, Reason: "filter evaluation failed", Err: err}
	}
	v, ok := out.Value().(bool)
	if !ok {
		return false, &domain.ConfigurationError{
			Configuration: c.Name,
			Reason:        fmt.Sprintf("filter returned %T, not bool", out.Value()),
		}
	}
	return v, nil
}

func isExcluded(s domain.Sentence) bool {
	sds, ok := s.(domain.StandardDeterminate)
	return ok && sds.EarlyReleaseExcluded
}

func sentenceVars(s domain.Sentence, a domain.Annotation) map[string]any {
	core := s.Core()
	return map[string]any{
		"id":                core.ID,
		"kind":              string(s.Kind()),
		"track":             string(a.Track),
		"sentenced_at":      dateutil.Format(core.SentencedAt),
		"duration_days":     int64(core.Duration.DaysFrom(core.SentencedAt)),
		"offence_code":      core.Offence.Code,
		"offence_date":      dateutil.Format(core.Offence.CommittedAt),
		"excluded":          isExcluded(s),
		"sds_plus":          core.Offence.Indicators.SDSPlus,
		"violent_or_sexual": core.Offence.Indicators.ViolentOrSexual,
		"case_reference":    core.CaseReference,
	}
}

// EarliestTranche returns the first tranche of a configuration to commence.
func EarliestTranche(cfg domain.EarlyReleaseConfiguration) (domain.TrancheConfiguration, error) {
	return cfg.EarliestTranche()
}

// FindByCommencement looks up the tranche that commences on date.
func FindByCommencement(cfg domain.EarlyReleaseConfiguration, date time.Time) (domain.TrancheConfiguration, bool) {
	for _, t := range cfg.Tranches {
		if dateutil.SameDay(t.Date, date) {
			return t, true
		}
	}
	return domain.TrancheConfiguration{}, false
}
