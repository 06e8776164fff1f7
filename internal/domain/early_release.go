package domain

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// ExclusionPolicy states how a configuration treats sentences flagged as
// excluded from early release.
type ExclusionPolicy string

const (
	// ExclusionsExcluded skips excluded sentences. This is the default.
	ExclusionsExcluded ExclusionPolicy = "exclude"
	// ExclusionsIncluded ignores the flag.
	ExclusionsIncluded ExclusionPolicy = "include"
	// ExclusionsOnly selects only the excluded sentences.
	ExclusionsOnly ExclusionPolicy = "only"
)

// Accepts reports whether a sentence with the given exclusion flag passes.
func (p ExclusionPolicy) Accepts(excluded bool) bool {
	switch p {
	case ExclusionsIncluded:
		return true
	case ExclusionsOnly:
		return excluded
	default:
		return !excluded
	}
}

// ChronoUnit is the unit of a tranche duration.
type ChronoUnit string

const (
	UnitDays   ChronoUnit = "days"
	UnitWeeks  ChronoUnit = "weeks"
	UnitMonths ChronoUnit = "months"
	UnitYears  ChronoUnit = "years"
)

// EarlyReleaseFilter selects which sentences a configuration applies to.
// The track is always SDS standard release; Expression is an optional CEL
// predicate over the `sentence` variable that narrows the selection further.
type EarlyReleaseFilter struct {
	Exclusions ExclusionPolicy `yaml:"exclusions,omitempty" json:"exclusions,omitempty"`
	Expression string          `yaml:"expression,omitempty" json:"expression,omitempty"`
}

// TrancheConfiguration is one commencement point of an early-release scheme.
// Duration/Unit, when set, give the sentence length ceiling for the tranche:
// a sentence belongs to it when its expiry falls before sentencing date plus
// Duration Unit.
type TrancheConfiguration struct {
	Name     string     `yaml:"name,omitempty" json:"name,omitempty"`
	Date     time.Time  `yaml:"date" json:"date"`
	Duration int        `yaml:"duration,omitempty" json:"duration,omitempty"`
	Unit     ChronoUnit `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// HasDuration reports whether the tranche carries a length ceiling.
func (t TrancheConfiguration) HasDuration() bool {
	return t.Duration > 0
}

// DerivedDate is from plus the tranche duration.
func (t TrancheConfiguration) DerivedDate(from time.Time) (time.Time, error) {
	switch t.Unit {
	case UnitDays:
		return dateutil.AddPeriod(from, 0, 0, t.Duration), nil
	case UnitWeeks:
		return dateutil.AddPeriod(from, 0, 0, t.Duration*7), nil
	case UnitMonths:
		return dateutil.AddPeriod(from, 0, t.Duration, 0), nil
	case UnitYears, "":
		return dateutil.AddPeriod(from, t.Duration, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown tranche unit %q", t.Unit)
	}
}

// Label is the tranche name, falling back to its commencement date.
func (t TrancheConfiguration) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return dateutil.Format(t.Date)
}

// EarlyReleaseConfiguration is a data-driven early release scheme.
type EarlyReleaseConfiguration struct {
	Name              string                 `yaml:"name" json:"name"`
	ReleaseMultiplier decimal.Decimal        `yaml:"release_multiplier" json:"release_multiplier"`
	Filter            EarlyReleaseFilter     `yaml:"filter,omitempty" json:"filter,omitempty"`
	Tranches          []TrancheConfiguration `yaml:"tranches" json:"tranches"`
}

// EarliestTranche returns the tranche with the earliest commencement date.
// A configuration without tranches is a ConfigurationError.
func (c EarlyReleaseConfiguration) EarliestTranche() (TrancheConfiguration, error) {
	if len(c.Tranches) == 0 {
		return TrancheConfiguration{}, &ConfigurationError{
			Configuration: c.Name,
			Reason:        "early release configuration has no tranches",
		}
	}
	earliest := c.Tranches[0]
	for _, t := range c.Tranches[1:] {
		if t.Date.Before(earliest.Date) {
			earliest = t
		}
	}
	return earliest, nil
}

// AppliedTranche records which early release scheme applied to a sentence.
// The zero value is tranche zero: no early release.
type AppliedTranche struct {
	Configuration string               `json:"configuration,omitempty"`
	Multiplier    decimal.Decimal      `json:"multiplier"`
	Tranche       TrancheConfiguration `json:"tranche"`
}

// IsTrancheZero reports whether no early release applies.
func (a AppliedTranche) IsTrancheZero() bool {
	return a.Configuration == ""
}
