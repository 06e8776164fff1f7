package domain

import (
	"slices"
	"time"

	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// RulesCatalogue is the legislative data the engine runs against. It is
// loaded from rules.yaml and never computed by the engine.
type RulesCatalogue struct {
	SchemaVersion  string                      `yaml:"schema_version" json:"schema_version"`
	Description    string                      `yaml:"description,omitempty" json:"description,omitempty"`
	Commencement   CommencementDates           `yaml:"commencement" json:"commencement"`
	ReleaseRules   ReleasePointRules           `yaml:"release_rules" json:"release_rules"`
	EarlyRelease   []EarlyReleaseConfiguration `yaml:"early_release" json:"early_release"`
	NonReleaseDays []time.Time                 `yaml:"non_release_days,omitempty" json:"non_release_days,omitempty"`
}

// CommencementDates are the statutory dates that switch release regimes.
type CommencementDates struct {
	// ORA is the Offender Rehabilitation Act 2014 (top-up supervision).
	ORA time.Time `yaml:"ora" json:"ora"`
	// EDSAutomaticEnd is the last day automatic release applies to EDS.
	EDSAutomaticEnd time.Time `yaml:"eds_automatic_end" json:"eds_automatic_end"`
	// SDSPlus is the commencement of two-thirds release for serious SDS.
	SDSPlus time.Time `yaml:"sds_plus" json:"sds_plus"`
	// PCSC is the Police, Crime, Sentencing and Courts Act 2022.
	PCSC time.Time `yaml:"pcsc" json:"pcsc"`
}

// ReleasePointRules holds the numeric thresholds of the release rules.
type ReleasePointRules struct {
	HDCMinimumSentenceDays   int             `yaml:"hdc_minimum_sentence_days" json:"hdc_minimum_sentence_days"`
	HDCMaximumSentenceYears  int             `yaml:"hdc_maximum_sentence_years" json:"hdc_maximum_sentence_years"`
	HDCQuarterUntilMonths    int             `yaml:"hdc_quarter_until_months" json:"hdc_quarter_until_months"`
	HDCMinimumCustodialDays  int             `yaml:"hdc_minimum_custodial_days" json:"hdc_minimum_custodial_days"`
	HDCDaysBeforeRelease     int             `yaml:"hdc_days_before_release" json:"hdc_days_before_release"`
	ERSMaxDaysBeforeRelease  int             `yaml:"ers_max_days_before_release" json:"ers_max_days_before_release"`
	TUSEDMaximumSentenceDays int             `yaml:"tused_maximum_sentence_days" json:"tused_maximum_sentence_days"`
	TUSEDMonths              int             `yaml:"tused_months" json:"tused_months"`
	SDSPlusMinimumYears      int             `yaml:"sds_plus_minimum_years" json:"sds_plus_minimum_years"`
	SDSPlusPCSCMinimumYears  int             `yaml:"sds_plus_pcsc_minimum_years" json:"sds_plus_pcsc_minimum_years"`
	EDSAutomaticMaximumYears int             `yaml:"eds_automatic_maximum_years" json:"eds_automatic_maximum_years"`
	AFineFullTermThreshold   decimal.Decimal `yaml:"afine_full_term_threshold" json:"afine_full_term_threshold"`
	DTOShortWindowMonths     int             `yaml:"dto_short_window_months" json:"dto_short_window_months"`
	DTOLongWindowMonths      int             `yaml:"dto_long_window_months" json:"dto_long_window_months"`
}

// DefaultRulesCatalogue returns the catalogue used when no rules file is
// supplied. It carries no early release schemes.
func DefaultRulesCatalogue() RulesCatalogue {
	return RulesCatalogue{
		SchemaVersion: "1.0.0",
		Commencement: CommencementDates{
			ORA:             dateutil.Date(2015, time.February, 1),
			EDSAutomaticEnd: dateutil.Date(2015, time.April, 12),
			SDSPlus:         dateutil.Date(2020, time.April, 1),
			PCSC:            dateutil.Date(2022, time.June, 28),
		},
		ReleaseRules: ReleasePointRules{
			HDCMinimumSentenceDays:   84,
			HDCMaximumSentenceYears:  4,
			HDCQuarterUntilMonths:    18,
			HDCMinimumCustodialDays:  28,
			HDCDaysBeforeRelease:     180,
			ERSMaxDaysBeforeRelease:  544,
			TUSEDMaximumSentenceDays: 730,
			TUSEDMonths:              12,
			SDSPlusMinimumYears:      7,
			SDSPlusPCSCMinimumYears:  4,
			EDSAutomaticMaximumYears: 10,
			AFineFullTermThreshold:   decimal.NewFromInt(10_000_000),
			DTOShortWindowMonths:     1,
			DTOLongWindowMonths:      2,
		},
	}
}

// ApplyDefaults fills any zero-valued field from DefaultRulesCatalogue.
func (c *RulesCatalogue) ApplyDefaults() {
	def := DefaultRulesCatalogue()
	if c.SchemaVersion == "" {
		c.SchemaVersion = def.SchemaVersion
	}

	cd, dd := &c.Commencement, def.Commencement
	setDate(&cd.ORA, dd.ORA)
	setDate(&cd.EDSAutomaticEnd, dd.EDSAutomaticEnd)
	setDate(&cd.SDSPlus, dd.SDSPlus)
	setDate(&cd.PCSC, dd.PCSC)

	r, dr := &c.ReleaseRules, def.ReleaseRules
	setInt(&r.HDCMinimumSentenceDays, dr.HDCMinimumSentenceDays)
	setInt(&r.HDCMaximumSentenceYears, dr.HDCMaximumSentenceYears)
	setInt(&r.HDCQuarterUntilMonths, dr.HDCQuarterUntilMonths)
	setInt(&r.HDCMinimumCustodialDays, dr.HDCMinimumCustodialDays)
	setInt(&r.HDCDaysBeforeRelease, dr.HDCDaysBeforeRelease)
	setInt(&r.ERSMaxDaysBeforeRelease, dr.ERSMaxDaysBeforeRelease)
	setInt(&r.TUSEDMaximumSentenceDays, dr.TUSEDMaximumSentenceDays)
	setInt(&r.TUSEDMonths, dr.TUSEDMonths)
	setInt(&r.SDSPlusMinimumYears, dr.SDSPlusMinimumYears)
	setInt(&r.SDSPlusPCSCMinimumYears, dr.SDSPlusPCSCMinimumYears)
	setInt(&r.EDSAutomaticMaximumYears, dr.EDSAutomaticMaximumYears)
	setInt(&r.DTOShortWindowMonths, dr.DTOShortWindowMonths)
	setInt(&r.DTOLongWindowMonths, dr.DTOLongWindowMonths)
	if r.AFineFullTermThreshold.IsZero() {
		r.AFineFullTermThreshold = dr.AFineFullTermThreshold
	}

	// copies of the catalogue share the slice
	c.EarlyRelease = slices.Clone(c.EarlyRelease)
	for i := range c.EarlyRelease {
		if c.EarlyRelease[i].Filter.Exclusions == "" {
			c.EarlyRelease[i].Filter.Exclusions = ExclusionsExcluded
		}
	}
}

// NonReleaseDaySet indexes NonReleaseDays by YYYY-MM-DD.
func (c RulesCatalogue) NonReleaseDaySet() map[string]bool {
	set := make(map[string]bool, len(c.NonReleaseDays))
	for _, d := range c.NonReleaseDays {
		set[dateutil.Format(d)] = true
	}
	return set
}

func setDate(dst *time.Time, def time.Time) {
	if dst.IsZero() {
		*dst = def
	}
}

func setInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}
