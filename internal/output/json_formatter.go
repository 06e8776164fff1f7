package output

import (
	"encoding/json"

	"github.com/rgehrsitz/rdcalc/internal/domain"
	"gopkg.in/yaml.v3"
)

// JSONFormatter emits the full calculation output as indented JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(out *domain.CalculationOutput) ([]byte, error) {
	return json.MarshalIndent(out, "", "  ")
}

// YAMLFormatter emits the booking-level dates as YAML, keyed by type.
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

type yamlDate struct {
	Date  string   `yaml:"date"`
	Rules []string `yaml:"rules,omitempty"`
}

type yamlReport struct {
	RequestID   string              `yaml:"request_id"`
	BookingID   string              `yaml:"booking_id"`
	PersonID    string              `yaml:"person_id"`
	Fingerprint string              `yaml:"input_fingerprint,omitempty"`
	Dates       map[string]yamlDate `yaml:"dates"`
}

func (y YAMLFormatter) Format(out *domain.CalculationOutput) ([]byte, error) {
	report := yamlReport{
		RequestID:   out.RequestID.String(),
		BookingID:   out.BookingID,
		PersonID:    out.PersonID,
		Fingerprint: out.InputFingerprint,
		Dates:       make(map[string]yamlDate, len(out.Dates)),
	}
	for _, d := range out.SortedDates() {
		rules := make([]string, len(d.Rules))
		for i, r := range d.Rules {
			rules[i] = string(r)
		}
		report.Dates[string(d.Type)] = yamlDate{Date: FormatDate(d.Date), Rules: rules}
	}
	return yaml.Marshal(report)
}
