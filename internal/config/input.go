// Package config loads bookings, user inputs and the rules catalogue from
// YAML files.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SupportedCatalogueSchema is the range of rules catalogue schema versions
// this build understands.
const SupportedCatalogueSchema = "^1.0"

// BookingFile is the on-disk form of a calculation request: the booking's
// source data plus the caller's choices.
type BookingFile struct {
	domain.SourceData `yaml:",inline"`
	Inputs            domain.UserInputs `yaml:"inputs,omitempty"`
}

// InputParser handles parsing of input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a booking file.
func (ip *InputParser) LoadFromFile(filename string) (*BookingFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseBooking(data)
}

// ParseBooking parses a booking file's contents.
func (ip *InputParser) ParseBooking(data []byte) (*BookingFile, error) {
	var booking BookingFile
	if err := yaml.Unmarshal(data, &booking); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateBookingFile(&booking); err != nil {
		return nil, fmt.Errorf("booking validation failed: %w", err)
	}
	return &booking, nil
}

// ValidateBookingFile checks the structure a calculation cannot start
// without. Problems with the content of sentences and adjustments are left
// to the validation stages, which report them in user terms.
func (ip *InputParser) ValidateBookingFile(booking *BookingFile) error {
	if booking.BookingID == "" {
		return fmt.Errorf("booking_id is required")
	}
	for i, s := range booking.Sentences {
		if s.ID == "" {
			return fmt.Errorf("sentence %d: id is required", i)
		}
		if s.Kind == "" {
			return fmt.Errorf("sentence %s: kind is required", s.ID)
		}
	}
	for i, a := range booking.Adjustments {
		if a.Type == "" {
			return fmt.Errorf("adjustment %d: type is required", i)
		}
		if (a.From == nil) != (a.To == nil) {
			return fmt.Errorf("adjustment %d: from and to must be given together", i)
		}
		if a.Days < 0 {
			return fmt.Errorf("adjustment %d: days cannot be negative", i)
		}
	}
	return nil
}

// LoadUserInputs loads user inputs on their own, for callers that keep
// them apart from the booking.
func (ip *InputParser) LoadUserInputs(filename string) (domain.UserInputs, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.UserInputs{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var inputs domain.UserInputs
	if err := yaml.Unmarshal(data, &inputs); err != nil {
		return domain.UserInputs{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return inputs, nil
}

// LoadCatalogue loads a rules catalogue, checks its schema version, fills
// in defaults and validates the early release configurations.
func (ip *InputParser) LoadCatalogue(filename string) (domain.RulesCatalogue, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.RulesCatalogue{}, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseCatalogue(data)
}

// ParseCatalogue parses a rules catalogue's contents.
func (ip *InputParser) ParseCatalogue(data []byte) (domain.RulesCatalogue, error) {
	var catalogue domain.RulesCatalogue
	if err := yaml.Unmarshal(data, &catalogue); err != nil {
		return domain.RulesCatalogue{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := checkSchemaVersion(catalogue.SchemaVersion); err != nil {
		return domain.RulesCatalogue{}, err
	}
	catalogue.ApplyDefaults()
	if err := ip.ValidateCatalogue(&catalogue); err != nil {
		return domain.RulesCatalogue{}, fmt.Errorf("catalogue validation failed: %w", err)
	}
	return catalogue, nil
}

func checkSchemaVersion(version string) error {
	if version == "" {
		return fmt.Errorf("schema_version is required")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid schema_version %q: %w", version, err)
	}
	constraint, err := semver.NewConstraint(SupportedCatalogueSchema)
	if err != nil {
		return fmt.Errorf("invalid supported schema range: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("schema_version %s is not supported (need %s)", v, SupportedCatalogueSchema)
	}
	return nil
}

// ValidateCatalogue validates a loaded catalogue.
func (ip *InputParser) ValidateCatalogue(catalogue *domain.RulesCatalogue) error {
	names := make(map[string]bool, len(catalogue.EarlyRelease))
	for _, cfg := range catalogue.EarlyRelease {
		if cfg.Name == "" {
			return &domain.ConfigurationError{Reason: "name is required"}
		}
		if names[cfg.Name] {
			return &domain.ConfigurationError{Configuration: cfg.Name, Reason: "name is used more than once"}
		}
		names[cfg.Name] = true

		if cfg.ReleaseMultiplier.LessThanOrEqual(decimal.Zero) || cfg.ReleaseMultiplier.GreaterThan(decimal.NewFromInt(1)) {
			return &domain.ConfigurationError{
				Configuration: cfg.Name,
				Reason:        fmt.Sprintf("release multiplier must be in (0, 1], got %s", cfg.ReleaseMultiplier),
			}
		}
		if _, err := cfg.EarliestTranche(); err != nil {
			return err
		}
		switch cfg.Filter.Exclusions {
		case domain.ExclusionsExcluded, domain.ExclusionsIncluded, domain.ExclusionsOnly:
		default:
			return &domain.ConfigurationError{
				Configuration: cfg.Name,
				Reason:        fmt.Sprintf("unknown exclusion policy %q", cfg.Filter.Exclusions),
			}
		}
		for _, t := range cfg.Tranches {
			if t.Date.IsZero() {
				return &domain.ConfigurationError{Configuration: cfg.Name, Reason: "tranche " + t.Name + " has no date"}
			}
		}
	}
	return nil
}

// FileSourceProvider serves source data from a booking file. It stands in
// for the system of record when reconciling from the command line.
type FileSourceProvider struct {
	Path   string
	Parser *InputParser
}

// SourceData loads the file and checks it belongs to personID.
func (p FileSourceProvider) SourceData(ctx context.Context, personID string) (domain.SourceData, error) {
	if err := ctx.Err(); err != nil {
		return domain.SourceData{}, err
	}
	parser := p.Parser
	if parser == nil {
		parser = NewInputParser()
	}
	booking, err := parser.LoadFromFile(p.Path)
	if err != nil {
		return domain.SourceData{}, err
	}
	if booking.PersonID != personID {
		return domain.SourceData{}, fmt.Errorf("%s holds person %s, not %s", p.Path, booking.PersonID, personID)
	}
	return booking.SourceData, nil
}
