package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IdentificationTrack is the release policy category a sentence falls under.
type IdentificationTrack string

const (
	TrackSDSStandardRelease      IdentificationTrack = "SDS_STANDARD_RELEASE"
	TrackSDSPlusRelease          IdentificationTrack = "SDS_PLUS_RELEASE"
	TrackEDSAutomaticRelease     IdentificationTrack = "EDS_AUTOMATIC_RELEASE"
	TrackEDSDiscretionaryRelease IdentificationTrack = "EDS_DISCRETIONARY_RELEASE"
	TrackSOPCPEDAtHalfway        IdentificationTrack = "SOPC_PED_AT_HALFWAY"
	TrackSOPCPEDAtTwoThirds      IdentificationTrack = "SOPC_PED_AT_TWO_THIRDS"
	TrackAFineARDAtHalfway       IdentificationTrack = "AFINE_ARD_AT_HALFWAY"
	TrackAFineARDAtFullTerm      IdentificationTrack = "AFINE_ARD_AT_FULL_TERM"
	TrackDTO                     IdentificationTrack = "DTO"
	TrackBailOnTheRun            IdentificationTrack = "BAIL_OTR_FULL_TERM"
	TrackIndeterminate           IdentificationTrack = "INDETERMINATE_TARIFF"
)

var (
	MultiplierHalf      = decimal.NewFromInt(1).Div(decimal.NewFromInt(2))
	MultiplierTwoThirds = decimal.NewFromInt(2).Div(decimal.NewFromInt(3))
	MultiplierFullTerm  = decimal.NewFromInt(1)
)

// AllTracks lists every known track.
var AllTracks = []IdentificationTrack{
	TrackSDSStandardRelease,
	TrackSDSPlusRelease,
	TrackEDSAutomaticRelease,
	TrackEDSDiscretionaryRelease,
	TrackSOPCPEDAtHalfway,
	TrackSOPCPEDAtTwoThirds,
	TrackAFineARDAtHalfway,
	TrackAFineARDAtFullTerm,
	TrackDTO,
	TrackBailOnTheRun,
	TrackIndeterminate,
}

type trackPolicy struct {
	multiplier    *decimal.Decimal
	pedMultiplier *decimal.Decimal
	releaseType   ReleaseDateType
	licence       bool
	ersed         bool
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

var trackPolicies = map[IdentificationTrack]trackPolicy{
	// SDS standard release is resolved from the early-release catalogue.
	TrackSDSStandardRelease:      {releaseType: CRD, licence: true, ersed: true},
	TrackSDSPlusRelease:          {multiplier: ptr(MultiplierTwoThirds), releaseType: CRD, licence: true, ersed: true},
	TrackEDSAutomaticRelease:     {multiplier: ptr(MultiplierTwoThirds), releaseType: CRD, licence: true, ersed: true},
	TrackEDSDiscretionaryRelease: {multiplier: ptr(MultiplierFullTerm), pedMultiplier: ptr(MultiplierTwoThirds), releaseType: CRD, licence: true, ersed: true},
	TrackSOPCPEDAtHalfway:        {multiplier: ptr(MultiplierFullTerm), pedMultiplier: ptr(MultiplierHalf), releaseType: CRD, licence: true, ersed: true},
	TrackSOPCPEDAtTwoThirds:      {multiplier: ptr(MultiplierFullTerm), pedMultiplier: ptr(MultiplierTwoThirds), releaseType: CRD, licence: true, ersed: true},
	TrackAFineARDAtHalfway:       {multiplier: ptr(MultiplierHalf), releaseType: ARD},
	TrackAFineARDAtFullTerm:      {multiplier: ptr(MultiplierFullTerm), releaseType: ARD},
	TrackDTO:                     {multiplier: ptr(MultiplierHalf), releaseType: MTD},
	TrackBailOnTheRun:            {multiplier: ptr(MultiplierFullTerm), releaseType: ARD},
	TrackIndeterminate:           {multiplier: ptr(MultiplierFullTerm), releaseType: Tariff},
}

// IsKnown reports whether the track is one of AllTracks.
func (t IdentificationTrack) IsKnown() bool {
	_, ok := trackPolicies[t]
	return ok
}

// IsMultiplierFixed reports whether the track carries its own multiplier.
func (t IdentificationTrack) IsMultiplierFixed() bool {
	p, ok := trackPolicies[t]
	return ok && p.multiplier != nil
}

// FixedMultiplier returns the track's multiplier. It fails for tracks whose
// multiplier is resolved elsewhere.
func (t IdentificationTrack) FixedMultiplier() (decimal.Decimal, error) {
	p, ok := trackPolicies[t]
	if !ok || p.multiplier == nil {
		return decimal.Zero, fmt.Errorf("track %s has no fixed release multiplier", t)
	}
	return *p.multiplier, nil
}

// PEDMultiplier returns the parole eligibility multiplier for tracks with a
// discretionary release point.
func (t IdentificationTrack) PEDMultiplier() (decimal.Decimal, bool) {
	p, ok := trackPolicies[t]
	if !ok || p.pedMultiplier == nil {
		return decimal.Zero, false
	}
	return *p.pedMultiplier, true
}

// ReleaseDateType is the date type produced at the release point.
func (t IdentificationTrack) ReleaseDateType() ReleaseDateType {
	return trackPolicies[t].releaseType
}

// HasLicence reports whether release is onto licence.
func (t IdentificationTrack) HasLicence() bool {
	return trackPolicies[t].licence
}

// CalculateErsed reports whether the early removal scheme applies.
func (t IdentificationTrack) CalculateErsed() bool {
	return trackPolicies[t].ersed
}

// Rule is the calculation rule naming this track's policy branch.
func (t IdentificationTrack) Rule() CalculationRule {
	return CalculationRule("TRACK_" + string(t))
}
