package output

import (
	"strings"
	"time"

	"github.com/rgehrsitz/rdcalc/internal/domain"
	"github.com/rgehrsitz/rdcalc/pkg/dateutil"
)

// FormatDate renders a date as YYYY-MM-DD, or "-" when unset.
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return "-"
	}
	return dateutil.Format(d)
}

// FormatRules joins calculation rules for display.
func FormatRules(rules []domain.CalculationRule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func formatTracks(tracks []domain.IdentificationTrack) string {
	parts := make([]string, len(tracks))
	for i, t := range tracks {
		parts[i] = string(t)
	}
	return strings.Join(parts, "+")
}

var dateTypeDescriptions = map[domain.ReleaseDateType]string{
	domain.SLED:   "Sentence and licence expiry",
	domain.SED:    "Sentence expiry",
	domain.CRD:    "Conditional release",
	domain.ARD:    "Automatic release",
	domain.PED:    "Parole eligibility",
	domain.HDCED:  "Home detention curfew eligibility",
	domain.ERSED:  "Early removal scheme eligibility",
	domain.TUSED:  "Top-up supervision expiry",
	domain.MTD:    "Mid-term",
	domain.ETD:    "Early transfer",
	domain.LTD:    "Late transfer",
	domain.Tariff: "Tariff expiry",
}

// DescribeDateType returns a human label for a release date type.
func DescribeDateType(t domain.ReleaseDateType) string {
	if d, ok := dateTypeDescriptions[t]; ok {
		return d
	}
	return string(t)
}
