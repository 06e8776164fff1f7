package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/rdcalc/internal/domain"
)

// ConsoleVerboseFormatter prints the dates with their rules, every
// calculation unit and the sentence annotations.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(out *domain.CalculationOutput) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf, "DETAILED RELEASE DATE CALCULATION")
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintf(&buf, "Booking:     %s\n", out.BookingID)
	fmt.Fprintf(&buf, "Person:      %s\n", out.PersonID)
	fmt.Fprintf(&buf, "Request:     %s\n", out.RequestID)
	if out.InputFingerprint != "" {
		fmt.Fprintf(&buf, "Fingerprint: %s\n", out.InputFingerprint)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "RELEASE DATES")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	for _, d := range out.SortedDates() {
		fmt.Fprintf(&buf, "  %-7s %s  %s\n", d.Type, FormatDate(d.Date), DescribeDateType(d.Type))
		if len(d.Rules) > 0 {
			fmt.Fprintf(&buf, "          rules: %s\n", FormatRules(d.Rules))
		}
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "SENTENCES")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	for _, a := range out.Annotations {
		fmt.Fprintf(&buf, "  %-10s %-28s multiplier %s", a.SentenceID, a.Track, a.Multiplier.StringFixed(4))
		if !a.EarlyRelease.IsTrancheZero() {
			fmt.Fprintf(&buf, "  %s/%s", a.EarlyRelease.Configuration, a.EarlyRelease.Tranche.Label())
		}
		fmt.Fprintln(&buf)
	}
	fmt.Fprintln(&buf)

	for i, calc := range out.Calculations {
		writeUnit(&buf, i+1, calc)
	}
	return buf.Bytes(), nil
}

func writeUnit(buf *bytes.Buffer, n int, calc domain.SentenceCalculation) {
	label := "SENTENCE"
	if calc.IsChain() {
		label = "CONSECUTIVE CHAIN"
	}
	fmt.Fprintf(buf, "UNIT %d: %s %s\n", n, label, strings.Join(calc.SentenceIDs, " -> "))
	fmt.Fprintln(buf, strings.Repeat("-", 40))
	fmt.Fprintf(buf, "  Tracks:          %s\n", formatTracks(calc.Tracks))
	fmt.Fprintf(buf, "  Sentenced:       %s\n", FormatDate(calc.SentencedAt))
	fmt.Fprintf(buf, "  Sentence days:   %d\n", calc.SentenceDays)
	fmt.Fprintf(buf, "  Custodial days:  %d\n", calc.CustodialDays)
	fmt.Fprintf(buf, "  Release days:    %d\n", calc.ReleaseDays)
	if calc.PEDDays > 0 {
		fmt.Fprintf(buf, "  PED days:        %d\n", calc.PEDDays)
	}
	adj := calc.Adjustments
	fmt.Fprintf(buf, "  Adjustments:     remand %d, tagged bail %d, UAL %d, ADA %d, RADA %d\n",
		adj.Remand, adj.TaggedBail, adj.UnlawfullyAtLarge, adj.AdditionalDays, adj.RestoredDays)
	for _, t := range domain.ReleaseDateOrder {
		adjusted, ok := calc.AdjustedDates[t]
		if !ok {
			continue
		}
		fmt.Fprintf(buf, "  %-7s %s (unadjusted %s)\n", t, FormatDate(adjusted), FormatDate(calc.UnadjustedDates[t]))
	}
	fmt.Fprintln(buf)
}
