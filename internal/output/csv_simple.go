package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/rgehrsitz/rdcalc/internal/domain"
)

// CSVSummarizer writes one row per booking-level release date.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(out *domain.CalculationOutput) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"BookingID", "PersonID", "Type", "Date", "Rules"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, d := range out.SortedDates() {
		row := []string{out.BookingID, out.PersonID, string(d.Type), FormatDate(d.Date), FormatRules(d.Rules)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter writes one row per calculation unit and date type.
type DetailedCSVFormatter struct{}

func (c DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (c DetailedCSVFormatter) Format(out *domain.CalculationOutput) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Unit", "SentenceIDs", "Tracks", "CustodialDays", "ReleaseDays", "Type", "UnadjustedDate", "AdjustedDate", "Rules"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i, calc := range out.Calculations {
		for _, t := range domain.ReleaseDateOrder {
			adjusted, ok := calc.AdjustedDates[t]
			if !ok {
				continue
			}
			row := []string{
				strconv.Itoa(i + 1),
				strings.Join(calc.SentenceIDs, ";"),
				formatTracks(calc.Tracks),
				strconv.Itoa(calc.CustodialDays),
				strconv.Itoa(calc.ReleaseDays),
				string(t),
				FormatDate(calc.UnadjustedDates[t]),
				FormatDate(adjusted),
				FormatRules(calc.Rules[t]),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
