package output

import (
	"bytes"
	"fmt"

	"github.com/rgehrsitz/rdcalc/internal/domain"
)

// ConsoleFormatter prints the booking-level dates only.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(out *domain.CalculationOutput) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RELEASE DATE SUMMARY")
	fmt.Fprintln(&buf, "====================")
	fmt.Fprintf(&buf, "Booking: %s  Person: %s\n", out.BookingID, out.PersonID)
	fmt.Fprintln(&buf)

	dates := out.SortedDates()
	if len(dates) == 0 {
		fmt.Fprintln(&buf, "No release dates calculated.")
		return buf.Bytes(), nil
	}
	for _, d := range dates {
		fmt.Fprintf(&buf, "%-7s %s  %s\n", d.Type, FormatDate(d.Date), DescribeDateType(d.Type))
	}
	return buf.Bytes(), nil
}
