// Package dateutil provides calendar arithmetic shared by the calculation
// packages. All dates are treated as whole days in UTC; any time-of-day or
// location component is discarded before comparison.
package dateutil

import (
	"fmt"
	"sort"
	"time"
)

// DateFormat is the layout used for every date rendered or parsed by rdcalc.
const DateFormat = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate strips the time of day and normalises to UTC.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Parse parses a YYYY-MM-DD string into a UTC date.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}

// Format renders a date as YYYY-MM-DD, or an empty string for the zero time.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}

func epochDay(t time.Time) int64 {
	return Truncate(t).Unix() / secondsPerDay
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return epochDay(a) == epochDay(b)
}

// IsBeforeOrEqual reports whether a is on or before b.
func IsBeforeOrEqual(a, b time.Time) bool {
	return epochDay(a) <= epochDay(b)
}

// IsAfterOrEqual reports whether a is on or after b.
func IsAfterOrEqual(a, b time.Time) bool {
	return epochDay(a) >= epochDay(b)
}

// IsWeekend reports whether the date is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaysBetween returns the number of days from `from` to `to`. The result is
// negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(epochDay(to) - epochDay(from))
}

// DaysBetweenInclusive counts both end points, so the same day gives 1.
func DaysBetweenInclusive(from, to time.Time) int {
	return DaysBetween(from, to) + 1
}

// AddDays moves a date by n whole days.
func AddDays(t time.Time, n int) time.Time {
	return Truncate(t).AddDate(0, 0, n)
}

// Latest returns the latest of the supplied dates, ignoring zero values.
func Latest(dates ...time.Time) time.Time {
	var latest time.Time
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if latest.IsZero() || d.After(latest) {
			latest = d
		}
	}
	return latest
}

// Earliest returns the earliest of the supplied dates, ignoring zero values.
func Earliest(dates ...time.Time) time.Time {
	var earliest time.Time
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
	}
	return earliest
}

// PreviousWorkingDay walks backwards from t until it finds a day that is
// neither a weekend nor listed in nonWorking. t itself is returned when it is
// already a working day.
func PreviousWorkingDay(t time.Time, nonWorking map[string]bool) time.Time {
	d := Truncate(t)
	for IsWeekend(d) || nonWorking[Format(d)] {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// Interval is an inclusive range of calendar days.
type Interval struct {
	From time.Time
	To   time.Time
}

// Days returns the number of days covered, or 0 for an inverted interval.
func (i Interval) Days() int {
	if i.To.Before(i.From) {
		return 0
	}
	return DaysBetweenInclusive(i.From, i.To)
}

// Overlaps reports whether the two intervals share at least one day.
func (i Interval) Overlaps(other Interval) bool {
	return IsBeforeOrEqual(i.From, other.To) && IsBeforeOrEqual(other.From, i.To)
}

// UnionDays counts the distinct days covered by the intervals, so a day that
// appears in more than one interval is only counted once.
func UnionDays(intervals []Interval) int {
	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Days() > 0 {
			valid = append(valid, Interval{From: Truncate(iv.From), To: Truncate(iv.To)})
		}
	}
	if len(valid) == 0 {
		return 0
	}
	sort.Slice(valid, func(a, b int) bool { return valid[a].From.Before(valid[b].From) })

	total := 0
	current := valid[0]
	for _, iv := range valid[1:] {
		// adjacent intervals merge as well as overlapping ones
		if IsBeforeOrEqual(iv.From, AddDays(current.To, 1)) {
			if iv.To.After(current.To) {
				current.To = iv.To
			}
			continue
		}
		total += current.Days()
		current = iv
	}
	return total + current.Days()
}

// AddPeriod adds years, months and days to a date. Month arithmetic clamps to
// the last day of the target month, so 31 January plus one month is the end
// of February rather than rolling into March.
func AddPeriod(t time.Time, years, months, days int) time.Time {
	d := Truncate(t)
	totalMonths := int(d.Month()) - 1 + years*12 + months
	year := d.Year() + floorDiv(totalMonths, 12)
	month := time.Month(floorMod(totalMonths, 12) + 1)
	day := d.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return Date(year, month, day).AddDate(0, 0, days)
}

func daysIn(year int, month time.Month) int {
	return Date(year, month+1, 1).AddDate(0, 0, -1).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
