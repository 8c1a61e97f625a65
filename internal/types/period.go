// Package types implements calendar types used by the ledger.
package types

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unit is the length of a period.
type Unit string

const (
	Day   Unit = "day"
	Week  Unit = "week"
	Month Unit = "month"
	Year  Unit = "year"
)

// ParseUnit parses a period unit. Unknown values result in Month.
func ParseUnit(s string) Unit {
	switch u := Unit(s); u {
	case Day, Week, Month, Year:
		return u
	}
	return Month
}

// Valid reports if u is one of the known units.
func (u Unit) Valid() bool {
	switch u {
	case Day, Week, Month, Year:
		return true
	}
	return false
}

// Period is the half-open interval [Start, End).
type Period struct {
	Start time.Time `json:"start" example:"2026-10-01T00:00:00Z"`
	End   time.Time `json:"end" example:"2026-11-01T00:00:00Z"`
}

// PeriodOf returns the period of the given unit that is offset units away
// from the one containing now.
//
// firstDayOfWeek is 0 for Monday up to 6 for Sunday. All boundaries are
// computed in the location of now.
func PeriodOf(now time.Time, offset int, unit Unit, firstDayOfWeek int) Period {
	loc := now.Location()
	year, month, day := now.Date()

	switch unit {
	case Day:
		start := time.Date(year, month, day+offset, 0, 0, 0, 0, loc)
		return Period{Start: start, End: start.AddDate(0, 0, 1)}

	case Week:
		target := time.Date(year, month, day+7*offset, 0, 0, 0, 0, loc)
		start := target.AddDate(0, 0, -DaysSinceWeekStart(target, firstDayOfWeek))
		return Period{Start: start, End: start.AddDate(0, 0, 7)}

	case Year:
		start := time.Date(year+offset, time.January, 1, 0, 0, 0, 0, loc)
		return Period{Start: start, End: start.AddDate(1, 0, 0)}
	}

	// time.Date normalizes months outside of 1..12, which rolls the year
	// over in both directions
	start := time.Date(year, month+time.Month(offset), 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// DaysSinceWeekStart returns how many days t is after the first day of its
// week.
func DaysSinceWeekStart(t time.Time, firstDayOfWeek int) int {
	// time.Weekday starts at Sunday = 0, we count from Monday = 0
	weekday := (int(t.Weekday()) + 6) % 7
	return ((weekday-firstDayOfWeek)%7 + 7) % 7
}

// Last returns the last second that is part of the period.
func (p Period) Last() time.Time {
	return p.End.Add(-time.Second)
}

// Contains reports whether t is inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Days returns the number of calendar days in the period, at least 1.
func (p Period) Days() int {
	days := int(DateOf(p.End).Sub(DateOf(p.Start)).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// DateOf returns midnight UTC of the calendar date of t in t's location.
//
// It is used to compare and subtract dates without being affected by
// daylight saving time.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Label returns a human readable name for the period offset units away
// from the one containing now, e.g. "This Week", "March 2026" or
// "Yesterday".
func Label(now time.Time, offset int, unit Unit, firstDayOfWeek int) string {
	if unit == Day {
		return dayLabel(now, now.AddDate(0, 0, offset))
	}

	title := cases.Title(language.English).String(string(unit))
	switch offset {
	case 0:
		return fmt.Sprintf("This %s", title)
	case -1:
		return fmt.Sprintf("Last %s", title)
	}

	p := PeriodOf(now, offset, unit, firstDayOfWeek)
	switch unit {
	case Year:
		return fmt.Sprintf("%d", p.Start.Year())
	case Week:
		return fmt.Sprintf("%s - %s", p.Start.Format("02 Jan"), p.Last().Format("02 Jan"))
	}
	return p.Start.Format("January 2006")
}

func dayLabel(now, day time.Time) string {
	today := DateOf(now)
	date := DateOf(day)

	switch {
	case date.Equal(today):
		return "Today"
	case date.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	}

	weekStart := today.AddDate(0, 0, -DaysSinceWeekStart(today, 0))
	if !date.Before(weekStart) && date.Before(weekStart.AddDate(0, 0, 7)) {
		return date.Weekday().String()
	}

	return date.Format("02/01")
}
