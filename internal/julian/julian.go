// Package julian converts the Julian-day time stamps of legacy CryoSat-2
// processing chains into calendar instants.
//
// Two day-count conventions appear interchangeably in the AWI files: full
// Julian days (≥ LegacyThreshold) and days counted from the 1900 epoch. The
// latter are rebased with LegacyEpochOffset before conversion. The arithmetic
// deliberately mirrors the historical float64 algorithm step for step so that
// decoded time stamps are bit-identical to previously archived products.
package julian

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

const (
	// LegacyThreshold separates 1900-epoch day counts from full Julian days.
	LegacyThreshold = 2440000.0

	// LegacyEpochOffset rebases a 1900-epoch day count onto full Julian days.
	LegacyEpochOffset = 2415020.0 + 1

	// RoundOffEpsilon (days) keeps instants that sit on a day boundary from
	// flooring into the previous day.
	RoundOffEpsilon = 5.0e-9

	// DayBoundaryOffset is applied to every converted instant; Julian days
	// begin at noon.
	DayBoundaryOffset = 12 * time.Hour
)

// Gregorian conversion constants: March-based year offset, days per 400-year
// cycle, days per 4-year cycle, and days per 5-month block.
const (
	gregorianOffset = 1721119
	daysPer400Years = 146097
	daysPer4Years   = 1461
	daysPer5Months  = 153
)

// Cumulative first-day-of-month year-days, with the 13th entry closing the year.
var (
	monthStart     = [13]int{1, 32, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335, 366}
	monthStartLeap = [13]int{1, 32, 61, 92, 122, 153, 183, 214, 245, 275, 306, 336, 367}
)

// CalendarDate is the broken-down form of a Julian day before the day
// boundary offset is applied.
type CalendarDate struct {
	Year        int
	YearDay     int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

// LeapYear reports whether year is a Gregorian leap year.
func LeapYear(year int) bool {
	if year%4 != 0 {
		return false
	}
	if year%100 != 0 {
		return true
	}
	return year%400 == 0
}

// Caldate1900 breaks a Julian day down into calendar fields.
//
// Seconds are rounded to the nearest whole second, while Microsecond is taken
// independently from the fractional second of jd·86400. Both are kept as the
// historical products carry them; ToTime adds them together.
func Caldate1900(jd float64) CalendarDate {
	if jd < LegacyThreshold {
		jd += LegacyEpochOffset
	}
	jd += RoundOffEpsilon

	j := math.Floor(jd) - gregorianOffset
	jin := 4*j - 1
	y := math.Floor(jin / daysPer400Years)
	j = jin - daysPer400Years*y
	jin = math.Floor(j / 4)
	jin = 4*jin + 3
	j = math.Floor(jin / daysPer4Years)
	d := math.Floor(((jin - daysPer4Years*j) + 4) / 4)
	jin = 5*d - 3
	m := math.Floor(jin / daysPer5Months)
	d = math.Floor(((jin - daysPer5Months*m) + 5) / 5)
	y = y*100 + j

	var month, year int
	if m < 10 {
		month = int(m) + 3
		year = int(y)
	} else {
		month = int(m) - 9
		year = int(y) + 1
	}
	day := int(d)

	table := monthStart
	if LeapYear(year) {
		table = monthStartLeap
	}
	yearDay := table[month-1] + day - 1

	secs := math.Mod(jd, 1) * 24 * 3600
	sec := math.Round(secs)
	hour := math.Floor(sec / 3600)
	minute := math.Floor(math.Mod(sec, 3600) / 60)
	sec = math.Round(math.Mod(sec, 60))

	sub := float64(jd*24.0) * 3600.0
	usec := (sub - math.Floor(sub)) * 1e6

	return CalendarDate{
		Year:        year,
		YearDay:     yearDay,
		Month:       month,
		Day:         day,
		Hour:        int(hour),
		Minute:      int(minute),
		Second:      int(sec),
		Microsecond: int(usec),
	}
}

// Time returns the calendar date as a UTC instant without the day boundary
// offset. Out-of-range fields (hour 24 after rounding) normalise forward.
func (c CalendarDate) Time() time.Time {
	return time.Date(c.Year, time.Month(c.Month), c.Day,
		c.Hour, c.Minute, c.Second, c.Microsecond*int(time.Microsecond), time.UTC)
}

// ToTime converts a Julian day (either convention) into a UTC instant.
func ToTime(jd float64) time.Time {
	return Caldate1900(jd).Time().Add(DayBoundaryOffset)
}

// FromTime encodes t as a full Julian day, the inverse of ToTime up to the
// round-off epsilon.
func FromTime(t time.Time) float64 {
	t = t.UTC()
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()
	jd := satellite.JDay(year, int(month), day, hour, minute, sec)
	return jd + float64(t.Nanosecond())/float64(24*time.Hour)
}
