package calendar

import "time"

// floorMod returns a mod n in [0, n) for n > 0, including negative a.
func floorMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// WeekdayIndex returns the 0-based weekday of a fantasy date, shifted by
// weekday_offset. The weekday cycle counts year*yearLength days, plus the
// days of every month before month, plus day. Each term is reduced modulo the
// week length first so very large years cannot overflow, and negative years
// wrap with floor semantics. Months are 1-based.
func (c *CalendarConfig) WeekdayIndex(year, month, day int) int {
	week := len(c.weekdays)
	yearLen := 0
	for _, m := range c.months {
		yearLen = floorMod(yearLen+m.Days, week)
	}

	total := floorMod(year, week)*yearLen + floorMod(day, week) + floorMod(c.weekdayOffset, week)
	for i := 0; i < month-1 && i < len(c.months); i++ {
		total += floorMod(c.months[i].Days, week)
	}
	return floorMod(total, week)
}

// maxGregorianYear bounds real-time years well inside the range time.Time
// represents.
const maxGregorianYear = 999_999_999

// checkReference validates month and day against the fantasy calendar.
func (c *CalendarConfig) checkReference(ref DateReference) error {
	month := ref.MonthOrDefault()
	if month < 1 || month > len(c.months) {
		return &DateReferenceError{Field: "month", Value: month, Min: 1, Max: len(c.months)}
	}
	day := ref.DayOrDefault()
	if limit := c.months[month-1].Days; day < 1 || day > limit {
		return &DateReferenceError{Field: "day", Value: day, Min: 1, Max: limit}
	}
	return nil
}

// gregorianDate validates ref against the proleptic Gregorian calendar and
// returns it as midnight UTC.
func gregorianDate(ref DateReference) (time.Time, error) {
	if ref.Year < -maxGregorianYear || ref.Year > maxGregorianYear {
		return time.Time{}, &DateReferenceError{Field: "year", Value: ref.Year, Min: -maxGregorianYear, Max: maxGregorianYear}
	}
	month := ref.MonthOrDefault()
	if month < 1 || month > 12 {
		return time.Time{}, &DateReferenceError{Field: "month", Value: month, Min: 1, Max: 12}
	}
	day := ref.DayOrDefault()
	if limit := gregorianMonthDays(ref.Year, time.Month(month)); day < 1 || day > limit {
		return time.Time{}, &DateReferenceError{Field: "day", Value: day, Min: 1, Max: limit}
	}
	return time.Date(ref.Year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// gregorianMonthDays returns the length of a Gregorian month. Day 0 of the
// following month normalizes to the last day of this one.
func gregorianMonthDays(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
