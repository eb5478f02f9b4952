package calendar

import (
	"strconv"
	"strings"
	"time"
)

// formatCodes is the recognized code vocabulary. Longer codes are listed
// before the codes they extend so "%-d" is never read as "%" + "-d".
var formatCodes = []string{"%-d", "%-m", "%+Y", "%a", "%A", "%d", "%b", "%B", "%m", "%Y"}

// dateParts holds every value a format code can expand to.
type dateParts struct {
	weekday      string
	weekdayShort string
	day          int
	dayWidth     int
	month        int
	monthWidth   int
	monthName    string
	monthShort   string
	year         int
	era          string
}

// expand substitutes format codes in a single left-to-right pass. Text that
// is not a recognized code, including a lone "%", is copied through.
func (p dateParts) expand(layout string) string {
	var b strings.Builder
	b.Grow(len(layout) + 16)

	for i := 0; i < len(layout); {
		if layout[i] != '%' {
			b.WriteByte(layout[i])
			i++
			continue
		}
		code := matchCode(layout[i:])
		if code == "" {
			b.WriteByte('%')
			i++
			continue
		}
		b.WriteString(p.value(code))
		i += len(code)
	}
	return b.String()
}

func matchCode(s string) string {
	for _, code := range formatCodes {
		if strings.HasPrefix(s, code) {
			return code
		}
	}
	return ""
}

func (p dateParts) value(code string) string {
	switch code {
	case "%a":
		return p.weekdayShort
	case "%A":
		return p.weekday
	case "%d":
		return zeroPad(p.day, p.dayWidth)
	case "%-d":
		return strconv.Itoa(p.day)
	case "%b":
		return p.monthShort
	case "%B":
		return p.monthName
	case "%m":
		return zeroPad(p.month, p.monthWidth)
	case "%-m":
		return strconv.Itoa(p.month)
	case "%Y":
		return strconv.Itoa(p.year)
	case "%+Y":
		return p.era
	}
	return code
}

// digitWidth returns the number of decimal digits in n (n >= 1).
func digitWidth(n int) int {
	return len(strconv.Itoa(n))
}

// zeroPad left-pads v with zeros to width digits.
func zeroPad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// EraYear renders a year with its era suffix. Real-time calendars always use
// "BCE"/"CE" separated by a space; fantasy calendars use the configured
// suffixes and omit the space when the suffix is empty. Year 0 takes the CE
// branch.
func EraYear(year int, cfg *CalendarConfig) string {
	abs := year
	if abs < 0 {
		abs = -abs
	}
	if cfg.useRealTime {
		if year < 0 {
			return strconv.Itoa(abs) + " BCE"
		}
		return strconv.Itoa(abs) + " CE"
	}

	suffix := cfg.suffixCE
	if year < 0 {
		suffix = cfg.suffixBCE
	}
	if suffix == "" {
		return strconv.Itoa(abs)
	}
	return strconv.Itoa(abs) + " " + suffix
}

// layoutFor picks the template for the precision of ref.
func (c *CalendarConfig) layoutFor(ref DateReference) string {
	switch {
	case ref.Month == nil:
		return c.dateFormatY
	case ref.Day == nil:
		return c.dateFormatYM
	default:
		return c.dateFormatYMD
	}
}

// parts resolves every code value for ref, validating month and day.
func (c *CalendarConfig) parts(ref DateReference) (dateParts, error) {
	if c.useRealTime {
		t, err := gregorianDate(ref)
		if err != nil {
			return dateParts{}, err
		}
		weekday := t.Weekday().String()
		monthName := t.Month().String()
		return dateParts{
			weekday:      weekday,
			weekdayShort: weekday[:3],
			day:          t.Day(),
			dayWidth:     digitWidth(gregorianMonthDays(t.Year(), t.Month())),
			month:        int(t.Month()),
			monthWidth:   digitWidth(12),
			monthName:    monthName,
			monthShort:   monthName[:3],
			year:         ref.Year,
			era:          EraYear(ref.Year, c),
		}, nil
	}

	if err := c.checkReference(ref); err != nil {
		return dateParts{}, err
	}
	month, day := ref.MonthOrDefault(), ref.DayOrDefault()
	m := c.months[month-1]
	wd := c.WeekdayIndex(ref.Year, month, day)
	return dateParts{
		weekday:      c.weekdays[wd],
		weekdayShort: c.weekdaysShort[wd],
		day:          day,
		dayWidth:     digitWidth(m.Days),
		month:        month,
		monthWidth:   digitWidth(len(c.months)),
		monthName:    m.Name,
		monthShort:   m.ShortName,
		year:         ref.Year,
		era:          EraYear(ref.Year, c),
	}, nil
}

// FormatDate renders ref through the template matching its precision:
// date_format_y, date_format_ym, or date_format_ymd. Absent month and day
// count as 1 for the weekday and the rendered values. It returns a
// DateReferenceError when month or day is outside the calendar.
func FormatDate(ref DateReference, cfg *CalendarConfig) (string, error) {
	p, err := cfg.parts(ref)
	if err != nil {
		return "", err
	}
	return p.expand(cfg.layoutFor(ref)), nil
}

// Weekday returns the full weekday name of ref.
func Weekday(ref DateReference, cfg *CalendarConfig) (string, error) {
	p, err := cfg.parts(ref)
	if err != nil {
		return "", err
	}
	return p.weekday, nil
}

// Render returns FormatDate output followed, when ref.IncludeAge is set, by a
// space and age_format with the age filled in. In fantasy mode the age text
// goes through the same code substitution as the date. now is only read in
// real-time mode.
func Render(ref DateReference, cfg *CalendarConfig, now time.Time) (string, error) {
	p, err := cfg.parts(ref)
	if err != nil {
		return "", err
	}
	layout := cfg.layoutFor(ref)
	if !ref.IncludeAge {
		return p.expand(layout), nil
	}

	age, err := ComputeAgeAt(ref, cfg, now)
	if err != nil {
		return "", err
	}
	ageText := strings.ReplaceAll(cfg.ageFormat, AgePlaceholder, strconv.Itoa(age))
	if cfg.useRealTime {
		return p.expand(layout) + " " + ageText, nil
	}
	return p.expand(layout + " " + ageText), nil
}
