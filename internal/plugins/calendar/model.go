// Package calendar renders wiki date tags against a configurable calendar.
// A calendar is either the ordinary Gregorian calendar synced to wall-clock
// time, or a fantasy calendar with custom month lengths, weekday names, and
// era suffixes. The engine functions (FormatDate, ComputeAge, Render,
// RenderTags) are pure; the service, repository, and handler layers load the
// configuration document for a wiki namespace and expose the engine over HTTP.
package calendar

import (
	"fmt"
	"time"
)

// Calendar mode constants, derived from the use_real_time switch.
const (
	// ModeFantasy indicates a fully custom fantasy calendar.
	ModeFantasy = "fantasy"
	// ModeRealLife indicates a Gregorian calendar synced to real-world time.
	ModeRealLife = "reallife"
)

// AgePlaceholder is replaced by the computed age inside age_format.
const AgePlaceholder = "%~AGE"

// RawConfig is the configuration document as stored, before validation.
// Field names are the external contract of the date_config.yaml document.
// Pointer fields distinguish "absent" from zero values so that missing
// required fields can be reported.
type RawConfig struct {
	DateFormatY   *string `yaml:"date_format_y" json:"date_format_y"`
	DateFormatYM  *string `yaml:"date_format_ym" json:"date_format_ym"`
	DateFormatYMD *string `yaml:"date_format_ymd" json:"date_format_ymd"`
	AgeFormat     *string `yaml:"age_format" json:"age_format"`

	UseRealTime *bool   `yaml:"use_real_time" json:"use_real_time"`
	CurrentTime *string `yaml:"current_time" json:"current_time"`

	SuffixBCE *string `yaml:"suffix_bce" json:"suffix_bce"`
	SuffixCE  *string `yaml:"suffix_ce" json:"suffix_ce"`

	Months        []RawMonth `yaml:"months" json:"months"`
	Weekdays      []string   `yaml:"weekdays" json:"weekdays"`
	WeekdaysShort []string   `yaml:"weekdays_short" json:"weekdays_short"`
	WeekdayOffset *int       `yaml:"weekday_offset" json:"weekday_offset"`
}

// RawMonth is a month entry of the configuration document.
type RawMonth struct {
	Name      string `yaml:"name" json:"name"`
	NameShort string `yaml:"name_short" json:"name_short"`
	Days      int    `yaml:"days" json:"days"`
}

// Month is a named period in the calendar with a fixed number of days.
type Month struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Days      int    `json:"days"`
}

// Date is a plain year/month/day triple with no time-of-day component.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String returns the date in the "year-month-day" form used by current_time.
func (d Date) String() string {
	return fmt.Sprintf("%d-%d-%d", d.Year, d.Month, d.Day)
}

// CalendarConfig is a validated calendar system. Construct it with
// NewCalendarConfig; it is never mutated afterwards, so one instance may be
// shared by concurrent formatting calls.
type CalendarConfig struct {
	months        []Month
	weekdays      []string
	weekdaysShort []string
	weekdayOffset int

	suffixBCE string
	suffixCE  string

	useRealTime bool
	currentTime Date

	dateFormatY   string
	dateFormatYM  string
	dateFormatYMD string
	ageFormat     string
}

// Mode returns ModeRealLife or ModeFantasy.
func (c *CalendarConfig) Mode() string {
	if c.useRealTime {
		return ModeRealLife
	}
	return ModeFantasy
}

// IsRealLife returns true if this calendar syncs to real-world time.
func (c *CalendarConfig) IsRealLife() bool {
	return c.useRealTime
}

// Months returns a copy of the configured months in calendar order.
func (c *CalendarConfig) Months() []Month {
	return append([]Month(nil), c.months...)
}

// Weekdays returns a copy of the full weekday names.
func (c *CalendarConfig) Weekdays() []string {
	return append([]string(nil), c.weekdays...)
}

// WeekLength returns the number of days in a week (number of weekdays).
func (c *CalendarConfig) WeekLength() int {
	return len(c.weekdays)
}

// CurrentTime returns the configured fantasy "today".
func (c *CalendarConfig) CurrentTime() Date {
	return c.currentTime
}

// AgeFormat returns the age template containing AgePlaceholder.
func (c *CalendarConfig) AgeFormat() string {
	return c.ageFormat
}

// YearLength returns the total number of days in a year by summing all
// month lengths.
func (c *CalendarConfig) YearLength() int {
	total := 0
	for _, m := range c.months {
		total += m.Days
	}
	return total
}

// DateReference is one date expression to render. Month and Day are nil
// when the expression omitted them.
type DateReference struct {
	Year       int  `json:"year"`
	Month      *int `json:"month,omitempty"`
	Day        *int `json:"day,omitempty"`
	IncludeAge bool `json:"include_age"`
}

// MonthOrDefault returns the referenced month, or 1 when absent.
func (r DateReference) MonthOrDefault() int {
	if r.Month == nil {
		return 1
	}
	return *r.Month
}

// DayOrDefault returns the referenced day, or 1 when absent.
func (r DateReference) DayOrDefault() int {
	if r.Day == nil {
		return 1
	}
	return *r.Day
}

// Date returns the reference as a full date with absent parts defaulted.
func (r DateReference) Date() Date {
	return Date{Year: r.Year, Month: r.MonthOrDefault(), Day: r.DayOrDefault()}
}

// String returns the reference in tag form, e.g. "372-2" or "372-2-12".
func (r DateReference) String() string {
	s := fmt.Sprintf("%d", r.Year)
	if r.Month != nil {
		s += fmt.Sprintf("-%d", *r.Month)
		if r.Day != nil {
			s += fmt.Sprintf("-%d", *r.Day)
		}
	}
	return s
}

// StoredConfig is a configuration document as persisted for a namespace.
type StoredConfig struct {
	Namespace string    `json:"namespace"`
	Document  string    `json:"document"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FormatResult is the output of a single formatting request.
type FormatResult struct {
	Mode    string `json:"mode"`
	Text    string `json:"text"`
	Weekday string `json:"weekday,omitempty"`
	Age     *int   `json:"age,omitempty"`
}

// TagError reports a date tag that could not be rendered.
type TagError struct {
	Tag     string `json:"tag"`
	Offset  int    `json:"offset"`
	Message string `json:"message"`
}
