package calendar

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the document in effect for a namespace that has no
// calendar configuration yet.
const DefaultConfigYAML = `# Format strings
# Supported format codes:
# %a    Weekday (abbr.)
# %A    Weekday
# %d    Day of the month (0-padded)
# %-d   Day of the month
# %b    Month (abbr.)
# %B    Month
# %m    Month (0-padded)
# %-m   Month
# %Y    Year
# %+Y   Year with era suffix
date_format_y: "%+Y"
date_format_ym: "%B %+Y"
date_format_ymd: "%B %-d, %+Y"
age_format: "(age %~AGE)" # %~AGE -> age in years

# Current time config
use_real_time: false
current_time: "372-2-12" # Fantasy time, format: y-m-d

# Fantasy time system configuration
suffix_bce: BCE
suffix_ce: CE
months:
  - name: "Spring"
    name_short: "Spr"
    days: 90
  - name: "Summer"
    name_short: "Sum"
    days: 90
  - name: "Fall"
    name_short: "Fal"
    days: 90
  - name: "Winter"
    name_short: "Win"
    days: 90
weekdays: [Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday]
weekdays_short: [Mon, Tue, Wed, Thu, Fri, Sat, Sun]
weekday_offset: 0 # 0-1-1 is the first weekday, shifted by this value
`

// ParseRawConfig decodes a YAML configuration document. Decoding failures
// are reported as ConfigError since the document is user-supplied.
func ParseRawConfig(doc []byte) (*RawConfig, error) {
	var raw RawConfig
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, configErr("document", err.Error())
	}
	return &raw, nil
}

// LoadConfig parses and validates a YAML document in one step.
func LoadConfig(doc []byte) (*CalendarConfig, error) {
	raw, err := ParseRawConfig(doc)
	if err != nil {
		return nil, err
	}
	return NewCalendarConfig(*raw)
}

// MarshalRawConfig encodes a configuration document as YAML.
func MarshalRawConfig(raw *RawConfig) ([]byte, error) {
	return yaml.Marshal(raw)
}

// NewCalendarConfig validates raw configuration data. It never fills in
// defaults: every field must be present in raw.
func NewCalendarConfig(raw RawConfig) (*CalendarConfig, error) {
	cfg := &CalendarConfig{}

	required := []struct {
		name string
		val  *string
		dst  *string
	}{
		{"date_format_y", raw.DateFormatY, &cfg.dateFormatY},
		{"date_format_ym", raw.DateFormatYM, &cfg.dateFormatYM},
		{"date_format_ymd", raw.DateFormatYMD, &cfg.dateFormatYMD},
		{"age_format", raw.AgeFormat, &cfg.ageFormat},
		{"suffix_bce", raw.SuffixBCE, &cfg.suffixBCE},
		{"suffix_ce", raw.SuffixCE, &cfg.suffixCE},
		{"current_time", raw.CurrentTime, nil},
	}
	for _, f := range required {
		if f.val == nil {
			return nil, configErr(f.name, "is required")
		}
		if f.dst != nil {
			*f.dst = *f.val
		}
	}
	if raw.UseRealTime == nil {
		return nil, configErr("use_real_time", "is required")
	}
	if raw.WeekdayOffset == nil {
		return nil, configErr("weekday_offset", "is required")
	}
	cfg.useRealTime = *raw.UseRealTime
	cfg.weekdayOffset = *raw.WeekdayOffset

	if len(raw.Months) == 0 {
		return nil, configErr("months", "calendar must have at least one month")
	}
	cfg.months = make([]Month, len(raw.Months))
	for i, m := range raw.Months {
		field := fmt.Sprintf("months[%d]", i)
		if m.Name == "" {
			return nil, configErr(field+".name", "is required")
		}
		if m.Days <= 0 {
			return nil, configErr(field+".days", "must be a positive integer")
		}
		cfg.months[i] = Month{Name: m.Name, ShortName: m.NameShort, Days: m.Days}
	}

	if len(raw.Weekdays) == 0 {
		return nil, configErr("weekdays", "calendar must have at least one weekday")
	}
	if len(raw.WeekdaysShort) != len(raw.Weekdays) {
		return nil, configErr("weekdays_short",
			fmt.Sprintf("has %d entries, weekdays has %d", len(raw.WeekdaysShort), len(raw.Weekdays)))
	}
	cfg.weekdays = append([]string(nil), raw.Weekdays...)
	cfg.weekdaysShort = append([]string(nil), raw.WeekdaysShort...)

	current, err := ParseCurrentTime(*raw.CurrentTime)
	if err != nil {
		return nil, err
	}
	cfg.currentTime = current

	// The fantasy "today" must name a real day of the configured calendar.
	if !cfg.useRealTime {
		if current.Month < 1 || current.Month > len(cfg.months) {
			return nil, configErr("current_time",
				fmt.Sprintf("month %d out of range [1, %d]", current.Month, len(cfg.months)))
		}
		if limit := cfg.months[current.Month-1].Days; current.Day < 1 || current.Day > limit {
			return nil, configErr("current_time",
				fmt.Sprintf("day %d out of range [1, %d]", current.Day, limit))
		}
	}

	return cfg, nil
}

// ParseCurrentTime parses a "year-month-day" triple. A leading minus sign is
// accepted for years before the epoch.
func ParseCurrentTime(s string) (Date, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	parts := strings.Split(strings.TrimPrefix(s, "-"), "-")
	if len(parts) != 3 {
		return Date{}, configErr("current_time", fmt.Sprintf("%q is not in year-month-day form", s))
	}

	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return Date{}, configErr("current_time", fmt.Sprintf("%q is not in year-month-day form", s))
		}
		vals[i] = v
	}
	if neg {
		vals[0] = -vals[0]
	}
	return Date{Year: vals[0], Month: vals[1], Day: vals[2]}, nil
}
