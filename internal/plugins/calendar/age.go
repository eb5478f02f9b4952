package calendar

import "time"

// ComputeAge returns the whole years elapsed from ref to "now": the wall
// clock in real-time mode, current_time in fantasy mode.
func ComputeAge(ref DateReference, cfg *CalendarConfig) (int, error) {
	return ComputeAgeAt(ref, cfg, time.Now())
}

// ComputeAgeAt is ComputeAge with an explicit wall-clock time. now is
// ignored in fantasy mode.
func ComputeAgeAt(ref DateReference, cfg *CalendarConfig, now time.Time) (int, error) {
	if cfg.useRealTime {
		t, err := gregorianDate(ref)
		if err != nil {
			return 0, err
		}
		y, m, d := now.Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if today.Before(t) {
			return -fullYears(today, t), nil
		}
		return fullYears(t, today), nil
	}

	if err := cfg.checkReference(ref); err != nil {
		return 0, err
	}
	return fantasyAge(ref.Date(), cfg.currentTime), nil
}

// fantasyAge counts the anniversary of born as reached on the same
// month/day of the current year.
func fantasyAge(born, now Date) int {
	age := (now.Year - born.Year) - 1
	if born.Month < now.Month || (born.Month == now.Month && born.Day <= now.Day) {
		age++
	}
	return age
}

// fullYears returns the number of completed years from a to b (a <= b). A
// year completes on the month/day anniversary, clamped to the end of the
// month, so a Feb 29 start completes on Feb 28 in common years.
func fullYears(a, b time.Time) int {
	years := b.Year() - a.Year()
	day := min(a.Day(), gregorianMonthDays(b.Year(), a.Month()))
	if b.Month() < a.Month() || (b.Month() == a.Month() && b.Day() < day) {
		years--
	}
	return years
}
