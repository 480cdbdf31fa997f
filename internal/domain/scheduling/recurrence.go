package scheduling

import (
	"time"

	"github.com/cprservices/clinic-scheduler/internal/httperr"
)

// ===============================
// Recurrence
// ===============================

type Frequency string

const (
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return Frequency(s), nil
	default:
		return "", httperr.ErrBusiness("invalid_frequency")
	}
}

// Occurrences expands a base date into the full series of session dates.
// The base date is always element 0 and a count below 2 yields only the
// base occurrence. Weekly steps 7 days, biweekly 14.
//
// Monthly keeps every occurrence on the base date's weekday: the base is
// advanced by i calendar months, then shifted by the weekday delta toward
// the base weekday; when that shift would leave the target month the
// occurrence falls back a week instead, so a session never spills into
// the following month (it may land a week earlier than the naive
// same-day-of-month date).
func Occurrences(base time.Time, freq Frequency, count int) []time.Time {
	if count < 1 {
		count = 1
	}

	out := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		switch freq {
		case FrequencyWeekly:
			out = append(out, base.AddDate(0, 0, 7*i))
		case FrequencyBiweekly:
			out = append(out, base.AddDate(0, 0, 14*i))
		case FrequencyMonthly:
			out = append(out, monthlyOccurrence(base, i))
		default:
			out = append(out, base.AddDate(0, 0, 7*i))
		}
	}
	return out
}

func monthlyOccurrence(base time.Time, months int) time.Time {
	if months == 0 {
		return base
	}

	naive := base.AddDate(0, months, 0)
	target := time.Month((int(base.Month())-1+months)%12 + 1)

	// Shift onto the base weekday first.
	c := naive.AddDate(0, 0, int(base.Weekday())-int(naive.Weekday()))

	// A negative shift can land in the month before the target.
	for c.Month() != target && c.Before(naive) {
		c = c.AddDate(0, 0, 7)
	}
	// AddDate overflow (Jan 31 + 1 month) or a positive shift can land
	// after the target month; walk back a week at a time.
	for c.Month() != target {
		c = c.AddDate(0, 0, -7)
	}
	return c
}
