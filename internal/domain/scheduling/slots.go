package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cprservices/clinic-scheduler/internal/httperr"
	"github.com/cprservices/clinic-scheduler/internal/timezone"
)

// WireDateLayout is the DD/MM/YYYY format used on the wire and in storage.
const WireDateLayout = "02/01/2006"

func ParseWireDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(WireDateLayout, s, timezone.Location(""))
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date")
	}
	return t, nil
}

func FormatWireDate(t time.Time) string {
	return t.Format(WireDateLayout)
}

// ParseSlotTime parses an H:MM 24-hour time ("9:00" or "09:00").
func ParseSlotTime(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, httperr.ErrBusiness("invalid_time")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, httperr.ErrBusiness("invalid_time")
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, httperr.ErrBusiness("invalid_time")
	}
	return hour, minute, nil
}

// FormatSlotTime renders the catalogue form without a leading zero (9:00).
func FormatSlotTime(hour, minute int) string {
	return fmt.Sprintf("%d:%02d", hour, minute)
}

// NormalizeSlotTime maps "09:00" to "9:00" so stored values compare equal.
func NormalizeSlotTime(s string) (string, error) {
	h, m, err := ParseSlotTime(s)
	if err != nil {
		return "", err
	}
	return FormatSlotTime(h, m), nil
}

// CatalogueTimes lists the bookable half-hour starts: 9:00 through 11:30
// and 13:00 through 16:30. 12:00-13:00 is the lunch break.
func CatalogueTimes() []string {
	var out []string
	for h := 9; h < 12; h++ {
		out = append(out, FormatSlotTime(h, 0), FormatSlotTime(h, 30))
	}
	for h := 13; h < 17; h++ {
		out = append(out, FormatSlotTime(h, 0), FormatSlotTime(h, 30))
	}
	return out
}

func IsCatalogueTime(s string) bool {
	normalized, err := NormalizeSlotTime(s)
	if err != nil {
		return false
	}
	for _, t := range CatalogueTimes() {
		if t == normalized {
			return true
		}
	}
	return false
}

// Combine resolves a wire date plus a slot time into a single instant,
// used for chronological ordering and the past-appointment sweep.
func Combine(dateStr, timeStr string) (time.Time, error) {
	day, err := ParseWireDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := ParseSlotTime(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}
