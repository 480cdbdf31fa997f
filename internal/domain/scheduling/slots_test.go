package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cprservices/clinic-scheduler/internal/httperr"
)

func TestCatalogueTimes(t *testing.T) {
	times := CatalogueTimes()

	require.Len(t, times, 14)
	assert.Equal(t, "9:00", times[0])
	assert.Equal(t, "11:30", times[5])
	assert.Equal(t, "13:00", times[6])
	assert.Equal(t, "16:30", times[13])

	// Lunch break is never bookable.
	assert.NotContains(t, times, "12:00")
	assert.NotContains(t, times, "12:30")
}

func TestIsCatalogueTime(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9:00", true},
		{"09:00", true}, // leading zero accepted
		{"11:30", true},
		{"16:30", true},
		{"12:00", false},
		{"12:30", false},
		{"8:30", false},
		{"17:00", false},
		{"9:15", false},
		{"9h00", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCatalogueTime(tt.in), "time %q", tt.in)
	}
}

func TestNormalizeSlotTime(t *testing.T) {
	got, err := NormalizeSlotTime("09:00")
	require.NoError(t, err)
	assert.Equal(t, "9:00", got)

	got, err = NormalizeSlotTime("13:30")
	require.NoError(t, err)
	assert.Equal(t, "13:30", got)

	for _, bad := range []string{"25:00", "9:60", "nine", "9", ""} {
		_, err := NormalizeSlotTime(bad)
		assert.True(t, httperr.IsBusiness(err, "invalid_time"), "time %q", bad)
	}
}

func TestParseWireDate(t *testing.T) {
	d, err := ParseWireDate("06/01/2025")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, "06/01/2025", FormatWireDate(d))

	for _, bad := range []string{"2025-01-06", "32/01/2025", "6 janvier", ""} {
		_, err := ParseWireDate(bad)
		assert.True(t, httperr.IsBusiness(err, "invalid_date"), "date %q", bad)
	}
}

func TestCombineOrdersChronologically(t *testing.T) {
	morning, err := Combine("06/01/2025", "9:00")
	require.NoError(t, err)
	afternoon, err := Combine("06/01/2025", "14:30")
	require.NoError(t, err)
	nextDay, err := Combine("07/01/2025", "9:00")
	require.NoError(t, err)

	assert.True(t, morning.Before(afternoon))
	assert.True(t, afternoon.Before(nextDay))

	_, err = Combine("06/01/2025", "bad")
	assert.Error(t, err)
}
