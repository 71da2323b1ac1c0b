package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayBoundariesUseLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC) // 01:30 on the 11th in IST

	start := StartOfDay(ts, loc)
	end := EndOfDay(ts, loc)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 3, 11, 23, 59, 59, 999999999, loc), end)
}

func TestDaysInclusive(t *testing.T) {
	from := time.Date(2024, 2, 27, 15, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 4, DaysInclusive(from, to, time.UTC))
	assert.Equal(t, 1, DaysInclusive(from, from, time.UTC))
	assert.Equal(t, 0, DaysInclusive(to, from, time.UTC))
}

func TestDaysInclusiveWideRange(t *testing.T) {
	from := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 3652059, DaysInclusive(from, to, time.UTC))
}

func TestDaysInclusiveAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	from := time.Date(2024, 3, 9, 12, 0, 0, 0, ny)
	to := time.Date(2024, 3, 11, 1, 0, 0, 0, ny)

	assert.Equal(t, 3, DaysInclusive(from, to, ny))
}

func TestFakeClockAdvance(t *testing.T) {
	c := NewFakeClock(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), nil)
	c.Advance(36 * time.Hour)

	assert.Equal(t, time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC), c.Now())
	assert.Equal(t, time.UTC, c.Location())
}

func TestParseDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	got, err := ParseDate("2024-01-10", ny)
	assert.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 10, 0, 0, 0, 0, ny).Equal(got))
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), CivilDate(got, ny))

	got, err = ParseDate("2024-01-10T02:00:00Z", ny)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), CivilDate(got, ny))

	_, err = ParseDate("10/01/2024", ny)
	assert.Error(t, err)
}

func TestFromCivilRoundTrip(t *testing.T) {
	ny := time.FixedZone("EST", -5*3600)
	civil := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	local := FromCivil(civil, ny)
	assert.Equal(t, 5, local.Day())
	assert.Equal(t, civil, CivilDate(local, ny))
}
