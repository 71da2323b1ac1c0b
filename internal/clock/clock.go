package clock

import (
	"time"

	"github.com/smallbiznis/milkledger/internal/config"
	"go.uber.org/fx"
)

// Clock supplies the current time and the business time zone used to
// resolve calendar days.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)

type SystemClock struct {
	loc *time.Location
}

func NewSystemClock(cfg config.Config) Clock {
	return &SystemClock{loc: cfg.Location()}
}

func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.Location())
}

func (c *SystemClock) Location() *time.Location {
	if c == nil || c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last nanosecond of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DaysInclusive counts calendar days between from and to, both included.
// Inverted ranges return 0.
func DaysInclusive(from, to time.Time, loc *time.Location) int {
	start := CivilDate(from, loc)
	end := CivilDate(to, loc)
	if end.Before(start) {
		return 0
	}
	// Civil dates sit at midnight UTC, so days are exactly secondsPerDay apart.
	// time.Sub saturates past ~292 years; count in Unix seconds.
	return int((end.Unix()-start.Unix())/secondsPerDay) + 1
}

const (
	dateOnlyLayout = "2006-01-02"
	secondsPerDay  = 24 * 60 * 60
)

// CivilDate reduces t to its calendar day in loc, expressed as midnight UTC.
// Delivery dates are stored in this form.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD (read in loc) or an RFC 3339 timestamp and
// returns midnight in loc of the calendar day it names.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, value, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(t, loc), nil
}

// FromCivil is the inverse of CivilDate: midnight in loc of the calendar day d
// holds as midnight UTC.
func FromCivil(d time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	d = d.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
