// Package clinic resolves calendar days in the clinic's local timezone.
// "Today" is always derived at call time, never cached, so behavior around
// midnight follows the clinic wall clock rather than the server's.
package clinic

import (
	"fmt"
	"time"
)

// DefaultTimezone is the clinic's IANA timezone.
const DefaultTimezone = "Europe/Berlin"

// Day is a calendar day in the clinic timezone.
type Day struct {
	Start time.Time
	End   time.Time
}

// ISO returns the day as an ISO calendar date (YYYY-MM-DD).
func (d Day) ISO() string {
	return d.Start.Format("2006-01-02")
}

// Contains reports whether t falls on this day.
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}

// Clock resolves the current clinic day.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a Clock for the given IANA timezone name. An empty name
// selects DefaultTimezone.
func NewClock(tz string) (*Clock, error) {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("load clinic timezone %q: %w", tz, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// SetNowFunc overrides the time source. Test use only.
func (c *Clock) SetNowFunc(now func() time.Time) {
	c.now = now
}

// Location returns the clinic timezone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current time in the clinic timezone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current clinic day with half-open bounds [Start, End).
func (c *Clock) Today() Day {
	now := c.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
	return Day{Start: start, End: start.AddDate(0, 0, 1)}
}
