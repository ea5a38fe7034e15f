// Package timeutil owns the service's naive-local timestamp convention.
//
// All persisted datetimes are strings of the form "2006-01-02T15:04:05" with
// no zone suffix, interpreted in one fixed organizational timezone. Rendering
// "now", parsing model output, and reminder arithmetic all go through this
// package so both sides of every comparison use the same representation.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the wire and storage layout for naive local timestamps.
const Layout = "2006-01-02T15:04:05"

// DateLayout is the storage layout for date-only values (to-do due dates).
const DateLayout = "2006-01-02"

// Clock renders and parses naive local timestamps in a fixed zone. The zero
// value is unusable; construct with NewClock.
type Clock struct {
	loc *time.Location
	// now is overridable for tests.
	now func() time.Time
}

// NewClock returns a Clock pinned to the given IANA zone name.
func NewClock(zone string) (*Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewFixedClock returns a Clock whose Now is pinned to instant, for tests.
func NewFixedClock(zone string, instant time.Time) (*Clock, error) {
	c, err := NewClock(zone)
	if err != nil {
		return nil, err
	}
	c.now = func() time.Time { return instant }
	return c, nil
}

// Location exposes the fixed organizational zone.
func (c *Clock) Location() *time.Location { return c.loc }

// Now returns the current wall-clock time in the fixed zone.
func (c *Clock) Now() time.Time { return c.now().In(c.loc) }

// NowString returns the current time in storage form. Lexicographic
// comparison of two storage-form strings matches chronological order, which
// is what the scheduler's due-alarm selection relies on.
func (c *Clock) NowString() string { return c.Now().Format(Layout) }

// Format renders t in storage form, in the fixed zone.
func (c *Clock) Format(t time.Time) string { return t.In(c.loc).Format(Layout) }

// Parse reads a naive local timestamp. It tolerates the variants a language
// model tends to emit: date-only values, a space instead of 'T', fractional
// seconds, and a trailing "Z" or numeric offset (the offset is discarded and
// the civil time is kept, per the fixed-zone convention).
func (c *Clock) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	s = strings.Replace(s, " ", "T", 1)
	// Strip a zone suffix if present; stored values never carry one.
	if len(s) > 10 {
		if i := strings.IndexAny(s[10:], "Z+"); i >= 0 {
			s = s[:10+i]
		} else if i := strings.LastIndex(s, "-"); i > 10 {
			s = s[:i]
		}
	}
	for _, layout := range []string{Layout, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04", DateLayout} {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}

// Normalize parses s and re-renders it in storage form, so every persisted
// value compares cleanly against NowString.
func (c *Clock) Normalize(s string) (string, error) {
	t, err := c.Parse(s)
	if err != nil {
		return "", err
	}
	return c.Format(t), nil
}

// Human renders a stored timestamp for user-facing confirmation messages.
func (c *Clock) Human(s string) string {
	t, err := c.Parse(s)
	if err != nil {
		return s
	}
	return t.Format("Mon, 2 Jan 2006 at 3:04 PM")
}

// PromptNow renders the current date/time line injected into the system
// prompt, including the weekday the model needs for relative dates.
func (c *Clock) PromptNow() string {
	return c.Now().Format("Monday, 02/01/2006, 15:04:05")
}
