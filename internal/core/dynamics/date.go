package dynamics

import (
	"math"
	"strings"
	"time"
)

// wireDateFormat is the calendar date layout used by Business Central OData fields.
const wireDateFormat = "2006-01-02"

// Date is a calendar date in the upstream wire format.
// The zero value means "no date set": Business Central reports unset dates as
// the sentinel 0001-01-01, which parses to exactly the zero time, so sentinel
// translation falls out of the type. A zero Date marshals to JSON null and
// never appears as a literal date in responses.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, m, d)
}

// ParseDate parses a wire date leniently. Empty strings, nulls, the
// 0001-01-01 sentinel and unparseable input all map to the zero Date.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return Date{}
	}
	if t, err := time.Parse(wireDateFormat, s); err == nil {
		return Date{t}
	}
	// Some custom pages expose datetime fields; keep the date part.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t)
	}
	return Date{}
}

// Valid reports whether the date is set.
func (d Date) Valid() bool {
	return !d.Time.IsZero()
}

// String returns the wire format, or "" for an unset date.
func (d Date) String() string {
	if !d.Valid() {
		return ""
	}
	return d.Format(wireDateFormat)
}

// MarshalJSON emits the wire format, or null for an unset date.
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(wireDateFormat) + `"`), nil
}

// UnmarshalJSON parses the wire format leniently, mapping the sentinel to zero.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	*d = ParseDate(s)
	return nil
}

// DaysSince returns the number of days from o to d, rounded up.
func (d Date) DaysSince(o Date) int {
	return int(math.Ceil(d.Sub(o.Time).Hours() / 24))
}

// OnOrBefore reports whether d falls on or before o.
func (d Date) OnOrBefore(o Date) bool {
	return !d.After(o.Time)
}

// OnOrAfter reports whether d falls on or after o.
func (d Date) OnOrAfter(o Date) bool {
	return !d.Before(o.Time)
}

// AddDays returns the date shifted by the given number of days.
func (d Date) AddDays(days int) Date {
	return Date{d.AddDate(0, 0, days)}
}
