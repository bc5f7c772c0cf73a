package billing

import (
	"fmt"
	"time"
)

// Month identifies one calendar month. The zero value is invalid.
type Month struct {
	Year int
	Mon  time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// ParseMonth parses a "YYYY-MM" key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month key %q: %w", s, err)
	}
	return Month{Year: t.Year(), Mon: t.Month()}, nil
}

// String renders the canonical "YYYY-MM" key.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Mon == time.December {
		return Month{Year: m.Year + 1, Mon: time.January}
	}
	return Month{Year: m.Year, Mon: m.Mon + 1}
}

func (m Month) Before(o Month) bool {
	return m.Year < o.Year || (m.Year == o.Year && m.Mon < o.Mon)
}

func (m Month) After(o Month) bool {
	return o.Before(m)
}

// First returns midnight UTC on the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween counts calendar months from a to b inclusive.
// Returns 0 when b precedes a.
func MonthsBetween(a, b Month) int {
	n := (b.Year-a.Year)*12 + int(b.Mon) - int(a.Mon) + 1
	if n < 0 {
		return 0
	}
	return n
}

func maxMonth(a, b Month) Month {
	if a.Before(b) {
		return b
	}
	return a
}

func minMonth(a, b Month) Month {
	if a.Before(b) {
		return a
	}
	return b
}
