package domain

import (
	"fmt"
	"time"
)

// Month identifies a calendar month. Comparisons always go through the
// decomposed (year, month) integers; raw "YYYY-MM" string order breaks at
// year rollover and is never used.
type Month struct {
	Year int
	Mon  time.Month
}

// ParseMonth parses a canonical "YYYY-MM" month string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Mon: t.Month()}, nil
}

// MonthOf returns the month containing t, in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// String renders the canonical "YYYY-MM" form.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// IsZero reports whether m is the zero value.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Mon == 0
}

// Compare returns -1, 0, or 1 ordering m against other.
func (m Month) Compare(other Month) int {
	switch {
	case m.Year != other.Year:
		if m.Year < other.Year {
			return -1
		}
		return 1
	case m.Mon != other.Mon:
		if m.Mon < other.Mon {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Before reports whether m precedes other.
func (m Month) Before(other Month) bool {
	return m.Compare(other) < 0
}

// After reports whether m follows other.
func (m Month) After(other Month) bool {
	return m.Compare(other) > 0
}

// Next returns the following calendar month, rolling over the year.
func (m Month) Next() Month {
	if m.Mon == time.December {
		return Month{Year: m.Year + 1, Mon: time.January}
	}
	return Month{Year: m.Year, Mon: m.Mon + 1}
}

// DateOnDay returns the UTC midnight date for the given day within the month.
// The day is clamped to 28 so the result is valid in every month, February
// included.
func (m Month) DateOnDay(day int) time.Time {
	if day > 28 {
		day = 28
	}
	if day < 1 {
		day = 1
	}
	return time.Date(m.Year, m.Mon, day, 0, 0, 0, 0, time.UTC)
}

// MaxMonth returns the later of a and b.
func MaxMonth(a, b Month) Month {
	if a.Before(b) {
		return b
	}
	return a
}

// MinMonth returns the earlier of a and b.
func MinMonth(a, b Month) Month {
	if b.Before(a) {
		return b
	}
	return a
}
