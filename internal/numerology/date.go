package numerology

import (
	"fmt"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// Date holds the numeric parts of a birthdate.
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate decomposes an ISO YYYY-MM-DD string. Impossible calendar dates
// (2023-02-30) are rejected.
func ParseDate(iso string) (Date, error) {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return Date{}, fmt.Errorf("empty birthdate: %w", ErrInvalidDate)
	}
	t, err := time.Parse(isoDate, iso)
	if err != nil {
		return Date{}, fmt.Errorf("parse birthdate %q: %w", iso, ErrInvalidDate)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
