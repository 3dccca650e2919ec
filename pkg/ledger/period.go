package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Period identifies one (year, month) bucket. Its canonical string form is
// "YYYY-MM", zero-padded so keys sort lexically.
type Period struct {
	Year  int
	Month time.Month
}

var periodPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)

func NewPeriod(year int, month time.Month) Period {
	return Period{Year: year, Month: month}
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a canonical period key. Unpadded months are accepted.
func ParsePeriod(key string) (Period, error) {
	m := periodPattern.FindStringSubmatch(key)
	if m == nil {
		return Period{}, fmt.Errorf("invalid period key %q", key)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid month in period key %q", key)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Prev returns the preceding calendar month.
func (p Period) Prev() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

// LastDay returns the number of days in the period's month.
func (p Period) LastDay() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Before reports whether p is an earlier month than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}
