package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// excel serial day 0, as used by the 1900 date system
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// serial of 9999-12-31, the last date Excel can represent
const maxExcelSerial = 2958465

var dateLayouts = []string{
	DateLayout,
	TimestampLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000000",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
}

// ParseAmount parses a money value, stripping thousands separators and spaces.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(clean)
}

// AmountOrZero is ParseAmount with unparseable input coerced to zero.
func AmountOrZero(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDate accepts the date shapes found in hand-edited spreadsheets,
// including Excel serial numbers. Empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nat") || strings.EqualFold(s, "nan") {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < maxExcelSerial+1 {
		days := math.Floor(serial)
		fraction := time.Duration((serial - days) * float64(24*time.Hour))
		t := excelEpoch.AddDate(0, 0, int(days)).Add(fraction).Round(time.Second)
		return &t, nil
	}

	return nil, fmt.Errorf("unrecognised date %q", s)
}

// DateOnly drops the clock part, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc != nil {
		now = now.In(loc)
	}
	return DateOnly(now)
}

// CalculateDueDate returns the repayment deadline for an advance.
func CalculateDueDate(borrowDate time.Time, termDays int) time.Time {
	return DateOnly(borrowDate).AddDate(0, 0, termDays)
}

// FormatDate renders a nullable date for storage; nil becomes "".
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// SameDate compares two nullable dates by calendar day.
func SameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return DateOnly(*a).Equal(DateOnly(*b))
}

// Percent returns part/whole*100 rounded to 2 places, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
