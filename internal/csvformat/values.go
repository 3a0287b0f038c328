package csvformat

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"reckon/internal/models"
)

var (
	errEmptyValue = errors.New("empty value")

	// Spreadsheet serial day zero. Serial 1 is 1899-12-31 on this scale,
	// which absorbs the historical 1900 leap-year bug for modern dates.
	serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
)

// Amounts must fit in int64 cents.
var (
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// maxSerial is the serial for 9999-12-31.
const maxSerial = 2958465

var dateLayouts = []string{
	models.DateLayout,
	"1/2/2006",
	"1/2/06",
	"2006/1/2",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a calendar date in any of the accepted layouts, or a
// spreadsheet serial number. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyValue
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(serial)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func fromSerial(serial float64) (time.Time, error) {
	if !(serial >= 1 && serial <= maxSerial) {
		return time.Time{}, fmt.Errorf("date serial %v out of range", serial)
	}
	return serialEpoch.AddDate(0, 0, int(math.Floor(serial))), nil
}

// ParseAmount parses a money amount. It tolerates a currency symbol,
// thousands separators, a trailing letter suffix ("12.99 N", "3.50 USD"),
// a trailing minus ("5.00-") and accounting parentheses.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimRightFunc(s, unicode.IsLetter)
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "-"))
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = !negative
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errEmptyValue
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if negative {
		d = d.Neg()
	}
	if cents := d.Shift(2).Round(0); cents.LessThan(minCents) || cents.GreaterThan(maxCents) {
		return decimal.Zero, fmt.Errorf("amount %q out of range", s)
	}
	return d, nil
}

// ToCents converts an amount to integer cents, rounding half away from zero.
func ToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FormatCents renders integer cents as a fixed two-decimal string.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
