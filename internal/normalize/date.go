package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Spreadsheet serial dates for the 2009-2036 window land in this range;
// a bare number inside it is treated as days since the serial epoch.
const (
	serialMin = 40000
	serialMax = 50000
)

// serialEpoch is 1899-12-30: spreadsheet day zero after the historical
// two-day offset (one-based counting plus the Lotus leap-year bug).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	// day-first textual dates: DD/MM/YYYY, DD-MM-YYYY, DD.MM.YYYY
	dayFirstPattern = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})$`)
	// ISO order: YYYY-MM-DD
	yearFirstPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
)

// fallbackLayouts are tried when no fixed pattern matches.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
	"2-Jan-2006",
}

// Date parses a raw cell value into a calendar date. It accepts spreadsheet
// serial numbers and the textual patterns DD/MM/YYYY, DD-MM-YYYY, YYYY-MM-DD
// and DD.MM.YYYY, in that order, with a generic fallback. It never errors:
// the second return is false when the value is unparseable.
func Date(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial >= serialMin && serial <= serialMax {
			return serialEpoch.AddDate(0, 0, int(serial)), true
		}
		// Numbers outside the serial window are not dates.
		return time.Time{}, false
	}

	if m := dayFirstPattern.FindStringSubmatch(s); m != nil {
		// The year is whichever end group is 4 digits and past 1900;
		// day-first patterns put it last.
		if d, ok := makeDate(m[3], m[2], m[1]); ok {
			return d, true
		}
	}

	if m := yearFirstPattern.FindStringSubmatch(s); m != nil {
		if d, ok := makeDate(m[1], m[2], m[3]); ok {
			return d, true
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}

// IsDayFirstDate reports whether s looks like a D[D]/M[M]/YY[YY] date
// (with /, - or . separators). Used for positional structure inference.
func IsDayFirstDate(s string) bool {
	return dayFirstPattern.MatchString(strings.TrimSpace(s))
}

func makeDate(yearStr, monthStr, dayStr string) (time.Time, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}
	if year <= 1900 {
		return time.Time{}, false
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 31); reject anything that moved.
	if d.Day() != day || d.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return d, true
}
