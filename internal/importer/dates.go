package importer

import (
	"strings"
	"time"
)

// CanonicalDateLayout is the stored textual form for certificate dates.
const CanonicalDateLayout = "02-01-2006"

// serialEpochOffset is the number of days between the spreadsheet serial
// epoch (1900 system) and the Unix epoch.
const serialEpochOffset = 25569

var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"02/01/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 January 2006",
}

// DateFromSerial converts a spreadsheet date serial into a calendar date.
func DateFromSerial(serial float64) time.Time {
	ms := (serial - serialEpochOffset) * 86400 * 1000
	return time.UnixMilli(int64(ms)).UTC()
}

// ParseDate resolves the dual-format rule: a string containing '-' is read as
// DD-MM-YYYY when its first segment has two characters and as YYYY-MM-DD when
// it has four; anything else falls through to generic layouts. The boolean is
// false when no interpretation yields a valid calendar date.
func ParseDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}

	if strings.Contains(s, "-") {
		first := s[:strings.Index(s, "-")]
		switch len(first) {
		case 2:
			if t, err := time.Parse(CanonicalDateLayout, s); err == nil {
				return t, true
			}
		case 4:
			if t, err := time.Parse("2006-01-02", s); err == nil {
				return t, true
			}
		}
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// CanonicalDate formats a calendar date into the stored DD-MM-YYYY form.
func CanonicalDate(t time.Time) string {
	return t.Format(CanonicalDateLayout)
}
