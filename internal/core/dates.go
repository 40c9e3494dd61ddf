package core

import "time"

// dateLayouts are the encodings accepted at the record-store boundary:
// date-only for payment dates, RFC 3339 for record timestamps.
var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// TryParseDate parses a calendar-date string defensively. It returns
// ok=false instead of an error so call sites can apply the uniform
// "exclude and log" strategy for malformed dates without aborting a
// whole computation.
func TryParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseOrZero is the comparison fallback used by the balance series
// builder: a malformed date compares as the zero time, which routes the
// payment into the merge branch rather than crashing or producing a
// backward-moving series.
func parseOrZero(s string) time.Time {
	t, _ := TryParseDate(s)
	return t
}

// FormatDate renders a time as the date-only encoding used everywhere
// dates cross a boundary.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
