package core

import (
	"log/slog"
	"time"
)

// MonthBucket aggregates the payments of one calendar month.
type MonthBucket struct {
	Month time.Month
	Total Money
	Count int
}

// MonthlySummary holds the statistics derived from a year of buckets.
type MonthlySummary struct {
	CurrentMonthTotal Money
	CurrentMonthCount int
	ActiveMonths      int
	AverageMonthly    Money
}

// AggregateMonthly buckets payments into the twelve calendar months of
// the given year. A payment lands in the bucket whose window
// [start of month, min(now, end of month)] contains its date, so the
// current month only counts payments up to today and future months stay
// empty. Payments with malformed dates are excluded from every bucket.
func AggregateMonthly(payments []Payment, year int, now time.Time) []MonthBucket {
	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		month := time.Month(i + 1)
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		upper := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		if now.Before(upper) {
			upper = now
		}

		b := MonthBucket{Month: month}
		for _, p := range payments {
			d, ok := TryParseDate(p.PaymentDate)
			if !ok {
				slog.Warn("payment date does not parse, excluded from monthly aggregation",
					"payment_id", p.ID, "payment_date", p.PaymentDate)
				continue
			}
			if !d.Before(start) && !d.After(upper) {
				b.Total.Cents += p.Amount.Cents
				b.Count++
			}
		}
		buckets[i] = b
	}
	return buckets
}

// SummarizeMonths derives the current month's figures and the average
// monthly payment over the months that saw activity. With no active
// months the average is 0, never a division by zero.
func SummarizeMonths(buckets []MonthBucket, now time.Time) MonthlySummary {
	var s MonthlySummary
	var activeTotal int64
	for _, b := range buckets {
		if b.Month == now.Month() {
			s.CurrentMonthTotal = b.Total
			s.CurrentMonthCount = b.Count
		}
		if b.Total.Cents > 0 {
			s.ActiveMonths++
			activeTotal += b.Total.Cents
		}
	}
	if s.ActiveMonths > 0 {
		n := int64(s.ActiveMonths)
		s.AverageMonthly = Money{Cents: (activeTotal + n/2) / n}
	}
	return s
}
