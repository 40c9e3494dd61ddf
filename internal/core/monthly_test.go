package core

import (
	"reflect"
	"testing"
	"time"
)

func TestAggregateMonthlyBucketsByMonth(t *testing.T) {
	now := time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC)
	payments := []Payment{
		pay("2024-01-15", 10000),
		pay("2024-01-20", 5000),
		pay("2024-06-01", 20000),
		pay("2023-06-01", 99999), // previous year, excluded
		pay("oops", 12345),       // malformed, excluded
	}
	buckets := AggregateMonthly(payments, 2024, now)
	if len(buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(buckets))
	}
	if buckets[0].Total.Cents != 15000 || buckets[0].Count != 2 {
		t.Fatalf("january = %+v", buckets[0])
	}
	if buckets[5].Total.Cents != 20000 || buckets[5].Count != 1 {
		t.Fatalf("june = %+v", buckets[5])
	}
	for i, b := range buckets {
		if i != 0 && i != 5 && (b.Total.Cents != 0 || b.Count != 0) {
			t.Fatalf("bucket %d should be empty: %+v", i, b)
		}
	}
}

// The current month's window is clamped to now: with today = March 15,
// a payment on March 20 does not count.
func TestAggregateMonthlyClampsCurrentMonthToNow(t *testing.T) {
	now := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	payments := []Payment{
		pay("2024-03-10", 10000),
		pay("2024-03-15", 5000),
		pay("2024-03-20", 7000),
	}
	buckets := AggregateMonthly(payments, 2024, now)
	march := buckets[2]
	if march.Total.Cents != 15000 || march.Count != 2 {
		t.Fatalf("march = %+v, want total 15000 count 2", march)
	}
}

func TestAggregateMonthlyIdempotent(t *testing.T) {
	now := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	payments := []Payment{pay("2024-02-01", 100), pay("2024-03-01", 200)}
	a := AggregateMonthly(payments, 2024, now)
	b := AggregateMonthly(payments, 2024, now)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("aggregation not idempotent: %+v vs %+v", a, b)
	}
}

func TestSummarizeMonths(t *testing.T) {
	now := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	payments := []Payment{
		pay("2024-01-10", 30000),
		pay("2024-06-05", 10000),
		pay("2024-06-10", 10000),
	}
	s := SummarizeMonths(AggregateMonthly(payments, 2024, now), now)
	if s.CurrentMonthTotal.Cents != 20000 || s.CurrentMonthCount != 2 {
		t.Fatalf("current month = %+v", s)
	}
	if s.ActiveMonths != 2 {
		t.Fatalf("active months = %d, want 2", s.ActiveMonths)
	}
	if s.AverageMonthly.Cents != 25000 {
		t.Fatalf("average monthly = %d, want 25000", s.AverageMonthly.Cents)
	}
}

func TestSummarizeMonthsNoActivity(t *testing.T) {
	now := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	s := SummarizeMonths(AggregateMonthly(nil, 2024, now), now)
	if s.ActiveMonths != 0 || s.AverageMonthly.Cents != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}
