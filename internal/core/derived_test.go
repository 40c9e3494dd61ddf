package core

import "testing"

func TestTotalsConservation(t *testing.T) {
	debt := debt5000()
	payments := []Payment{
		pay("2024-02-01", 100000),
		pay("2024-03-01", 50000),
		pay("2024-04-01", 33),
	}
	totals := Totals(debt, payments)
	if totals.TotalPaid.Cents+totals.Remaining.Cents != debt.TotalAmount.Cents {
		t.Fatalf("conservation violated: paid %d + remaining %d != total %d",
			totals.TotalPaid.Cents, totals.Remaining.Cents, debt.TotalAmount.Cents)
	}
	wantPct := float64(150033) / 500000 * 100
	if totals.ProgressPct != wantPct {
		t.Fatalf("progress = %v, want %v", totals.ProgressPct, wantPct)
	}
}

func TestTotalsZeroPrincipal(t *testing.T) {
	totals := Totals(Debt{}, []Payment{pay("2024-01-01", 100)})
	if totals.ProgressPct != 0 {
		t.Fatalf("progress for zero principal = %v, want 0", totals.ProgressPct)
	}
}

func TestSortedByDateStable(t *testing.T) {
	payments := []Payment{
		{ID: "a", PaymentDate: "2024-02-01", Amount: Money{Cents: 1}},
		{ID: "b", PaymentDate: "2024-02-01", Amount: Money{Cents: 2}},
		{ID: "c", PaymentDate: "2024-01-01", Amount: Money{Cents: 3}},
	}
	sorted := sortedByDate(payments)
	if sorted[0].ID != "c" || sorted[1].ID != "a" || sorted[2].ID != "b" {
		t.Fatalf("unexpected order: %v %v %v", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}
	if payments[0].ID != "a" {
		t.Fatalf("input mutated: %+v", payments)
	}
}
