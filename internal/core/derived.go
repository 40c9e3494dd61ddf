package core

import "sort"

// DebtTotals are the headline figures derived from a debt and its
// payments. Remaining is the raw difference and may be negative when
// payments exceed the principal; display and chart layers clamp it.
type DebtTotals struct {
	TotalPaid   Money
	Remaining   Money
	ProgressPct float64
}

// Totals sums all payments against the debt. ProgressPct is 0 when the
// principal is 0, never a division by zero.
func Totals(debt Debt, payments []Payment) DebtTotals {
	var paid int64
	for _, p := range payments {
		paid += p.Amount.Cents
	}
	t := DebtTotals{
		TotalPaid: Money{Cents: paid},
		Remaining: Money{Cents: debt.TotalAmount.Cents - paid},
	}
	if debt.TotalAmount.Cents > 0 {
		t.ProgressPct = float64(paid) / float64(debt.TotalAmount.Cents) * 100
	}
	return t
}

// sortedByDate returns a copy of payments in ascending payment-date
// order. The sort is stable: payments sharing a date keep their input
// order, and a malformed date compares as the zero time, sorting first.
// The input slice is never mutated.
func sortedByDate(payments []Payment) []Payment {
	out := make([]Payment, len(payments))
	copy(out, payments)
	sort.SliceStable(out, func(i, j int) bool {
		return parseOrZero(out[i].PaymentDate).Before(parseOrZero(out[j].PaymentDate))
	})
	return out
}
