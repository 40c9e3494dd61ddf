package core

import "log/slog"

// BalancePoint is one snapshot of the remaining balance, suitable for
// plotting. Date keeps the encoding of the record it came from.
type BalancePoint struct {
	Date    string
	Balance Money
}

// BuildBalanceSeries converts a debt and its (unordered) payments into a
// chronological running-balance series.
//
// The series is seeded at the debt's creation date with the full
// principal. Each payment then either extends the series with a new,
// lower point, or - when its date does not advance past the last emitted
// point - merges into that point, so same-day payments produce a single
// point instead of a backward-moving line.
//
// Guarantees: balances are non-increasing and never negative. Callers
// treat fewer than two points as "not enough data to chart".
func BuildBalanceSeries(debt Debt, payments []Payment) []BalancePoint {
	if debt.TotalAmount.Cents <= 0 {
		return nil
	}

	sorted := sortedByDate(payments)

	var series []BalancePoint
	if _, ok := TryParseDate(debt.CreatedAt); ok {
		series = append(series, BalancePoint{Date: debt.CreatedAt, Balance: debt.TotalAmount})
	} else if len(sorted) > 0 {
		slog.Warn("debt created_at does not parse, seeding balance series at first payment",
			"created_at", debt.CreatedAt)
		series = append(series, BalancePoint{Date: sorted[0].PaymentDate, Balance: debt.TotalAmount})
	} else {
		return nil
	}

	for _, p := range sorted {
		last := &series[len(series)-1]
		next := clampToZero(last.Balance.Cents - p.Amount.Cents)
		if !parseOrZero(p.PaymentDate).After(parseOrZero(last.Date)) {
			last.Balance = next
		} else {
			series = append(series, BalancePoint{Date: p.PaymentDate, Balance: next})
		}
	}
	return series
}

func clampToZero(cents int64) Money {
	if cents < 0 {
		return Money{}
	}
	return Money{Cents: cents}
}
