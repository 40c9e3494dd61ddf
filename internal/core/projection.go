package core

import "time"

// farFutureMonths caps how far out a projection is expressed as a
// concrete date; beyond 100 years it degrades to the far-future marker.
const farFutureMonths = 1200

// Projection is the estimated payoff derived from historical payment
// velocity. When FarFuture is set, Year and Month carry no meaning.
type Projection struct {
	Year                  int
	Month                 time.Month
	AverageMonthlyPayment Money
	FarFuture             bool
}

// ProjectPayoff estimates when the debt will be fully repaid, assuming
// payments continue at the historical average monthly rate. It returns
// nil when no projection applies: the debt is already paid off, there
// are no payments, or the first payment's date does not parse.
func ProjectPayoff(debt Debt, payments []Payment, now time.Time) *Projection {
	totals := Totals(debt, payments)
	if totals.Remaining.Cents <= 0 {
		return nil
	}
	if len(payments) == 0 {
		return nil
	}

	sorted := sortedByDate(payments)
	first, ok := TryParseDate(sorted[0].PaymentDate)
	if !ok {
		return nil
	}

	// Whole months from the start of the first payment's month through
	// now, inclusive. A payment dated ahead of now still yields 1.
	elapsed := (now.Year()-first.Year())*12 + int(now.Month()) - int(first.Month()) + 1
	if elapsed < 1 {
		elapsed = 1
	}

	avg := totals.TotalPaid.Cents / int64(elapsed)
	if avg <= 0 {
		return nil
	}

	monthsRemaining := (totals.Remaining.Cents + avg - 1) / avg
	if monthsRemaining > farFutureMonths {
		return &Projection{AverageMonthlyPayment: Money{Cents: avg}, FarFuture: true}
	}

	total := int64(now.Month()) - 1 + monthsRemaining
	return &Projection{
		Year:                  now.Year() + int(total/12),
		Month:                 time.Month(total%12 + 1),
		AverageMonthlyPayment: Money{Cents: avg},
	}
}
