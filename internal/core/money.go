// Package core holds the domain types and the derived-metrics
// computations for the debt tracker. Everything in this package is a
// pure function of plain data; callers pass "now" explicitly where a
// computation depends on the current date.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal amount string to cents, with
// half-up rounding on the third decimal place. Both dot and comma are
// accepted as decimal separator. Only strictly positive amounts are
// valid, matching the data-model invariant on payments and debts.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxWhole = (1<<63 - 1) / 100
	if iv > maxWhole {
		return 0, ErrInvalidAmount
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}

	cents := iv*100 + frac
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Euros returns the amount as a float64 for display and JSON encoding.
// Computations stay in cents.
func (m Money) Euros() float64 {
	return float64(m.Cents) / 100.0
}

// FormatEUR renders an amount the way the dashboard and the PDF report
// display it: grouped thousands, comma decimals, trailing euro sign
// (e.g. "1 234,56 €").
func (m Money) FormatEUR() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(whole[i : i+3])
	}

	return sign + b.String() + "," + twoDigits(cents%100) + " €"
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
