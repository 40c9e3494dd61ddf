package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestDebtValidate(t *testing.T) {
	good := Debt{TotalAmount: Money{Cents: 100}, Description: "car loan"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Debt{TotalAmount: Money{Cents: 0}}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	long := Debt{TotalAmount: Money{Cents: 1}, Description: strings.Repeat("x", MaxTextLength+1)}
	if err := long.Validate(); !errors.Is(err, ErrTextTooLong) {
		t.Fatalf("expected ErrTextTooLong, got %v", err)
	}
}

func TestPaymentValidate(t *testing.T) {
	good := Payment{DebtID: "d1", Amount: Money{Cents: 1}, PaymentDate: "2024-06-15"}
	if err := good.Validate(testNow); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		p    Payment
		want error
	}{
		{"missing debt", Payment{Amount: Money{Cents: 1}, PaymentDate: "2024-01-01"}, ErrMissingDebtRef},
		{"zero amount", Payment{DebtID: "d", PaymentDate: "2024-01-01"}, ErrInvalidAmount},
		{"bad date", Payment{DebtID: "d", Amount: Money{Cents: 1}, PaymentDate: "15/06/2024"}, ErrInvalidDate},
		{"future date", Payment{DebtID: "d", Amount: Money{Cents: 1}, PaymentDate: "2024-06-16"}, ErrDateInFuture},
		{"too old", Payment{DebtID: "d", Amount: Money{Cents: 1}, PaymentDate: "1899-12-31"}, ErrDateBeforeMin},
		{"long note", Payment{DebtID: "d", Amount: Money{Cents: 1}, PaymentDate: "2024-01-01", Note: strings.Repeat("n", MaxTextLength+1)}, ErrTextTooLong},
	}
	for _, tc := range cases {
		if err := tc.p.Validate(testNow); !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	// A payment dated today is not "in the future".
	today := Payment{DebtID: "d", Amount: Money{Cents: 1}, PaymentDate: "2024-06-15"}
	if err := today.Validate(time.Date(2024, time.June, 15, 0, 0, 1, 0, time.UTC)); err != nil {
		t.Fatalf("payment dated today should validate, got %v", err)
	}
}

func TestTryParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-06-15", true},
		{"2024-06-15T10:30:00Z", true},
		{"2024-06-15T10:30:00.123456Z", true},
		{"15/06/2024", false},
		{"", false},
		{"2024-13-40", false},
	}
	for _, tc := range cases {
		if _, ok := TryParseDate(tc.in); ok != tc.ok {
			t.Fatalf("TryParseDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(testNow); got != "2024-06-15" {
		t.Fatalf("FormatDate = %q", got)
	}
}
