package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{" 7 ", 700, true},
		{"0.01", 1, true},
		{".5", 50, true},
		{"12.345", 1235, true},
		{"12.344", 1234, true},
		{"12.346", 1235, true},
		{"0", 0, false},
		{"0.00", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.cents) {
			t.Fatalf("ParseDecimalToCents(%q) = %d, %v; want %d", tc.in, got, err, tc.cents)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDecimalToCents(%q) expected error", tc.in)
		}
	}
}

func TestFormatEUR(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{123456, "1 234,56 €"},
		{0, "0,00 €"},
		{5, "0,05 €"},
		{100000000, "1 000 000,00 €"},
		{-123456, "-1 234,56 €"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).FormatEUR(); got != tc.want {
			t.Fatalf("FormatEUR(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestEuros(t *testing.T) {
	if got := (Money{Cents: 1234}).Euros(); got != 12.34 {
		t.Fatalf("Euros() = %v, want 12.34", got)
	}
}
