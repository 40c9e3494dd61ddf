package report

import (
	"bytes"
	"testing"
	"time"

	"debttrack/internal/core"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testDebt() core.Debt {
	return core.Debt{
		ID:          "debt-1",
		TotalAmount: core.Money{Cents: 500000},
		Description: "Car loan",
		CreatedAt:   "2024-01-01",
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(testNow); got != "repayments-2024-06-15.pdf" {
		t.Errorf("FileName() = %q, want repayments-2024-06-15.pdf", got)
	}
}

func TestBuildProducesPDF(t *testing.T) {
	debt := testDebt()
	payments := []core.Payment{
		{ID: "p1", DebtID: debt.ID, Amount: core.Money{Cents: 50000}, PaymentDate: "2024-02-01", Note: "wire"},
		{ID: "p2", DebtID: debt.ID, Amount: core.Money{Cents: 30000}, PaymentDate: "2024-01-15"},
	}
	totals := core.Totals(debt, payments)

	out, err := Build(debt, payments, totals, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF, starts with %q", out[:min(8, len(out))])
	}
}

func TestBuildWithNoPayments(t *testing.T) {
	debt := testDebt()
	totals := core.Totals(debt, nil)

	out, err := Build(debt, nil, totals, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatal("Build() returned empty output")
	}
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	debt := testDebt()
	payments := []core.Payment{
		{ID: "p1", DebtID: debt.ID, Amount: core.Money{Cents: 50000}, PaymentDate: "2024-02-01"},
		{ID: "p2", DebtID: debt.ID, Amount: core.Money{Cents: 30000}, PaymentDate: "2024-01-15"},
	}
	totals := core.Totals(debt, payments)

	if _, err := Build(debt, payments, totals, testNow); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if payments[0].PaymentDate != "2024-02-01" || payments[1].PaymentDate != "2024-01-15" {
		t.Error("Build() reordered the caller's slice")
	}
}

func TestBuildManyPaymentsPaginates(t *testing.T) {
	debt := testDebt()
	var payments []core.Payment
	for i := 0; i < 120; i++ {
		payments = append(payments, core.Payment{
			ID:          "p",
			DebtID:      debt.ID,
			Amount:      core.Money{Cents: 1000},
			PaymentDate: "2024-02-01",
			Note:        "monthly installment",
		})
	}
	totals := core.Totals(debt, payments)

	out, err := Build(debt, payments, totals, testNow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(out) == 0 {
		t.Fatal("Build() returned empty output")
	}
}
