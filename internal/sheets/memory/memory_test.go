package memory

import (
	"context"
	"testing"

	"debttrack/internal/core"
)

func TestExporterAppendAndDelete(t *testing.T) {
	e := New()

	ref, err := e.AppendPayment(context.Background(), core.Payment{
		ID:          "pay-1",
		DebtID:      "debt-1",
		Amount:      core.Money{Cents: 123},
		PaymentDate: "2024-01-01",
	})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	if _, err := e.AppendPayment(context.Background(), core.Payment{ID: "pay-2"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := e.DeletePaymentRow(context.Background(), "pay-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rows := e.Rows()
	if len(rows) != 1 || rows[0].ID != "pay-2" {
		t.Fatalf("unexpected rows after delete: %+v", rows)
	}
}

func TestExporterDeleteMissingRow(t *testing.T) {
	e := New()
	if err := e.DeletePaymentRow(context.Background(), "nope"); err != nil {
		t.Fatalf("deleting a missing row should not error: %v", err)
	}
}
