package amqp

import (
	"testing"
	"time"

	"debttrack/internal/core"
)

func TestNewPaymentSyncMessage(t *testing.T) {
	msg := NewPaymentSyncMessage("pay-1")

	if msg.Type != TypePaymentSync {
		t.Errorf("Type = %q, want %q", msg.Type, TypePaymentSync)
	}
	if msg.ID != "pay-1" {
		t.Errorf("ID = %q, want pay-1", msg.ID)
	}
	if msg.Payment != nil {
		t.Error("sync message should not carry a payment snapshot")
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
}

func TestPaymentMessage_JSONRoundTrip(t *testing.T) {
	payment := core.Payment{
		ID:          "pay-2",
		DebtID:      "debt-1",
		Amount:      core.Money{Cents: 15000},
		PaymentDate: "2024-03-01",
		Note:        "wire",
		CreatedAt:   "2024-03-01T10:00:00Z",
	}
	msg := NewPaymentDeleteMessage(payment)
	msg.Timestamp = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := PaymentMessageFromJSON(body)
	if err != nil {
		t.Fatalf("PaymentMessageFromJSON() error = %v", err)
	}

	if parsed.Type != TypePaymentDelete {
		t.Errorf("Type = %q, want %q", parsed.Type, TypePaymentDelete)
	}
	if parsed.ID != payment.ID {
		t.Errorf("ID = %q, want %q", parsed.ID, payment.ID)
	}
	if parsed.Payment == nil || *parsed.Payment != payment {
		t.Errorf("Payment = %+v, want %+v", parsed.Payment, payment)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestPaymentMessageFromJSON_Invalid(t *testing.T) {
	if _, err := PaymentMessageFromJSON([]byte(`{"id": 42}`)); err == nil {
		t.Error("expected error for non-string ID")
	}
	if _, err := PaymentMessageFromJSON([]byte(`{"type":"payment.rename","id":"x"}`)); err == nil {
		t.Error("expected error for unknown message type")
	}
}
