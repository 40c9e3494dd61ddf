package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"debttrack/internal/core"
)

const (
	TypePaymentSync   = "payment.sync"
	TypePaymentDelete = "payment.delete"
)

// PaymentMessage is the envelope published for every payment mutation.
// Sync messages carry just the ID; the worker fetches the current row
// from the database so stale messages never overwrite fresh edits.
// Delete messages carry a snapshot of the removed payment because the
// row is already gone by the time the worker sees the message.
type PaymentMessage struct {
	Type      string        `json:"type"`
	ID        string        `json:"id"`
	Payment   *core.Payment `json:"payment,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewPaymentSyncMessage(id string) *PaymentMessage {
	return &PaymentMessage{
		Type:      TypePaymentSync,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func NewPaymentDeleteMessage(p core.Payment) *PaymentMessage {
	return &PaymentMessage{
		Type:      TypePaymentDelete,
		ID:        p.ID,
		Payment:   &p,
		Timestamp: time.Now(),
	}
}

func (m *PaymentMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PaymentMessageFromJSON(data []byte) (*PaymentMessage, error) {
	var msg PaymentMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type != TypePaymentSync && msg.Type != TypePaymentDelete {
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
	return &msg, nil
}
