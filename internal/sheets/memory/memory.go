// Package memory is an in-process Exporter used in tests and when no
// spreadsheet is configured. Rows live in a slice guarded by a mutex.
package memory

import (
	"context"
	"fmt"
	"sync"

	"debttrack/internal/core"
	ports "debttrack/internal/sheets"
)

type Exporter struct {
	mu   sync.Mutex
	rows []core.Payment
}

var _ ports.Exporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// AppendPayment stores the payment and returns a synthetic row reference.
func (e *Exporter) AppendPayment(_ context.Context, p core.Payment) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = append(e.rows, p)
	return fmt.Sprintf("mem:%d", len(e.rows)), nil
}

// DeletePaymentRow removes the row carrying the payment ID. A missing
// row is not an error, matching the Google adapter's behavior.
func (e *Exporter) DeletePaymentRow(_ context.Context, paymentID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, p := range e.rows {
		if p.ID == paymentID {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a copy of the exported payments in append order.
func (e *Exporter) Rows() []core.Payment {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.Payment, len(e.rows))
	copy(out, e.rows)
	return out
}
