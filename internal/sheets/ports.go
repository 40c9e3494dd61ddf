package sheets

import (
	"context"

	"debttrack/internal/core"
)

// Ports for outbound adapters.
type (
	// PaymentAppender mirrors a payment to an external spreadsheet.
	PaymentAppender interface {
		AppendPayment(ctx context.Context, p core.Payment) (rowRef string, err error)
	}

	// PaymentRowDeleter removes a previously exported payment row.
	PaymentRowDeleter interface {
		DeletePaymentRow(ctx context.Context, paymentID string) error
	}

	// Exporter combines the full export surface used by the sync worker.
	Exporter interface {
		PaymentAppender
		PaymentRowDeleter
	}
)
