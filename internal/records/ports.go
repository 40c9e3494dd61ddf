// Package records defines the ports of the record store the tracker
// persists to. The core computations never touch these; they receive
// plain data fetched through them.
package records

import (
	"context"
	"errors"

	"debttrack/internal/core"
)

// ErrNotFound is returned when a requested record does not exist. The
// single debt being absent is a normal state before setup, not a
// storage failure.
var ErrNotFound = errors.New("record not found")

type (
	// CreateDebtParams carries the fields a caller may set at debt
	// creation; everything else is assigned by the store.
	CreateDebtParams struct {
		TotalAmount core.Money
		Description string
	}

	// UpdateDebtParams uses nil to mean "leave unchanged".
	UpdateDebtParams struct {
		TotalAmount *core.Money
		Description *string
	}

	CreatePaymentParams struct {
		DebtID      string
		Amount      core.Money
		PaymentDate string
		Note        string
	}

	// UpdatePaymentParams uses nil to mean "leave unchanged". The debt
	// reference of a payment is immutable and deliberately absent.
	UpdatePaymentParams struct {
		Amount      *core.Money
		PaymentDate *string
		Note        *string
	}
)

// DebtStore manages the single tracked debt.
type DebtStore interface {
	// GetDebt returns the debt, or ErrNotFound before setup.
	GetDebt(ctx context.Context) (core.Debt, error)
	CreateDebt(ctx context.Context, params CreateDebtParams) (core.Debt, error)
	UpdateDebt(ctx context.Context, id string, params UpdateDebtParams) (core.Debt, error)
}

// PaymentStore manages the repayment events of a debt.
type PaymentStore interface {
	// ListPayments returns all payments of the debt, newest payment
	// date first.
	ListPayments(ctx context.Context, debtID string) ([]core.Payment, error)
	GetPayment(ctx context.Context, id string) (core.Payment, error)
	CreatePayment(ctx context.Context, params CreatePaymentParams) (core.Payment, error)
	UpdatePayment(ctx context.Context, id string, params UpdatePaymentParams) (core.Payment, error)
	DeletePayment(ctx context.Context, id string) error
}

// Store is the full record store surface the HTTP layer depends on.
type Store interface {
	DebtStore
	PaymentStore
}
