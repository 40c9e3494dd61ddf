package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// MaxTextLength bounds the free-text fields on both record types.
	MaxTextLength = 280

	// MinPaymentDate is the earliest calendar date a payment may carry.
	MinPaymentDate = "1900-01-01"
)

type (
	// Money is an amount in integer euro cents. Keeping amounts in cents
	// makes totals and balances exact; floats appear only at display time.
	Money struct {
		Cents int64
	}

	// Debt is the single principal amount being repaid. CreatedAt marks the
	// starting point of the balance series.
	Debt struct {
		ID          string
		TotalAmount Money
		Description string
		CreatedAt   string // RFC 3339 timestamp or date-only, set at creation
		UpdatedAt   string
	}

	// Payment is one repayment event against a debt. PaymentDate is the
	// user-supplied calendar date (date-only, no time of day); CreatedAt is
	// the record-creation timestamp and is distinct from it.
	Payment struct {
		ID          string
		DebtID      string
		Amount      Money
		PaymentDate string // ISO 8601 date-only
		Note        string
		CreatedAt   string
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrDateInFuture   = errors.New("date is in the future")
	ErrDateBeforeMin  = errors.New("date is before " + MinPaymentDate)
	ErrTextTooLong    = errors.New("text too long (max 280 characters)")
	ErrMissingDebtRef = errors.New("missing debt reference")
)

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the data-model invariants of a debt: positive principal
// and a bounded description. CreatedAt is not validated here; the balance
// series builder degrades gracefully when it does not parse.
func (d Debt) Validate() error {
	if err := d.TotalAmount.Validate(); err != nil {
		return err
	}
	if len(d.Description) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// Validate checks a payment against the data-model invariants. The payment
// date must parse and fall within [MinPaymentDate, now]; now is passed
// explicitly so callers stay deterministic.
func (p Payment) Validate(now time.Time) error {
	if strings.TrimSpace(p.DebtID) == "" {
		return ErrMissingDebtRef
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if len(p.Note) > MaxTextLength {
		return ErrTextTooLong
	}
	d, ok := TryParseDate(p.PaymentDate)
	if !ok {
		return ErrInvalidDate
	}
	min, _ := TryParseDate(MinPaymentDate)
	if d.Before(min) {
		return ErrDateBeforeMin
	}
	if d.After(endOfDay(now)) {
		return ErrDateInFuture
	}
	return nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
