// Package memory is the in-memory record store used by the default
// backend and by tests. It applies the same validation as the SQLite
// store so handler behaviour does not depend on the backend choice.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"debttrack/internal/core"
	"debttrack/internal/records"
)

type Store struct {
	mu       sync.Mutex
	debt     *core.Debt
	payments map[string]core.Payment

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

var _ records.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		payments: make(map[string]core.Payment),
		now:      time.Now,
	}
}

// NewAt returns a store whose clock is fixed, for deterministic tests.
func NewAt(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

func (s *Store) GetDebt(_ context.Context) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debt == nil {
		return core.Debt{}, records.ErrNotFound
	}
	return *s.debt, nil
}

func (s *Store) CreateDebt(_ context.Context, params records.CreateDebtParams) (core.Debt, error) {
	d := core.Debt{
		ID:          uuid.NewString(),
		TotalAmount: params.TotalAmount,
		Description: params.Description,
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}
	d.UpdatedAt = d.CreatedAt
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debt != nil {
		return core.Debt{}, fmt.Errorf("debt already configured")
	}
	s.debt = &d
	return d, nil
}

func (s *Store) UpdateDebt(_ context.Context, id string, params records.UpdateDebtParams) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debt == nil || s.debt.ID != id {
		return core.Debt{}, records.ErrNotFound
	}
	d := *s.debt
	if params.TotalAmount != nil {
		d.TotalAmount = *params.TotalAmount
	}
	if params.Description != nil {
		d.Description = *params.Description
	}
	d.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	s.debt = &d
	return d, nil
}

func (s *Store) ListPayments(_ context.Context, debtID string) ([]core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		if p.DebtID == debtID {
			out = append(out, p)
		}
	}
	// Newest payment date first, id as tie break for a stable order.
	sort.Slice(out, func(i, j int) bool {
		if out[i].PaymentDate != out[j].PaymentDate {
			return out[i].PaymentDate > out[j].PaymentDate
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetPayment(_ context.Context, id string) (core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return core.Payment{}, records.ErrNotFound
	}
	return p, nil
}

func (s *Store) CreatePayment(_ context.Context, params records.CreatePaymentParams) (core.Payment, error) {
	now := s.now()
	p := core.Payment{
		ID:          uuid.NewString(),
		DebtID:      params.DebtID,
		Amount:      params.Amount,
		PaymentDate: params.PaymentDate,
		Note:        params.Note,
		CreatedAt:   now.UTC().Format(time.RFC3339),
	}
	if err := p.Validate(now); err != nil {
		return core.Payment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debt == nil || s.debt.ID != params.DebtID {
		return core.Payment{}, records.ErrNotFound
	}
	s.payments[p.ID] = p
	return p, nil
}

func (s *Store) UpdatePayment(_ context.Context, id string, params records.UpdatePaymentParams) (core.Payment, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return core.Payment{}, records.ErrNotFound
	}
	if params.Amount != nil {
		p.Amount = *params.Amount
	}
	if params.PaymentDate != nil {
		p.PaymentDate = *params.PaymentDate
	}
	if params.Note != nil {
		p.Note = *params.Note
	}
	if err := p.Validate(now); err != nil {
		return core.Payment{}, err
	}
	s.payments[id] = p
	return p, nil
}

func (s *Store) DeletePayment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.payments, id)
	return nil
}
