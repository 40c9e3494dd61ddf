package services

import (
	"context"
	"fmt"
	"log/slog"

	"debttrack/internal/core"
	"debttrack/internal/records"
)

// EventPublisher emits payment mutation events for the sync worker.
// *amqp.Client satisfies it; a nil publisher disables event publishing.
type EventPublisher interface {
	PublishPaymentSync(ctx context.Context, id string) error
	PublishPaymentDelete(ctx context.Context, p core.Payment) error
	Close() error
}

// DebtService orchestrates record writes across the local store and the
// event bus. Reads pass straight through; payment mutations additionally
// publish a message so the worker mirrors the change to the spreadsheet.
type DebtService struct {
	store  records.Store
	events EventPublisher
}

var _ records.Store = (*DebtService)(nil)

func NewDebtService(store records.Store, events EventPublisher) *DebtService {
	return &DebtService{store: store, events: events}
}

func (s *DebtService) GetDebt(ctx context.Context) (core.Debt, error) {
	return s.store.GetDebt(ctx)
}

func (s *DebtService) CreateDebt(ctx context.Context, params records.CreateDebtParams) (core.Debt, error) {
	return s.store.CreateDebt(ctx, params)
}

func (s *DebtService) UpdateDebt(ctx context.Context, id string, params records.UpdateDebtParams) (core.Debt, error) {
	return s.store.UpdateDebt(ctx, id, params)
}

func (s *DebtService) ListPayments(ctx context.Context, debtID string) ([]core.Payment, error) {
	return s.store.ListPayments(ctx, debtID)
}

func (s *DebtService) GetPayment(ctx context.Context, id string) (core.Payment, error) {
	return s.store.GetPayment(ctx, id)
}

// CreatePayment saves a payment locally, then publishes a sync message.
// Publishing is best effort: the payment is already durable in SQLite
// and the worker's catch-up pass will find it even if the message is lost.
func (s *DebtService) CreatePayment(ctx context.Context, params records.CreatePaymentParams) (core.Payment, error) {
	p, err := s.store.CreatePayment(ctx, params)
	if err != nil {
		return core.Payment{}, fmt.Errorf("save payment: %w", err)
	}

	if err := s.publishSync(ctx, p.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", p.ID, "error", err)
		// Don't fail the request - the payment is saved locally
	}

	return p, nil
}

func (s *DebtService) UpdatePayment(ctx context.Context, id string, params records.UpdatePaymentParams) (core.Payment, error) {
	p, err := s.store.UpdatePayment(ctx, id, params)
	if err != nil {
		return core.Payment{}, err
	}

	if err := s.publishSync(ctx, p.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", p.ID, "error", err)
	}

	return p, nil
}

// DeletePayment removes a payment locally and publishes a delete message.
// The snapshot is read before deleting because the worker needs the row
// data after the local record is gone.
func (s *DebtService) DeletePayment(ctx context.Context, id string) error {
	p, err := s.store.GetPayment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeletePayment(ctx, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if s.events == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping delete message")
		return nil
	}
	if err := s.events.PublishPaymentDelete(ctx, p); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
		// Don't fail the request - the payment is deleted locally
	}

	return nil
}

func (s *DebtService) publishSync(ctx context.Context, id string) error {
	if s.events == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping sync message")
		return nil
	}
	return s.events.PublishPaymentSync(ctx, id)
}

// Close releases the event bus connection. The underlying store is owned
// by the caller and closed separately.
func (s *DebtService) Close() error {
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			return fmt.Errorf("close event publisher: %w", err)
		}
	}
	return nil
}
