// Package worker mirrors locally saved payments to the spreadsheet.
// It consumes AMQP messages for low latency and periodically sweeps the
// pending-sync queue as a backup for lost messages.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"debttrack/internal/amqp"
	"debttrack/internal/core"
	"debttrack/internal/records"
	"debttrack/internal/sheets"
)

// SyncStorage is the slice of the SQLite repository the worker needs.
type SyncStorage interface {
	GetPayment(ctx context.Context, id string) (core.Payment, error)
	ListPendingSync(ctx context.Context, limit int) ([]core.Payment, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}

type SyncWorker struct {
	storage   SyncStorage
	exporter  sheets.Exporter
	batchSize int
}

func NewSyncWorker(storage SyncStorage, exporter sheets.Exporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleMessage dispatches an AMQP payment message by type.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.PaymentMessage) error {
	switch msg.Type {
	case amqp.TypePaymentSync:
		return w.HandleSyncMessage(ctx, msg)
	case amqp.TypePaymentDelete:
		return w.HandleDeleteMessage(ctx, msg)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// HandleSyncMessage exports a single payment. The current row is read
// from storage rather than trusted from the message, so an edit racing
// with a stale message still exports the latest data.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.PaymentMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	payment, err := w.storage.GetPayment(ctx, msg.ID)
	if errors.Is(err, records.ErrNotFound) {
		// Deleted before the sync message arrived; the delete message
		// will clean up the spreadsheet if a row was ever written.
		slog.WarnContext(ctx, "Payment no longer exists, skipping sync", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get payment from storage: %w", err)
	}

	return w.syncPaymentToSheets(ctx, payment)
}

// HandleDeleteMessage removes the payment's spreadsheet row using the
// snapshot carried in the message.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.PaymentMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	if err := w.exporter.DeletePaymentRow(ctx, msg.ID); err != nil {
		return fmt.Errorf("delete payment row: %w", err)
	}

	slog.InfoContext(ctx, "Deleted payment from spreadsheet", "id", msg.ID)
	return nil
}

// ProcessPending exports payments that never got a sync message.
// Exports run concurrently, bounded so a large backlog does not hammer
// the Sheets API.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck drains the pending queue with a larger batch at
// worker startup, recovering from downtime or missed messages.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.processPending(ctx, w.batchSize*5)
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) error {
	pending, err := w.storage.ListPendingSync(ctx, limit)
	if err != nil {
		return fmt.Errorf("list pending payments: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending payments", "count", len(pending))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, p := range pending {
		g.Go(func() error {
			if err := w.syncPaymentToSheets(ctx, p); err != nil {
				// Already marked; keep going with the rest of the batch.
				slog.ErrorContext(ctx, "Failed to sync payment", "id", p.ID, "error", err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (w *SyncWorker) syncPaymentToSheets(ctx context.Context, p core.Payment) error {
	ref, err := w.exporter.AppendPayment(ctx, p)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, p.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, p.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", p.ID, "error", err)
		// Don't return an error here - the export actually worked
	}

	slog.InfoContext(ctx, "Successfully synced payment",
		"id", p.ID,
		"sheets_ref", ref,
		"amount_cents", p.Amount.Cents)

	return nil
}
