package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"debttrack/internal/amqp"
	"debttrack/internal/core"
	"debttrack/internal/records"
	"debttrack/internal/sheets/memory"
)

type fakeStorage struct {
	mu       sync.Mutex
	payments map[string]core.Payment
	pending  []string
	synced   []string
	errored  []string
}

func newFakeStorage(payments ...core.Payment) *fakeStorage {
	s := &fakeStorage{payments: make(map[string]core.Payment)}
	for _, p := range payments {
		s.payments[p.ID] = p
		s.pending = append(s.pending, p.ID)
	}
	return s
}

func (s *fakeStorage) GetPayment(_ context.Context, id string) (core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return core.Payment{}, records.ErrNotFound
	}
	return p, nil
}

func (s *fakeStorage) ListPendingSync(_ context.Context, limit int) ([]core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Payment
	for _, id := range s.pending {
		if len(out) >= limit {
			break
		}
		out = append(out, s.payments[id])
	}
	return out, nil
}

func (s *fakeStorage) MarkSynced(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced = append(s.synced, id)
	return nil
}

func (s *fakeStorage) MarkSyncError(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errored = append(s.errored, id)
	return nil
}

type failingExporter struct{}

func (failingExporter) AppendPayment(context.Context, core.Payment) (string, error) {
	return "", errors.New("sheets unavailable")
}

func (failingExporter) DeletePaymentRow(context.Context, string) error {
	return errors.New("sheets unavailable")
}

func testPayment(id string) core.Payment {
	return core.Payment{
		ID:          id,
		DebtID:      "debt-1",
		Amount:      core.Money{Cents: 5000},
		PaymentDate: "2024-02-01",
	}
}

func TestHandleSyncMessage(t *testing.T) {
	p := testPayment("pay-1")
	storage := newFakeStorage(p)
	exporter := memory.New()
	w := NewSyncWorker(storage, exporter, 10)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewPaymentSyncMessage(p.ID)); err != nil {
		t.Fatalf("handle sync: %v", err)
	}

	rows := exporter.Rows()
	if len(rows) != 1 || rows[0].ID != p.ID {
		t.Fatalf("exported rows = %+v", rows)
	}
	if len(storage.synced) != 1 || storage.synced[0] != p.ID {
		t.Fatalf("synced = %v, want [%s]", storage.synced, p.ID)
	}
}

func TestHandleSyncMessageMissingPayment(t *testing.T) {
	storage := newFakeStorage()
	w := NewSyncWorker(storage, memory.New(), 10)

	// A payment deleted before the sync message arrives is not an error.
	if err := w.HandleSyncMessage(context.Background(), amqp.NewPaymentSyncMessage("gone")); err != nil {
		t.Fatalf("missing payment should be skipped, got %v", err)
	}
}

func TestHandleSyncMessageExportFailure(t *testing.T) {
	p := testPayment("pay-1")
	storage := newFakeStorage(p)
	w := NewSyncWorker(storage, failingExporter{}, 10)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewPaymentSyncMessage(p.ID)); err == nil {
		t.Fatal("expected error when export fails")
	}
	if len(storage.errored) != 1 || storage.errored[0] != p.ID {
		t.Fatalf("errored = %v, want [%s]", storage.errored, p.ID)
	}
}

func TestHandleDeleteMessage(t *testing.T) {
	p := testPayment("pay-1")
	exporter := memory.New()
	if _, err := exporter.AppendPayment(context.Background(), p); err != nil {
		t.Fatalf("seed exporter: %v", err)
	}

	w := NewSyncWorker(newFakeStorage(), exporter, 10)

	if err := w.HandleDeleteMessage(context.Background(), amqp.NewPaymentDeleteMessage(p)); err != nil {
		t.Fatalf("handle delete: %v", err)
	}
	if rows := exporter.Rows(); len(rows) != 0 {
		t.Fatalf("rows after delete = %+v, want none", rows)
	}
}

func TestHandleMessageDispatch(t *testing.T) {
	p := testPayment("pay-1")
	storage := newFakeStorage(p)
	exporter := memory.New()
	w := NewSyncWorker(storage, exporter, 10)

	if err := w.HandleMessage(context.Background(), amqp.NewPaymentSyncMessage(p.ID)); err != nil {
		t.Fatalf("dispatch sync: %v", err)
	}
	if err := w.HandleMessage(context.Background(), &amqp.PaymentMessage{Type: "bogus", ID: "x"}); err == nil {
		t.Fatal("expected error for unknown message type")
	}
}

func TestProcessPending(t *testing.T) {
	payments := []core.Payment{testPayment("a"), testPayment("b"), testPayment("c")}
	storage := newFakeStorage(payments...)
	exporter := memory.New()
	w := NewSyncWorker(storage, exporter, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}

	if len(exporter.Rows()) != 3 {
		t.Fatalf("exported %d rows, want 3", len(exporter.Rows()))
	}
	if len(storage.synced) != 3 {
		t.Fatalf("synced %d payments, want 3", len(storage.synced))
	}
}

func TestProcessPendingRespectsBatchSize(t *testing.T) {
	payments := []core.Payment{testPayment("a"), testPayment("b"), testPayment("c")}
	storage := newFakeStorage(payments...)
	exporter := memory.New()
	w := NewSyncWorker(storage, exporter, 2)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(exporter.Rows()) != 2 {
		t.Fatalf("exported %d rows, want 2 (batch size)", len(exporter.Rows()))
	}
}

func TestProcessPendingContinuesPastFailures(t *testing.T) {
	payments := []core.Payment{testPayment("a"), testPayment("b")}
	storage := newFakeStorage(payments...)
	w := NewSyncWorker(storage, failingExporter{}, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("batch should not fail on individual errors: %v", err)
	}
	if len(storage.errored) != 2 {
		t.Fatalf("errored %d payments, want 2", len(storage.errored))
	}
}
