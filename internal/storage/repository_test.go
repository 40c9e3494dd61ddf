package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"debttrack/internal/core"
	"debttrack/internal/records"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "debttrack.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func createTestDebt(t *testing.T, repo *SQLiteRepository) core.Debt {
	t.Helper()
	d, err := repo.CreateDebt(context.Background(), records.CreateDebtParams{
		TotalAmount: core.Money{Cents: 500000},
		Description: "car loan",
	})
	if err != nil {
		t.Fatalf("create debt: %v", err)
	}
	return d
}

func TestDebtRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, err := repo.GetDebt(ctx); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty database, got %v", err)
	}

	created := createTestDebt(t, repo)
	got, err := repo.GetDebt(ctx)
	if err != nil {
		t.Fatalf("get debt: %v", err)
	}
	if got != created {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, created)
	}

	desc := "renegotiated"
	updated, err := repo.UpdateDebt(ctx, created.ID, records.UpdateDebtParams{Description: &desc})
	if err != nil {
		t.Fatalf("update debt: %v", err)
	}
	if updated.Description != desc || updated.TotalAmount != created.TotalAmount {
		t.Fatalf("partial update wrong: %+v", updated)
	}
}

func TestPaymentRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	debt := createTestDebt(t, repo)

	created, err := repo.CreatePayment(ctx, records.CreatePaymentParams{
		DebtID:      debt.ID,
		Amount:      core.Money{Cents: 12345},
		PaymentDate: "2024-02-01",
		Note:        "transfer",
	})
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	got, err := repo.GetPayment(ctx, created.ID)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if got != created {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, created)
	}

	amount := core.Money{Cents: 20000}
	updated, err := repo.UpdatePayment(ctx, created.ID, records.UpdatePaymentParams{Amount: &amount})
	if err != nil {
		t.Fatalf("update payment: %v", err)
	}
	if updated.Amount.Cents != 20000 || updated.PaymentDate != "2024-02-01" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	if err := repo.DeletePayment(ctx, created.ID); err != nil {
		t.Fatalf("delete payment: %v", err)
	}
	if err := repo.DeletePayment(ctx, created.ID); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatePaymentRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	debt := createTestDebt(t, repo)

	if _, err := repo.CreatePayment(ctx, records.CreatePaymentParams{
		DebtID: debt.ID, Amount: core.Money{Cents: 0}, PaymentDate: "2024-02-01",
	}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := repo.CreatePayment(ctx, records.CreatePaymentParams{
		DebtID: debt.ID, Amount: core.Money{Cents: 100}, PaymentDate: "01-02-2024",
	}); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestListPaymentsOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	debt := createTestDebt(t, repo)

	for _, date := range []string{"2024-01-10", "2024-03-05", "2024-02-20"} {
		if _, err := repo.CreatePayment(ctx, records.CreatePaymentParams{
			DebtID: debt.ID, Amount: core.Money{Cents: 100}, PaymentDate: date,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := repo.ListPayments(ctx, debt.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2024-03-05", "2024-02-20", "2024-01-10"}
	if len(list) != len(want) {
		t.Fatalf("got %d payments, want %d", len(list), len(want))
	}
	for i := range want {
		if list[i].PaymentDate != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, list[i].PaymentDate, want[i])
		}
	}
}

func TestPendingSyncQueue(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	debt := createTestDebt(t, repo)

	p, err := repo.CreatePayment(ctx, records.CreatePaymentParams{
		DebtID: debt.ID, Amount: core.Money{Cents: 100}, PaymentDate: "2024-02-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pending, err := repo.ListPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != p.ID {
		t.Fatalf("pending = %+v", pending)
	}

	if err := repo.MarkSynced(ctx, p.ID); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	pending, err = repo.ListPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty pending queue, got %+v", pending)
	}

	// An edit re-queues the payment; a sync error parks it.
	note := "edited"
	if _, err := repo.UpdatePayment(ctx, p.ID, records.UpdatePaymentParams{Note: &note}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.MarkSyncError(ctx, p.ID); err != nil {
		t.Fatalf("mark error: %v", err)
	}
	pending, err = repo.ListPendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("errored payment should not be retried, got %+v", pending)
	}
}
