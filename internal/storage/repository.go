// Package storage implements the record store on SQLite. Amounts are
// stored as integer cents and dates as ISO 8601 text, matching the
// encodings the core package expects.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"debttrack/internal/core"
	"debttrack/internal/records"
)

type SQLiteRepository struct {
	db *sql.DB

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

var _ records.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) GetDebt(ctx context.Context) (core.Debt, error) {
	// A single debt is expected; take the newest defensively if more
	// than one row ever exists.
	row := r.db.QueryRowContext(ctx, `
		SELECT id, total_amount_cents, description, created_at, updated_at
		FROM debts ORDER BY created_at DESC LIMIT 1`)
	return scanDebt(row)
}

func (r *SQLiteRepository) CreateDebt(ctx context.Context, params records.CreateDebtParams) (core.Debt, error) {
	d := core.Debt{
		ID:          uuid.NewString(),
		TotalAmount: params.TotalAmount,
		Description: params.Description,
		CreatedAt:   r.now().UTC().Format(time.RFC3339),
	}
	d.UpdatedAt = d.CreatedAt
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO debts (id, total_amount_cents, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.TotalAmount.Cents, d.Description, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return core.Debt{}, fmt.Errorf("insert debt: %w", err)
	}

	slog.InfoContext(ctx, "Debt created",
		"id", d.ID, "total_amount_cents", d.TotalAmount.Cents)
	return d, nil
}

func (r *SQLiteRepository) UpdateDebt(ctx context.Context, id string, params records.UpdateDebtParams) (core.Debt, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, total_amount_cents, description, created_at, updated_at
		FROM debts WHERE id = ?`, id)
	d, err := scanDebt(row)
	if err != nil {
		return core.Debt{}, err
	}

	if params.TotalAmount != nil {
		d.TotalAmount = *params.TotalAmount
	}
	if params.Description != nil {
		d.Description = *params.Description
	}
	d.UpdatedAt = r.now().UTC().Format(time.RFC3339)
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE debts SET total_amount_cents = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		d.TotalAmount.Cents, d.Description, d.UpdatedAt, d.ID)
	if err != nil {
		return core.Debt{}, fmt.Errorf("update debt: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) ListPayments(ctx context.Context, debtID string) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, debt_id, amount_cents, payment_date, note, created_at
		FROM payments WHERE debt_id = ?
		ORDER BY payment_date DESC, created_at DESC`, debtID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []core.Payment
	for rows.Next() {
		var p core.Payment
		if err := rows.Scan(&p.ID, &p.DebtID, &p.Amount.Cents, &p.PaymentDate, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetPayment(ctx context.Context, id string) (core.Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, debt_id, amount_cents, payment_date, note, created_at
		FROM payments WHERE id = ?`, id)
	return scanPayment(row)
}

func (r *SQLiteRepository) CreatePayment(ctx context.Context, params records.CreatePaymentParams) (core.Payment, error) {
	now := r.now()
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

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, debt_id, amount_cents, payment_date, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.DebtID, p.Amount.Cents, p.PaymentDate, p.Note, p.CreatedAt)
	if err != nil {
		return core.Payment{}, fmt.Errorf("insert payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment saved",
		"id", p.ID, "amount_cents", p.Amount.Cents, "payment_date", p.PaymentDate)
	return p, nil
}

func (r *SQLiteRepository) UpdatePayment(ctx context.Context, id string, params records.UpdatePaymentParams) (core.Payment, error) {
	p, err := r.GetPayment(ctx, id)
	if err != nil {
		return core.Payment{}, err
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
	if err := p.Validate(r.now()); err != nil {
		return core.Payment{}, err
	}

	// An edited payment needs another round trip to the spreadsheet.
	_, err = r.db.ExecContext(ctx, `
		UPDATE payments SET amount_cents = ?, payment_date = ?, note = ?, synced = 0, sync_error = 0
		WHERE id = ?`,
		p.Amount.Cents, p.PaymentDate, p.Note, p.ID)
	if err != nil {
		return core.Payment{}, fmt.Errorf("update payment: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

// ListPendingSync returns payments not yet exported to the spreadsheet,
// oldest first, bounded by limit. Used by the sync worker's catch-up
// pass.
func (r *SQLiteRepository) ListPendingSync(ctx context.Context, limit int) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, debt_id, amount_cents, payment_date, note, created_at
		FROM payments WHERE synced = 0 AND sync_error = 0
		ORDER BY created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync: %w", err)
	}
	defer rows.Close()

	var out []core.Payment
	for rows.Next() {
		var p core.Payment
		if err := rows.Scan(&p.ID, &p.DebtID, &p.Amount.Cents, &p.PaymentDate, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records a successful spreadsheet export.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE payments SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark payment synced: %w", err)
	}
	return nil
}

// MarkSyncError flags a payment whose export failed so the catch-up
// pass stops retrying it until the next edit resets the flag.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE payments SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark payment sync error: %w", err)
	}
	slog.WarnContext(ctx, "Payment marked with sync error", "id", id)
	return nil
}

func scanDebt(row *sql.Row) (core.Debt, error) {
	var d core.Debt
	err := row.Scan(&d.ID, &d.TotalAmount.Cents, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, records.ErrNotFound
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("scan debt: %w", err)
	}
	return d, nil
}

func scanPayment(row *sql.Row) (core.Payment, error) {
	var p core.Payment
	err := row.Scan(&p.ID, &p.DebtID, &p.Amount.Cents, &p.PaymentDate, &p.Note, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payment{}, records.ErrNotFound
	}
	if err != nil {
		return core.Payment{}, fmt.Errorf("scan payment: %w", err)
	}
	return p, nil
}
