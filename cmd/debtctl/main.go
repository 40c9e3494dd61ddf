// debtctl manages the debt tracker database from the command line. It
// operates directly on the local SQLite file, so it works without the
// HTTP server running; spreadsheet sync is left to the worker.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"debttrack/internal/config"
	"debttrack/internal/core"
	"debttrack/internal/records"
	"debttrack/internal/report"
	"debttrack/internal/storage"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "debtctl",
		Short:         "Manage the debt tracker from the command line",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newDebtCmd(), newPaymentCmd(), newStatusCmd(), newReportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore loads configuration and opens the SQLite repository. The
// returned close function must be called when the command finishes.
func openStore() (*storage.SQLiteRepository, func(), error) {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", cfg.SQLiteDBPath, err)
	}
	return repo, func() { repo.Close() }, nil
}

func newDebtCmd() *cobra.Command {
	debtCmd := &cobra.Command{
		Use:   "debt",
		Short: "Show or set the tracked debt",
	}

	var description string
	setCmd := &cobra.Command{
		Use:   "set <amount>",
		Short: "Create the debt or change its total amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cents, err := core.ParseDecimalToCents(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			return runDebtSet(cmd.Context(), core.Money{Cents: cents}, description, cmd.Flags().Changed("description"))
		},
	}
	setCmd.Flags().StringVar(&description, "description", "", "What the debt is for")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the tracked debt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDebtShow(cmd.Context())
		},
	}

	debtCmd.AddCommand(setCmd, showCmd)
	return debtCmd
}

func runDebtSet(ctx context.Context, amount core.Money, description string, descriptionSet bool) error {
	repo, closeRepo, err := openStore()
	if err != nil {
		return err
	}
	defer closeRepo()

	debt, err := repo.GetDebt(ctx)
	if errors.Is(err, records.ErrNotFound) {
		created, err := repo.CreateDebt(ctx, records.CreateDebtParams{
			TotalAmount: amount,
			Description: description,
		})
		if err != nil {
			return fmt.Errorf("create debt: %w", err)
		}
		fmt.Printf("Created debt %s: %s\n", created.ID, created.TotalAmount.FormatEUR())
		return nil
	}
	if err != nil {
		return fmt.Errorf("load debt: %w", err)
	}

	params := records.UpdateDebtParams{TotalAmount: &amount}
	if descriptionSet {
		params.Description = &description
	}
	updated, err := repo.UpdateDebt(ctx, debt.ID, params)
	if err != nil {
		return fmt.Errorf("update debt: %w", err)
	}
	fmt.Printf("Updated debt %s: %s\n", updated.ID, updated.TotalAmount.FormatEUR())
	return nil
}

func runDebtShow(ctx context.Context) error {
	repo, closeRepo, err := openStore()
	if err != nil {
		return err
	}
	defer closeRepo()

	debt, err := repo.GetDebt(ctx)
	if errors.Is(err, records.ErrNotFound) {
		return errors.New("no debt tracked yet, run: debtctl debt set <amount>")
	}
	if err != nil {
		return fmt.Errorf("load debt: %w", err)
	}

	fmt.Printf("Debt:        %s\n", debt.TotalAmount.FormatEUR())
	if debt.Description != "" {
		fmt.Printf("Description: %s\n", debt.Description)
	}
	fmt.Printf("Tracked since %s\n", debt.CreatedAt)
	return nil
}

func newPaymentCmd() *cobra.Command {
	paymentCmd := &cobra.Command{
		Use:   "payment",
		Short: "Record and manage repayments",
	}

	var note string
	var date string
	addCmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record a repayment against the tracked debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaymentAdd(cmd.Context(), args[0], date, note)
		},
	}
	addCmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "Payment date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&note, "note", "", "Optional note")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded repayments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaymentList(cmd.Context())
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a repayment by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaymentRemove(cmd.Context(), args[0])
		},
	}

	paymentCmd.AddCommand(addCmd, listCmd, rmCmd)
	return paymentCmd
}

func runPaymentAdd(ctx context.Context, rawAmount, date, note string) error {
	repo, closeRepo, err := openStore()
	if err != nil {
		return err
	}
	defer closeRepo()

	cents, err := core.ParseDecimalToCents(rawAmount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", rawAmount, err)
	}

	debt, err := repo.GetDebt(ctx)
	if errors.Is(err, records.ErrNotFound) {
		return errors.New("no debt tracked yet, run: debtctl debt set <amount>")
	}
	if err != nil {
		return fmt.Errorf("load debt: %w", err)
	}

	payment, err := repo.CreatePayment(ctx, records.CreatePaymentParams{
		DebtID:      debt.ID,
		Amount:      core.Money{Cents: cents},
		PaymentDate: strings.TrimSpace(date),
		Note:        strings.TrimSpace(note),
	})
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}

	totals := core.Totals(debt, mustListPayments(ctx, repo, debt.ID))
	fmt.Printf("Recorded %s on %s (id %s)\n", payment.Amount.FormatEUR(), payment.PaymentDate, payment.ID)
	fmt.Printf("Remaining: %s\n", totals.Remaining.FormatEUR())
	return nil
}

func runPaymentList(ctx context.Context) error {
	repo, closeRepo, err := openStore()
	if err != nil {
		return err
	}
	defer closeRepo()

	debt, err := repo.GetDebt(ctx)
	if errors.Is(err, records.ErrNotFound) {
		return errors.New("no debt tracked yet, run: debtctl debt set <amount>")
	}
	if err != nil {
		return fmt.Errorf("load debt: %w", err)
	}

	payments, err := repo.ListPayments(ctx, debt.ID)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}
	if len(payments) == 0 {
		fmt.Println("No payments recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tAMOUNT\tNOTE\tID")
	for _, p := range payments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.PaymentDate, p.Amount.FormatEUR(), p.Note, p.ID)
	}
	return w.Flush()
}

func runPaymentRemove(ctx context.Context, id string) error {
	repo, closeRepo, err := openStore()
	if err != nil {
		return err
	}
	defer closeRepo()

	if err := repo.DeletePayment(ctx, id); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return fmt.Errorf("no payment with id %s", id)
		}
		return fmt.Errorf("delete payment: %w", err)
	}
	fmt.Printf("Deleted payment %s\n", id)
	return nil
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show repayment progress and the projected payoff date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context())
		},
	}
}

func runStatus(ctx context.Context) error {
	repo, closeRepo, err := openStore()
	if err != nil {
		return err
	}
	defer closeRepo()

	debt, err := repo.GetDebt(ctx)
	if errors.Is(err, records.ErrNotFound) {
		return errors.New("no debt tracked yet, run: debtctl debt set <amount>")
	}
	if err != nil {
		return fmt.Errorf("load debt: %w", err)
	}
	payments, err := repo.ListPayments(ctx, debt.ID)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}

	now := time.Now()
	totals := core.Totals(debt, payments)

	fmt.Printf("Total debt: %s\n", debt.TotalAmount.FormatEUR())
	fmt.Printf("Paid:       %s (%.1f%%)\n", totals.TotalPaid.FormatEUR(), totals.ProgressPct)
	fmt.Printf("Remaining:  %s\n", totals.Remaining.FormatEUR())

	switch projection := core.ProjectPayoff(debt, payments, now); {
	case totals.Remaining.Cents <= 0:
		fmt.Println("Paid off. Congratulations!")
	case projection == nil:
		fmt.Println("Not enough payment history to project a payoff date yet.")
	case projection.FarFuture:
		fmt.Printf("At %s per month the payoff is more than 100 years away.\n",
			projection.AverageMonthlyPayment.FormatEUR())
	default:
		fmt.Printf("Projected payoff: %s %d at %s per month.\n",
			projection.Month.String(), projection.Year,
			projection.AverageMonthlyPayment.FormatEUR())
	}
	return nil
}

func newReportCmd() *cobra.Command {
	var out string
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF repayment report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), out)
		},
	}
	reportCmd.Flags().StringVar(&out, "out", "", "Output file (default repayments-<date>.pdf)")
	return reportCmd
}

func runReport(ctx context.Context, out string) error {
	repo, closeRepo, err := openStore()
	if err != nil {
		return err
	}
	defer closeRepo()

	debt, err := repo.GetDebt(ctx)
	if errors.Is(err, records.ErrNotFound) {
		return errors.New("no debt tracked yet, run: debtctl debt set <amount>")
	}
	if err != nil {
		return fmt.Errorf("load debt: %w", err)
	}
	payments, err := repo.ListPayments(ctx, debt.ID)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}

	now := time.Now()
	pdf, err := report.Build(debt, payments, core.Totals(debt, payments), now)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	if out == "" {
		out = report.FileName(now)
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("Wrote %s (%d payments)\n", out, len(payments))
	return nil
}

// mustListPayments fetches the payment list for a post-write summary;
// a read failure here should not fail the write that already happened.
func mustListPayments(ctx context.Context, repo *storage.SQLiteRepository, debtID string) []core.Payment {
	payments, err := repo.ListPayments(ctx, debtID)
	if err != nil {
		return nil
	}
	return payments
}
