package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"debttrack/internal/core"
	"debttrack/internal/report"
)

type totalsResponse struct {
	TotalPaidCents int64   `json:"total_paid_cents"`
	RemainingCents int64   `json:"remaining_cents"`
	ProgressPct    float64 `json:"progress_pct"`
}

type balancePointResponse struct {
	Date         string `json:"date"`
	BalanceCents int64  `json:"balance_cents"`
}

type monthBucketResponse struct {
	Month      int   `json:"month"`
	TotalCents int64 `json:"total_cents"`
	Count      int   `json:"count"`
}

type monthlySummaryResponse struct {
	CurrentMonthTotalCents int64 `json:"current_month_total_cents"`
	CurrentMonthCount      int   `json:"current_month_count"`
	ActiveMonths           int   `json:"active_months"`
	AverageMonthlyCents    int64 `json:"average_monthly_cents"`
}

type projectionResponse struct {
	Year                int   `json:"year"`
	Month               int   `json:"month"`
	AverageMonthlyCents int64 `json:"average_monthly_cents"`
	FarFuture           bool  `json:"far_future"`
}

type dashboardResponse struct {
	Debt           debtResponse           `json:"debt"`
	Totals         totalsResponse         `json:"totals"`
	BalanceSeries  []balancePointResponse `json:"balance_series"`
	Year           int                    `json:"year"`
	MonthlyBuckets []monthBucketResponse  `json:"monthly_buckets"`
	MonthlySummary monthlySummaryResponse `json:"monthly_summary"`
	Projection     *projectionResponse    `json:"projection"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	now := time.Now()
	year := now.Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1900 || y > 3000 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}

	key := "dashboard:" + strconv.Itoa(year)
	if cached, ok := s.dashboardCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Dashboard cache hit", "year", year)
		writeJSON(w, http.StatusOK, cached)
		return
	}

	debt, err := s.store.GetDebt(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	payments, err := s.store.ListPayments(r.Context(), debt.ID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	resp := buildDashboard(debt, payments, year, now)
	s.dashboardCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// buildDashboard derives every view the dashboard needs from the raw
// records: running balance, monthly aggregates, and payoff projection.
func buildDashboard(debt core.Debt, payments []core.Payment, year int, now time.Time) dashboardResponse {
	totals := core.Totals(debt, payments)
	series := core.BuildBalanceSeries(debt, payments)
	buckets := core.AggregateMonthly(payments, year, now)
	summary := core.SummarizeMonths(buckets, now)
	projection := core.ProjectPayoff(debt, payments, now)

	resp := dashboardResponse{
		Debt: toDebtResponse(debt),
		Totals: totalsResponse{
			TotalPaidCents: totals.TotalPaid.Cents,
			RemainingCents: totals.Remaining.Cents,
			ProgressPct:    totals.ProgressPct,
		},
		Year: year,
		MonthlySummary: monthlySummaryResponse{
			CurrentMonthTotalCents: summary.CurrentMonthTotal.Cents,
			CurrentMonthCount:      summary.CurrentMonthCount,
			ActiveMonths:           summary.ActiveMonths,
			AverageMonthlyCents:    summary.AverageMonthly.Cents,
		},
	}

	resp.BalanceSeries = make([]balancePointResponse, 0, len(series))
	for _, pt := range series {
		resp.BalanceSeries = append(resp.BalanceSeries, balancePointResponse{
			Date:         pt.Date,
			BalanceCents: pt.Balance.Cents,
		})
	}

	resp.MonthlyBuckets = make([]monthBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		resp.MonthlyBuckets = append(resp.MonthlyBuckets, monthBucketResponse{
			Month:      int(b.Month),
			TotalCents: b.Total.Cents,
			Count:      b.Count,
		})
	}

	if projection != nil {
		resp.Projection = &projectionResponse{
			Year:                projection.Year,
			Month:               int(projection.Month),
			AverageMonthlyCents: projection.AverageMonthlyPayment.Cents,
			FarFuture:           projection.FarFuture,
		}
	}

	return resp
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	debt, err := s.store.GetDebt(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	payments, err := s.store.ListPayments(r.Context(), debt.ID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	now := time.Now()
	pdf, err := report.Build(debt, payments, core.Totals(debt, payments), now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(now)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write report", "error", err)
	}
}
