package http

import (
	"log/slog"
	"net/http"
	"strings"

	"debttrack/internal/core"
	"debttrack/internal/records"
)

type paymentResponse struct {
	ID          string `json:"id"`
	DebtID      string `json:"debt_id"`
	AmountCents int64  `json:"amount_cents"`
	PaymentDate string `json:"payment_date"`
	Note        string `json:"note"`
	CreatedAt   string `json:"created_at"`
}

func toPaymentResponse(p core.Payment) paymentResponse {
	return paymentResponse{
		ID:          p.ID,
		DebtID:      p.DebtID,
		AmountCents: p.Amount.Cents,
		PaymentDate: p.PaymentDate,
		Note:        p.Note,
		CreatedAt:   p.CreatedAt,
	}
}

const paymentsListKey = "payments"

func (s *Server) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListPayments(w, r)
	case http.MethodPost:
		s.handleCreatePayment(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.listPayments(r)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// listPayments resolves the single tracked debt and returns its payments,
// newest first, through the short-TTL cache.
func (s *Server) listPayments(r *http.Request) ([]core.Payment, error) {
	if cached, ok := s.paymentsCache.Get(paymentsListKey); ok {
		out := make([]core.Payment, len(cached))
		copy(out, cached)
		return out, nil
	}

	debt, err := s.store.GetDebt(r.Context())
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(r.Context(), debt.ID)
	if err != nil {
		return nil, err
	}

	s.paymentsCache.Set(paymentsListKey, payments)
	return payments, nil
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount      amount `json:"amount"`
		PaymentDate string `json:"payment_date"`
		Note        string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	money, err := req.Amount.Money()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	// Payments always attach to the single tracked debt.
	debt, err := s.store.GetDebt(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	payment, err := s.store.CreatePayment(r.Context(), records.CreatePaymentParams{
		DebtID:      debt.ID,
		Amount:      money,
		PaymentDate: strings.TrimSpace(req.PaymentDate),
		Note:        strings.TrimSpace(req.Note),
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateDerived()
	slog.InfoContext(r.Context(), "Payment created via API",
		"id", payment.ID, "amount_cents", payment.Amount.Cents)
	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

func (s *Server) handlePaymentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/payments/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		s.handleUpdatePayment(w, r, id)
	case http.MethodDelete:
		s.handleDeletePayment(w, r, id)
	default:
		methodNotAllowed(w, "PATCH, DELETE")
	}
}

func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Amount      *amount `json:"amount"`
		PaymentDate *string `json:"payment_date"`
		Note        *string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var params records.UpdatePaymentParams
	if req.Amount != nil {
		money, err := req.Amount.Money()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}
		params.Amount = &money
	}
	params.PaymentDate = req.PaymentDate
	params.Note = req.Note

	payment, err := s.store.UpdatePayment(r.Context(), id, params)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateDerived()
	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.store.DeletePayment(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateDerived()
	slog.InfoContext(r.Context(), "Payment deleted via API", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
