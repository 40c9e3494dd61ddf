package http

import (
	"errors"
	"log/slog"
	"net/http"

	"debttrack/internal/core"
	"debttrack/internal/records"
)

type debtResponse struct {
	ID               string `json:"id"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	Description      string `json:"description"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func toDebtResponse(d core.Debt) debtResponse {
	return debtResponse{
		ID:               d.ID,
		TotalAmountCents: d.TotalAmount.Cents,
		Description:      d.Description,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (s *Server) handleDebt(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGetDebt(w, r)
	case http.MethodPost:
		s.handleCreateDebt(w, r)
	case http.MethodPatch:
		s.handleUpdateDebt(w, r)
	default:
		methodNotAllowed(w, "GET, POST, PATCH")
	}
}

func (s *Server) handleGetDebt(w http.ResponseWriter, r *http.Request) {
	debt, err := s.store.GetDebt(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtResponse(debt))
}

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TotalAmount amount `json:"total_amount"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	total, err := req.TotalAmount.Money()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid total_amount")
		return
	}

	// Only one debt is tracked; edits go through PATCH.
	if _, err := s.store.GetDebt(r.Context()); err == nil {
		writeError(w, http.StatusConflict, "debt already exists")
		return
	} else if !errors.Is(err, records.ErrNotFound) {
		writeStoreError(w, r, err)
		return
	}

	debt, err := s.store.CreateDebt(r.Context(), records.CreateDebtParams{
		TotalAmount: total,
		Description: req.Description,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateDerived()
	slog.InfoContext(r.Context(), "Debt created via API",
		"id", debt.ID, "total_amount_cents", debt.TotalAmount.Cents)
	writeJSON(w, http.StatusCreated, toDebtResponse(debt))
}

func (s *Server) handleUpdateDebt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TotalAmount *amount `json:"total_amount"`
		Description *string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, err := s.store.GetDebt(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	var params records.UpdateDebtParams
	if req.TotalAmount != nil {
		total, err := req.TotalAmount.Money()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid total_amount")
			return
		}
		params.TotalAmount = &total
	}
	params.Description = req.Description

	debt, err := s.store.UpdateDebt(r.Context(), current.ID, params)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateDerived()
	writeJSON(w, http.StatusOK, toDebtResponse(debt))
}
