package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"debttrack/internal/core"
	"debttrack/internal/records"
)

const maxBodySize = 64 << 10 // request bodies are tiny JSON documents

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps record-store failures to HTTP statuses: missing
// records are 404, validation failures 422, anything else is a 502
// because the store is a dependency the handler cannot repair.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, records.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Record store error",
			"error", err, "method", r.Method, "url", r.URL.Path)
		writeError(w, http.StatusBadGateway, "record store unavailable")
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrDateInFuture) ||
		errors.Is(err, core.ErrDateBeforeMin) ||
		errors.Is(err, core.ErrTextTooLong) ||
		errors.Is(err, core.ErrMissingDebtRef)
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// amount accepts either a JSON number or a decimal string ("123.45",
// "123,45") and converts to cents on demand.
type amount string

func (a *amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = amount(n.String())
	return nil
}

func (a amount) Money() (core.Money, error) {
	cents, err := core.ParseDecimalToCents(string(a))
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
