package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"hisab/internal/services"
	"hisab/internal/store"
)

// envelope is the uniform response shape: success flag, human message,
// optional payload.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: status < 400, Message: message, Data: data}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// respondError maps service errors onto status codes: validation
// failures are 400, missing records 404, name collisions 409,
// everything else is a logged 500 with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		respond(w, http.StatusBadRequest, ve.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		respond(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, store.ErrDuplicateName):
		respond(w, http.StatusConflict, store.ErrDuplicateName.Error(), nil)
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "method", r.Method, "url", r.URL.Path)
		respond(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func badRequest(w http.ResponseWriter, message string) {
	respond(w, http.StatusBadRequest, message, nil)
}

// uuidParam parses a chi URL parameter as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// parseEntryFilter reads the optional list-filter query parameters.
// Dates use YYYY-MM-DD.
func parseEntryFilter(r *http.Request) (store.EntryFilter, error) {
	var f store.EntryFilter
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return store.EntryFilter{}, errors.New("invalid 'from' date, expected YYYY-MM-DD")
		}
		f.From = t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return store.EntryFilter{}, errors.New("invalid 'to' date, expected YYYY-MM-DD")
		}
		f.To = t
	}
	if v := strings.TrimSpace(q.Get("category_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return store.EntryFilter{}, errors.New("invalid category_id")
		}
		f.CategoryID = id
	}
	if v := strings.TrimSpace(q.Get("payment_method_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return store.EntryFilter{}, errors.New("invalid payment_method_id")
		}
		f.PaymentMethodID = id
	}
	if v := strings.TrimSpace(q.Get("amount_type_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return store.EntryFilter{}, errors.New("invalid amount_type_id")
		}
		f.AmountTypeID = id
	}
	return f, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
