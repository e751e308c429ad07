package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/services"
)

// entryRequest creates an expense or saving. Amount is a decimal string
// ("12.34" or "12,34"); date is YYYY-MM-DD and defaults to today.
type entryRequest struct {
	Amount          string    `json:"amount"`
	CategoryID      uuid.UUID `json:"category_id"`
	PaymentMethodID uuid.UUID `json:"payment_method_id"`
	AmountTypeID    uuid.UUID `json:"amount_type_id"`
	Date            string    `json:"date,omitempty"`
	Description     string    `json:"description,omitempty"`
}

// entryPatchRequest is a partial update; absent fields keep their
// stored values.
type entryPatchRequest struct {
	Amount          *string    `json:"amount,omitempty"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	PaymentMethodID *uuid.UUID `json:"payment_method_id,omitempty"`
	AmountTypeID    *uuid.UUID `json:"amount_type_id,omitempty"`
	Date            *string    `json:"date,omitempty"`
	Description     *string    `json:"description,omitempty"`
}

func (s *Server) handleCreateEntry(svc *services.EntryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, "invalid request body")
			return
		}

		cents, err := core.ParseDecimalToCents(req.Amount)
		if err != nil {
			badRequest(w, "invalid amount")
			return
		}
		date := time.Now()
		if req.Date != "" {
			date, err = time.Parse("2006-01-02", req.Date)
			if err != nil {
				badRequest(w, "invalid date, expected YYYY-MM-DD")
				return
			}
		}

		e, err := svc.Create(r.Context(), userID(r), services.EntryInput{
			Amount:          core.Money{Cents: cents},
			CategoryID:      req.CategoryID,
			PaymentMethodID: req.PaymentMethodID,
			AmountTypeID:    req.AmountTypeID,
			Date:            date,
			Description:     sanitizeInput(req.Description),
		})
		if err != nil {
			respondError(w, r, err)
			return
		}
		respond(w, http.StatusCreated, "entry created", entryToDTO(e))
	}
}

func (s *Server) handleGetEntry(svc *services.EntryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			badRequest(w, "invalid id")
			return
		}
		e, err := svc.Get(r.Context(), userID(r), id)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", entryToDTO(e))
	}
}

func (s *Server) handleListEntries(svc *services.EntryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseEntryFilter(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		entries, err := svc.List(r.Context(), userID(r), filter)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", entriesToDTO(entries))
	}
}

func (s *Server) handleUpdateEntry(svc *services.EntryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			badRequest(w, "invalid id")
			return
		}
		var req entryPatchRequest
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, "invalid request body")
			return
		}

		var patch services.EntryPatch
		if req.Amount != nil {
			cents, err := core.ParseDecimalToCents(*req.Amount)
			if err != nil {
				badRequest(w, "invalid amount")
				return
			}
			patch.Amount = &core.Money{Cents: cents}
		}
		if req.Date != nil {
			date, err := time.Parse("2006-01-02", *req.Date)
			if err != nil {
				badRequest(w, "invalid date, expected YYYY-MM-DD")
				return
			}
			patch.Date = &date
		}
		if req.Description != nil {
			desc := sanitizeInput(*req.Description)
			patch.Description = &desc
		}
		patch.CategoryID = req.CategoryID
		patch.PaymentMethodID = req.PaymentMethodID
		patch.AmountTypeID = req.AmountTypeID

		e, err := svc.Update(r.Context(), userID(r), id, patch)
		if err != nil {
			respondError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "entry updated", entryToDTO(e))
	}
}

func (s *Server) handleDeleteEntry(svc *services.EntryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			badRequest(w, "invalid id")
			return
		}
		if err := svc.Delete(r.Context(), userID(r), id); err != nil {
			respondError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "entry deleted", nil)
	}
}

func (s *Server) handleEntryStats(svc *services.EntryService) http.HandlerFunc {
	type statsDTO struct {
		Count           int              `json:"count"`
		Total           string           `json:"total"`
		TotalCents      int64            `json:"total_cents"`
		ByCategory      map[string]int64 `json:"by_category"`
		ByPaymentMethod map[string]int64 `json:"by_payment_method"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseEntryFilter(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		stats, err := svc.Stats(r.Context(), userID(r), filter)
		if err != nil {
			respondError(w, r, err)
			return
		}
		dto := statsDTO{
			Count:           stats.Count,
			Total:           core.Money{Cents: stats.TotalCents}.String(),
			TotalCents:      stats.TotalCents,
			ByCategory:      make(map[string]int64, len(stats.ByCategory)),
			ByPaymentMethod: make(map[string]int64, len(stats.ByPaymentMethod)),
		}
		for id, cents := range stats.ByCategory {
			dto.ByCategory[id.String()] = cents
		}
		for id, cents := range stats.ByPaymentMethod {
			dto.ByPaymentMethod[id.String()] = cents
		}
		respond(w, http.StatusOK, "", dto)
	}
}

func (s *Server) handleEntryTotal(svc *services.EntryService) http.HandlerFunc {
	type totalDTO struct {
		Total      string `json:"total"`
		TotalCents int64  `json:"total_cents"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := svc.Total(r.Context(), userID(r))
		if err != nil {
			respondError(w, r, err)
			return
		}
		respond(w, http.StatusOK, "", totalDTO{
			Total:      core.Money{Cents: total}.String(),
			TotalCents: total,
		})
	}
}
