package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
)

// catalogRequest is the shared create/update body for the three
// catalogs. Status defaults to active on create.
type catalogRequest struct {
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

func (req *catalogRequest) nameAndStatus(fallback core.Status) (string, core.Status) {
	status := fallback
	if req.Status != "" {
		status = core.Status(req.Status)
	}
	return sanitizeInput(req.Name), status
}

// --- categories ---

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalogs.ListCategories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]catalogDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryToDTO(c))
	}
	respond(w, http.StatusOK, "", out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	name, status := req.nameAndStatus(core.StatusActive)
	now := time.Now()
	c := core.Category{ID: uuid.New(), Name: name, Status: status, CreatedAt: now, UpdatedAt: now}
	if err := c.Validate(); err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.catalogs.CreateCategory(r.Context(), c); err != nil {
		respondError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "Category created", "category_id", c.ID, "name", c.Name)
	respond(w, http.StatusCreated, "category created", categoryToDTO(c))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	c, err := s.catalogs.GetCategory(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", categoryToDTO(c))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	c, err := s.catalogs.GetCategory(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Name != "" {
		c.Name = sanitizeInput(req.Name)
	}
	if req.Status != "" {
		c.Status = core.Status(req.Status)
	}
	c.UpdatedAt = time.Now()
	if err := c.Validate(); err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.catalogs.UpdateCategory(r.Context(), c); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "category updated", categoryToDTO(c))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := s.catalogs.DeleteCategory(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "category deleted", nil)
}

// --- payment methods ---

func (s *Server) handleListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := s.catalogs.ListPaymentMethods(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]catalogDTO, 0, len(methods))
	for _, pm := range methods {
		out = append(out, paymentMethodToDTO(pm))
	}
	respond(w, http.StatusOK, "", out)
}

func (s *Server) handleCreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	name, status := req.nameAndStatus(core.StatusActive)
	now := time.Now()
	pm := core.PaymentMethod{ID: uuid.New(), Name: name, Status: status, CreatedAt: now, UpdatedAt: now}
	if err := pm.Validate(); err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.catalogs.CreatePaymentMethod(r.Context(), pm); err != nil {
		respondError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "Payment method created", "payment_method_id", pm.ID, "name", pm.Name)
	respond(w, http.StatusCreated, "payment method created", paymentMethodToDTO(pm))
}

func (s *Server) handleGetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	pm, err := s.catalogs.GetPaymentMethod(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", paymentMethodToDTO(pm))
}

func (s *Server) handleUpdatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	pm, err := s.catalogs.GetPaymentMethod(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Name != "" {
		pm.Name = sanitizeInput(req.Name)
	}
	if req.Status != "" {
		pm.Status = core.Status(req.Status)
	}
	pm.UpdatedAt = time.Now()
	if err := pm.Validate(); err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.catalogs.UpdatePaymentMethod(r.Context(), pm); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "payment method updated", paymentMethodToDTO(pm))
}

func (s *Server) handleDeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := s.catalogs.DeletePaymentMethod(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "payment method deleted", nil)
}

// --- amount types ---

func (s *Server) handleListAmountTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalogs.ListAmountTypes(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]amountTypeDTO, 0, len(types))
	for _, at := range types {
		out = append(out, amountTypeToDTO(at))
	}
	respond(w, http.StatusOK, "", out)
}

func (s *Server) handleCreateAmountType(w http.ResponseWriter, r *http.Request) {
	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	name, status := req.nameAndStatus(core.StatusActive)
	now := time.Now()
	at := core.AmountType{ID: uuid.New(), Name: name, Status: status, CreatedAt: now, UpdatedAt: now}
	if err := at.Validate(); err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.catalogs.CreateAmountType(r.Context(), at); err != nil {
		respondError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "Amount type created",
		"amount_type_id", at.ID, "name", at.Name, "classification", at.Classify())
	respond(w, http.StatusCreated, "amount type created", amountTypeToDTO(at))
}

func (s *Server) handleGetAmountType(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	at, err := s.catalogs.GetAmountType(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", amountTypeToDTO(at))
}

// handleUpdateAmountType renames or re-statuses an amount type. A
// rename that changes the credit/income match reclassifies every entry
// that references this type; balances converge on the next
// reconciliation touching those entries.
func (s *Server) handleUpdateAmountType(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	at, err := s.catalogs.GetAmountType(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req catalogRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Name != "" {
		at.Name = sanitizeInput(req.Name)
	}
	if req.Status != "" {
		at.Status = core.Status(req.Status)
	}
	at.UpdatedAt = time.Now()
	if err := at.Validate(); err != nil {
		badRequest(w, err.Error())
		return
	}
	if err := s.catalogs.UpdateAmountType(r.Context(), at); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "amount type updated", amountTypeToDTO(at))
}

func (s *Server) handleDeleteAmountType(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := s.catalogs.DeleteAmountType(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "amount type deleted", nil)
}
