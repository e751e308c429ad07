package http

import (
	"net/http"
)

// balanceSetRequest overwrites a balance. Cents, not a decimal string:
// manual corrections may legitimately be negative or zero.
type balanceSetRequest struct {
	BalanceCents int64 `json:"balance_cents"`
}

func (s *Server) handleListMethodBalances(w http.ResponseWriter, r *http.Request) {
	rows, err := s.balances.MethodBalances(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]methodBalanceDTO, 0, len(rows))
	for _, mb := range rows {
		out = append(out, methodBalanceToDTO(mb))
	}
	respond(w, http.StatusOK, "", out)
}

func (s *Server) handleGetMethodBalance(w http.ResponseWriter, r *http.Request) {
	pmID, err := uuidParam(r, "paymentMethodID")
	if err != nil {
		badRequest(w, "invalid payment method id")
		return
	}
	mb, err := s.balances.MethodBalance(r.Context(), userID(r), pmID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", methodBalanceToDTO(mb))
}

func (s *Server) handleSetMethodBalance(w http.ResponseWriter, r *http.Request) {
	pmID, err := uuidParam(r, "paymentMethodID")
	if err != nil {
		badRequest(w, "invalid payment method id")
		return
	}
	var req balanceSetRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	mb, err := s.balances.SetMethodBalance(r.Context(), userID(r), pmID, req.BalanceCents)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "balance updated", methodBalanceToDTO(mb))
}

func (s *Server) handleGetAggregateBalance(w http.ResponseWriter, r *http.Request) {
	b, err := s.balances.AggregateBalance(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", aggregateBalanceToDTO(b))
}

func (s *Server) handleSetAggregateBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceSetRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	b, err := s.balances.SetAggregateBalance(r.Context(), userID(r), req.BalanceCents)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "balance updated", aggregateBalanceToDTO(b))
}
