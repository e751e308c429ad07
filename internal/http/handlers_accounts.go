package http

import (
	"net/http"
	"time"

	"hisab/internal/core"
	"hisab/internal/services"
)

type accountCreateRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	AccountType    string `json:"account_type"`
	OpeningAmount  string `json:"opening_amount"`
	OpeningDate    string `json:"opening_date,omitempty"`
	PaymentChannel string `json:"payment_channel,omitempty"`
}

type accountTransactionRequest struct {
	Amount         string `json:"amount"`
	Type           string `json:"type"`
	PaymentChannel string `json:"payment_channel,omitempty"`
	Note           string `json:"note,omitempty"`
	Date           string `json:"date,omitempty"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.OpeningAmount)
	if err != nil {
		badRequest(w, "invalid opening amount")
		return
	}
	var openingDate time.Time
	if req.OpeningDate != "" {
		openingDate, err = time.Parse("2006-01-02", req.OpeningDate)
		if err != nil {
			badRequest(w, "invalid opening date, expected YYYY-MM-DD")
			return
		}
	}

	aws, err := s.accounts.Create(r.Context(), userID(r), services.AccountInput{
		Name:           sanitizeInput(req.Name),
		Description:    sanitizeInput(req.Description),
		AccountType:    core.AccountType(req.AccountType),
		OpeningAmount:  core.Money{Cents: cents},
		OpeningDate:    openingDate,
		PaymentChannel: sanitizeInput(req.PaymentChannel),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "account created", accountToDTO(aws))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	aws, err := s.accounts.Get(r.Context(), userID(r), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "", accountToDTO(aws))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.accounts.List(r.Context(), userID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]accountDTO, 0, len(accounts))
	for _, aws := range accounts {
		out = append(out, accountToDTO(aws))
	}
	respond(w, http.StatusOK, "", out)
}

func (s *Server) handleAddAccountTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var req accountTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		badRequest(w, "invalid amount")
		return
	}
	var date time.Time
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			badRequest(w, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	aws, err := s.accounts.AddTransaction(r.Context(), userID(r), id, services.TransactionInput{
		Amount:         core.Money{Cents: cents},
		Type:           core.TransactionType(req.Type),
		PaymentChannel: sanitizeInput(req.PaymentChannel),
		Note:           sanitizeInput(req.Note),
		Date:           date,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, "transaction added", accountToDTO(aws))
}

func (s *Server) handleRemoveAccountTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	txnID, err := uuidParam(r, "txnID")
	if err != nil {
		badRequest(w, "invalid transaction id")
		return
	}
	aws, err := s.accounts.RemoveTransaction(r.Context(), userID(r), id, txnID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, "transaction removed", accountToDTO(aws))
}
