package http

import (
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/services"
)

// Wire representations. Amounts travel as decimal strings ("12.34")
// alongside the raw cent values.

type catalogDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type amountTypeDTO struct {
	catalogDTO
	Classification string `json:"classification"`
}

func categoryToDTO(c core.Category) catalogDTO {
	return catalogDTO{ID: c.ID, Name: c.Name, Status: string(c.Status), CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func paymentMethodToDTO(pm core.PaymentMethod) catalogDTO {
	return catalogDTO{ID: pm.ID, Name: pm.Name, Status: string(pm.Status), CreatedAt: pm.CreatedAt, UpdatedAt: pm.UpdatedAt}
}

func amountTypeToDTO(at core.AmountType) amountTypeDTO {
	return amountTypeDTO{
		catalogDTO: catalogDTO{ID: at.ID, Name: at.Name, Status: string(at.Status), CreatedAt: at.CreatedAt, UpdatedAt: at.UpdatedAt},
		Classification: string(at.Classify()),
	}
}

type entryDTO struct {
	ID              uuid.UUID `json:"id"`
	Amount          string    `json:"amount"`
	AmountCents     int64     `json:"amount_cents"`
	CategoryID      uuid.UUID `json:"category_id"`
	PaymentMethodID uuid.UUID `json:"payment_method_id"`
	AmountTypeID    uuid.UUID `json:"amount_type_id"`
	Date            string    `json:"date"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func entryToDTO(e core.LedgerEntry) entryDTO {
	return entryDTO{
		ID:              e.ID,
		Amount:          e.Amount.String(),
		AmountCents:     e.Amount.Cents,
		CategoryID:      e.CategoryID,
		PaymentMethodID: e.PaymentMethodID,
		AmountTypeID:    e.AmountTypeID,
		Date:            e.Date.Format("2006-01-02"),
		Description:     e.Description,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func entriesToDTO(entries []core.LedgerEntry) []entryDTO {
	out := make([]entryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToDTO(e))
	}
	return out
}

type methodBalanceDTO struct {
	PaymentMethodID uuid.UUID `json:"payment_method_id"`
	Balance         string    `json:"balance"`
	BalanceCents    int64     `json:"balance_cents"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func methodBalanceToDTO(mb core.MethodBalance) methodBalanceDTO {
	return methodBalanceDTO{
		PaymentMethodID: mb.PaymentMethodID,
		Balance:         core.Money{Cents: mb.Cents}.String(),
		BalanceCents:    mb.Cents,
		UpdatedAt:       mb.UpdatedAt,
	}
}

type aggregateBalanceDTO struct {
	Balance      string    `json:"balance"`
	BalanceCents int64     `json:"balance_cents"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func aggregateBalanceToDTO(b core.AggregateBalance) aggregateBalanceDTO {
	return aggregateBalanceDTO{
		Balance:      core.Money{Cents: b.Cents}.String(),
		BalanceCents: b.Cents,
		UpdatedAt:    b.UpdatedAt,
	}
}

type accountTransactionDTO struct {
	ID             uuid.UUID `json:"id"`
	Amount         string    `json:"amount"`
	AmountCents    int64     `json:"amount_cents"`
	Type           string    `json:"type"`
	PaymentChannel string    `json:"payment_channel"`
	Note           string    `json:"note,omitempty"`
	Date           string    `json:"date"`
	CreatedAt      time.Time `json:"created_at"`
}

type accountSummaryDTO struct {
	TotalBorrowed     string  `json:"total_borrowed"`
	TotalRepaid       string  `json:"total_repaid"`
	Outstanding       string  `json:"outstanding"`
	OutstandingCents  int64   `json:"outstanding_cents"`
	LastRepaymentDate *string `json:"last_repayment_date,omitempty"`
}

type accountDTO struct {
	ID           uuid.UUID               `json:"id"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description,omitempty"`
	AccountType  string                  `json:"account_type"`
	Status       string                  `json:"status"`
	Transactions []accountTransactionDTO `json:"transactions"`
	Summary      accountSummaryDTO       `json:"summary"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}

func accountToDTO(aws services.AccountWithSummary) accountDTO {
	a := aws.Account
	txns := make([]accountTransactionDTO, 0, len(a.Transactions))
	for _, txn := range a.Transactions {
		txns = append(txns, accountTransactionDTO{
			ID:             txn.ID,
			Amount:         txn.Amount.String(),
			AmountCents:    txn.Amount.Cents,
			Type:           string(txn.Type),
			PaymentChannel: txn.PaymentChannel,
			Note:           txn.Note,
			Date:           txn.Date.Format("2006-01-02"),
			CreatedAt:      txn.CreatedAt,
		})
	}

	summary := accountSummaryDTO{
		TotalBorrowed:    aws.Summary.TotalBorrowed.String(),
		TotalRepaid:      aws.Summary.TotalRepaid.String(),
		Outstanding:      aws.Summary.Outstanding.String(),
		OutstandingCents: aws.Summary.Outstanding.Cents,
	}
	if aws.Summary.LastRepaymentDate != nil {
		d := aws.Summary.LastRepaymentDate.Format("2006-01-02")
		summary.LastRepaymentDate = &d
	}

	return accountDTO{
		ID:           a.ID,
		Name:         a.Name,
		Description:  a.Description,
		AccountType:  string(a.AccountType),
		Status:       string(a.Status),
		Transactions: txns,
		Summary:      summary,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

type snakeScoresDTO struct {
	Scores     map[string]int64 `json:"scores"`
	LastPlayed *time.Time       `json:"last_played,omitempty"`
}

func snakeScoresToDTO(sc core.SnakeScores) snakeScoresDTO {
	scores := make(map[string]int64, len(sc.Scores))
	for d, v := range sc.Scores {
		scores[string(d)] = v
	}
	dto := snakeScoresDTO{Scores: scores}
	if !sc.LastPlayed.IsZero() {
		t := sc.LastPlayed
		dto.LastPlayed = &t
	}
	return dto
}
