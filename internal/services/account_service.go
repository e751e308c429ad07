package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store"
)

// AccountInput creates a borrow/lend account. The opening amount is
// mandatory and becomes the account's first transaction.
type AccountInput struct {
	Name           string
	Description    string
	AccountType    core.AccountType
	OpeningAmount  core.Money
	OpeningDate    time.Time
	PaymentChannel string
}

// TransactionInput appends a movement to an existing account.
type TransactionInput struct {
	Amount         core.Money
	Type           core.TransactionType
	PaymentChannel string
	Note           string
	Date           time.Time
}

// AccountWithSummary pairs an account with its derived totals, the
// shape handlers return.
type AccountWithSummary struct {
	Account core.Account
	Summary core.AccountSummary
}

// AccountService manages borrow/lend accounts. These are standalone
// two-party ledgers; they never touch payment method balances.
type AccountService struct {
	accounts store.AccountStore
}

func NewAccountService(accounts store.AccountStore) *AccountService {
	return &AccountService{accounts: accounts}
}

// Create persists a new account together with its mandatory opening
// transaction: borrow for borrowed accounts, lent for lent ones.
func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, in AccountInput) (AccountWithSummary, error) {
	now := time.Now()
	channel := strings.TrimSpace(in.PaymentChannel)
	if channel == "" {
		channel = core.DefaultPaymentChannel
	}
	date := in.OpeningDate
	if date.IsZero() {
		date = now
	}

	a := core.Account{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		AccountType: in.AccountType,
		Status:      core.AccountActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Validate(); err != nil {
		return AccountWithSummary{}, invalidErr(err)
	}

	opening := core.AccountTransaction{
		ID:             uuid.New(),
		Amount:         in.OpeningAmount,
		Type:           a.AccountType.OpeningTransactionType(),
		PaymentChannel: channel,
		Note:           "Opening balance",
		Date:           date,
		CreatedAt:      now,
	}
	if err := opening.Validate(); err != nil {
		return AccountWithSummary{}, invalidErr(err)
	}
	a.Transactions = []core.AccountTransaction{opening}

	if err := s.accounts.CreateAccount(ctx, a); err != nil {
		return AccountWithSummary{}, fmt.Errorf("create account: %w", err)
	}
	return AccountWithSummary{Account: a, Summary: core.Summarize(a)}, nil
}

func (s *AccountService) Get(ctx context.Context, userID, id uuid.UUID) (AccountWithSummary, error) {
	a, err := s.accounts.GetAccount(ctx, userID, id)
	if err != nil {
		return AccountWithSummary{}, err
	}
	return AccountWithSummary{Account: a, Summary: core.Summarize(a)}, nil
}

// List returns the user's active accounts, each with its summary.
func (s *AccountService) List(ctx context.Context, userID uuid.UUID) ([]AccountWithSummary, error) {
	accounts, err := s.accounts.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]AccountWithSummary, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountWithSummary{Account: a, Summary: core.Summarize(a)})
	}
	return out, nil
}

// AddTransaction appends a movement after checking it is allowed on the
// account's type.
func (s *AccountService) AddTransaction(ctx context.Context, userID, accountID uuid.UUID, in TransactionInput) (AccountWithSummary, error) {
	a, err := s.accounts.GetAccount(ctx, userID, accountID)
	if err != nil {
		return AccountWithSummary{}, err
	}

	now := time.Now()
	channel := strings.TrimSpace(in.PaymentChannel)
	if channel == "" {
		channel = core.DefaultPaymentChannel
	}
	date := in.Date
	if date.IsZero() {
		date = now
	}

	txn := core.AccountTransaction{
		ID:             uuid.New(),
		Amount:         in.Amount,
		Type:           in.Type,
		PaymentChannel: channel,
		Note:           in.Note,
		Date:           date,
		CreatedAt:      now,
	}
	if err := txn.Validate(); err != nil {
		return AccountWithSummary{}, invalidErr(err)
	}
	if !a.AccountType.Allows(txn.Type) {
		return AccountWithSummary{}, invalidErr(core.ErrTransactionTypeMismatch)
	}

	if err := s.accounts.AddAccountTransaction(ctx, userID, accountID, txn); err != nil {
		return AccountWithSummary{}, fmt.Errorf("add account transaction: %w", err)
	}
	return s.Get(ctx, userID, accountID)
}

// RemoveTransaction deletes a movement; the summary simply refolds
// without it.
func (s *AccountService) RemoveTransaction(ctx context.Context, userID, accountID, txnID uuid.UUID) (AccountWithSummary, error) {
	if err := s.accounts.RemoveAccountTransaction(ctx, userID, accountID, txnID); err != nil {
		return AccountWithSummary{}, err
	}
	return s.Get(ctx, userID, accountID)
}
