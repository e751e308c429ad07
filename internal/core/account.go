package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AccountBorrowed AccountType = "borrowed"
	AccountLent     AccountType = "lent"

	AccountActive   AccountStatus = "active"
	AccountArchived AccountStatus = "archived"

	TxnBorrow   TransactionType = "borrow"
	TxnRepay    TransactionType = "repay"
	TxnLent     TransactionType = "lent"
	TxnReceived TransactionType = "received"

	DefaultPaymentChannel = "Cash"
)

type (
	AccountType     string
	AccountStatus   string
	TransactionType string

	// AccountTransaction is one movement on a borrow/lend account.
	// Transactions are appended or removed whole; amounts are never
	// edited in place.
	AccountTransaction struct {
		ID             uuid.UUID
		Amount         Money
		Type           TransactionType
		PaymentChannel string
		Note           string
		Date           time.Time
		CreatedAt      time.Time
	}

	// Account is a self-contained two-party ledger. It has no stored
	// balance; the summary is always folded from the transaction list.
	// Account transactions do not participate in payment method balances.
	Account struct {
		ID           uuid.UUID
		UserID       uuid.UUID
		Name         string
		Description  string
		AccountType  AccountType
		Status       AccountStatus
		Transactions []AccountTransaction
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}

	// AccountSummary is derived state. TotalBorrowed means "principal
	// moved out" for both account types. Outstanding may go negative
	// when over-repaid.
	AccountSummary struct {
		TotalBorrowed     Money
		TotalRepaid       Money
		Outstanding       Money
		LastRepaymentDate *time.Time
	}
)

var (
	ErrAccountNameRequired    = errors.New("account name is required")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	// ErrTransactionTypeMismatch means the transaction type is not
	// allowed on this account type (borrowed accounts take borrow/repay,
	// lent accounts take lent/received).
	ErrTransactionTypeMismatch = errors.New("transaction type not allowed for account type")
)

func (t AccountType) Valid() bool {
	return t == AccountBorrowed || t == AccountLent
}

func (t TransactionType) Valid() bool {
	switch t {
	case TxnBorrow, TxnRepay, TxnLent, TxnReceived:
		return true
	}
	return false
}

// Allows reports whether a transaction of the given type may be recorded
// on an account of this type.
func (t AccountType) Allows(txn TransactionType) bool {
	if t == AccountLent {
		return txn == TxnLent || txn == TxnReceived
	}
	return txn == TxnBorrow || txn == TxnRepay
}

// OpeningTransactionType is the type of the mandatory first transaction
// created with the account.
func (t AccountType) OpeningTransactionType() TransactionType {
	if t == AccountLent {
		return TxnLent
	}
	return TxnBorrow
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrAccountNameRequired
	}
	if !a.AccountType.Valid() {
		return ErrInvalidAccountType
	}
	return nil
}

func (txn AccountTransaction) Validate() error {
	if err := txn.Amount.Validate(); err != nil {
		return err
	}
	if !txn.Type.Valid() {
		return ErrInvalidTransactionType
	}
	if txn.Date.IsZero() {
		return ErrDateRequired
	}
	return nil
}

// Summarize folds the account's transactions into totals. The last
// repayment date uses a strict greater-than comparison, so among equal
// dates the earliest-encountered transaction wins.
func Summarize(a Account) AccountSummary {
	var s AccountSummary
	for _, txn := range a.Transactions {
		switch {
		case a.AccountType == AccountLent && txn.Type == TxnLent,
			a.AccountType == AccountBorrowed && txn.Type == TxnBorrow:
			s.TotalBorrowed = s.TotalBorrowed.Add(txn.Amount)
		case a.AccountType == AccountLent && txn.Type == TxnReceived,
			a.AccountType == AccountBorrowed && txn.Type == TxnRepay:
			s.TotalRepaid = s.TotalRepaid.Add(txn.Amount)
			if s.LastRepaymentDate == nil || txn.Date.After(*s.LastRepaymentDate) {
				d := txn.Date
				s.LastRepaymentDate = &d
			}
		}
	}
	s.Outstanding = Money{Cents: s.TotalBorrowed.Cents - s.TotalRepaid.Cents}
	return s
}
