// Package store defines the persistence ports the services depend on.
// Two adapters implement them: an in-memory store (default backend, also
// the test double) and a SQLite store.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs
	// to a different user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a catalog entity name collides
	// with an existing one.
	ErrDuplicateName = errors.New("name already exists")
)

// EntryKind selects which ledger entry collection an operation targets.
// Expenses and savings share one shape but live in separate collections.
type EntryKind string

const (
	KindExpense EntryKind = "expense"
	KindSaving  EntryKind = "saving"
)

// EntryFilter narrows entry listings. Zero values mean "no filter".
type EntryFilter struct {
	From            time.Time
	To              time.Time
	CategoryID      uuid.UUID
	PaymentMethodID uuid.UUID
	AmountTypeID    uuid.UUID
}

// Ports for outbound adapters.
type (
	CatalogStore interface {
		CreateCategory(ctx context.Context, c core.Category) error
		GetCategory(ctx context.Context, id uuid.UUID) (core.Category, error)
		ListCategories(ctx context.Context) ([]core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) error
		DeleteCategory(ctx context.Context, id uuid.UUID) error

		CreatePaymentMethod(ctx context.Context, pm core.PaymentMethod) error
		GetPaymentMethod(ctx context.Context, id uuid.UUID) (core.PaymentMethod, error)
		ListPaymentMethods(ctx context.Context) ([]core.PaymentMethod, error)
		UpdatePaymentMethod(ctx context.Context, pm core.PaymentMethod) error
		DeletePaymentMethod(ctx context.Context, id uuid.UUID) error

		CreateAmountType(ctx context.Context, at core.AmountType) error
		GetAmountType(ctx context.Context, id uuid.UUID) (core.AmountType, error)
		ListAmountTypes(ctx context.Context) ([]core.AmountType, error)
		UpdateAmountType(ctx context.Context, at core.AmountType) error
		DeleteAmountType(ctx context.Context, id uuid.UUID) error
	}

	// AmountTypeResolver is the narrow slice of CatalogStore the
	// reconciler needs to classify an entry.
	AmountTypeResolver interface {
		GetAmountType(ctx context.Context, id uuid.UUID) (core.AmountType, error)
	}

	EntryStore interface {
		CreateEntry(ctx context.Context, kind EntryKind, e core.LedgerEntry) error
		GetEntry(ctx context.Context, kind EntryKind, userID, id uuid.UUID) (core.LedgerEntry, error)
		ListEntries(ctx context.Context, kind EntryKind, userID uuid.UUID, f EntryFilter) ([]core.LedgerEntry, error)
		UpdateEntry(ctx context.Context, kind EntryKind, e core.LedgerEntry) error
		DeleteEntry(ctx context.Context, kind EntryKind, userID, id uuid.UUID) error
	}

	// BalanceStore holds the reconciler-owned rows. Apart from the Set
	// methods (manual correction paths) nothing outside the reconciler
	// writes them.
	BalanceStore interface {
		// GetMethodBalance synthesizes a zero-balance row when the pair
		// has never been touched; it does not create one.
		GetMethodBalance(ctx context.Context, userID, paymentMethodID uuid.UUID) (core.MethodBalance, error)
		// ListMethodBalances returns only rows that exist.
		ListMethodBalances(ctx context.Context, userID uuid.UUID) ([]core.MethodBalance, error)
		// AdjustMethodBalance creates the row at zero if absent, then
		// adds deltaCents.
		AdjustMethodBalance(ctx context.Context, userID, paymentMethodID uuid.UUID, deltaCents int64) error
		// SetMethodBalance overwrites the row, creating it if absent.
		SetMethodBalance(ctx context.Context, userID, paymentMethodID uuid.UUID, cents int64) error

		// GetAggregateBalance creates the row at zero on first read.
		GetAggregateBalance(ctx context.Context, userID uuid.UUID) (core.AggregateBalance, error)
		SetAggregateBalance(ctx context.Context, userID uuid.UUID, cents int64) error
	}

	AccountStore interface {
		CreateAccount(ctx context.Context, a core.Account) error
		GetAccount(ctx context.Context, userID, id uuid.UUID) (core.Account, error)
		// ListAccounts returns the user's active accounts with their
		// transactions, most recently updated first.
		ListAccounts(ctx context.Context, userID uuid.UUID) ([]core.Account, error)
		AddAccountTransaction(ctx context.Context, userID, accountID uuid.UUID, txn core.AccountTransaction) error
		RemoveAccountTransaction(ctx context.Context, userID, accountID, txnID uuid.UUID) error
	}

	GameStore interface {
		// GetSnakeScores returns a zeroed score set when the user has
		// never played.
		GetSnakeScores(ctx context.Context, userID uuid.UUID) (core.SnakeScores, error)
		UpsertSnakeScore(ctx context.Context, userID uuid.UUID, difficulty core.Difficulty, score int64, playedAt time.Time) (core.SnakeScores, error)
	}
)

// Store is the full persistence surface a backend provides.
type Store interface {
	CatalogStore
	EntryStore
	BalanceStore
	AccountStore
	GameStore
	Close() error
}
