package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

const (
	// Credit is money coming in; its ledger contribution to a payment
	// method balance is -amount.
	Credit Classification = "credit"
	// Debit is money going out; its contribution is +amount.
	Debit Classification = "debit"
)

type (
	Status         string
	Classification string

	// Category is a user-facing expense/saving grouping label.
	Category struct {
		ID        uuid.UUID
		Name      string
		Status    Status
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// PaymentMethod is a spending channel (cash, a card, UPI, ...).
	PaymentMethod struct {
		ID        uuid.UUID
		Name      string
		Status    Status
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// AmountType is a label whose name determines whether entries using
	// it count as credit or debit.
	AmountType struct {
		ID        uuid.UUID
		Name      string
		Status    Status
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// LedgerEntry is the common shape of a money-moving record. Both
	// expenses and savings are ledger entries; they differ only in which
	// collection they live in.
	LedgerEntry struct {
		ID              uuid.UUID
		UserID          uuid.UUID
		Amount          Money
		CategoryID      uuid.UUID
		PaymentMethodID uuid.UUID
		AmountTypeID    uuid.UUID
		Date            time.Time
		Description     string
		CreatedAt       time.Time
		UpdatedAt       time.Time
	}

	// MethodBalance is the running balance of one payment method for one
	// user. Rows are created lazily on first reconciliation.
	MethodBalance struct {
		UserID          uuid.UUID
		PaymentMethodID uuid.UUID
		Cents           int64
		UpdatedAt       time.Time
	}

	// AggregateBalance is the per-user materialized sum of all method
	// balances, rewritten wholesale after every reconciliation.
	AggregateBalance struct {
		UserID    uuid.UUID
		Cents     int64
		UpdatedAt time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNameRequired       = errors.New("name is required")
	ErrNameLength         = errors.New("name must be between 2 and 50 characters")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrCategoryRequired   = errors.New("category is required")
	ErrMethodRequired     = errors.New("payment method is required")
	ErrAmountTypeRequired = errors.New("amount type is required")
	ErrDescriptionLength  = errors.New("description cannot exceed 500 characters")
	ErrDateRequired       = errors.New("date is required")
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Classify derives the credit/debit classification from the amount type
// name: a case-insensitive substring match on "credit" or "income" means
// credit, anything else is debit. The result is recomputed on every call,
// never cached, so renaming an amount type reclassifies all entries that
// reference it.
func (at AmountType) Classify() Classification {
	name := strings.ToLower(at.Name)
	if strings.Contains(name, "credit") || strings.Contains(name, "income") {
		return Credit
	}
	return Debit
}

func (at AmountType) Validate() error {
	name := strings.TrimSpace(at.Name)
	if name == "" {
		return ErrNameRequired
	}
	if len(name) < 2 || len(name) > 50 {
		return ErrNameLength
	}
	if !at.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (c Category) Validate() error {
	return validateCatalogName(c.Name, c.Status)
}

func (pm PaymentMethod) Validate() error {
	return validateCatalogName(pm.Name, pm.Status)
}

func validateCatalogName(name string, status Status) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > 50 {
		return ErrNameLength
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (e LedgerEntry) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.CategoryID == uuid.Nil {
		return ErrCategoryRequired
	}
	if e.PaymentMethodID == uuid.Nil {
		return ErrMethodRequired
	}
	if e.AmountTypeID == uuid.Nil {
		return ErrAmountTypeRequired
	}
	if e.Date.IsZero() {
		return ErrDateRequired
	}
	if len(e.Description) > 500 {
		return ErrDescriptionLength
	}
	return nil
}

// SignedCents is the entry's contribution to its payment method balance:
// +amount for debit-classified entries, -amount for credit-classified
// ones. The balance tracks money spent against the method, not a
// bank-account style balance, hence credits decrease it.
func (e LedgerEntry) SignedCents(class Classification) int64 {
	if class == Credit {
		return -e.Amount.Cents
	}
	return e.Amount.Cents
}
