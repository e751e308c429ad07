package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store"
	"hisab/internal/store/memory"
)

func TestAccountServiceCreate(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(memory.New())
	userID := uuid.New()

	got, err := svc.Create(ctx, userID, AccountInput{
		Name:          "Landlord deposit",
		AccountType:   core.AccountBorrowed,
		OpeningAmount: core.Money{Cents: 50000},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	a := got.Account
	if a.Status != core.AccountActive {
		t.Errorf("Status = %v, want active", a.Status)
	}
	if len(a.Transactions) != 1 {
		t.Fatalf("Transactions = %d, want 1 opening transaction", len(a.Transactions))
	}
	opening := a.Transactions[0]
	if opening.Type != core.TxnBorrow {
		t.Errorf("opening type = %v, want borrow", opening.Type)
	}
	if opening.PaymentChannel != core.DefaultPaymentChannel {
		t.Errorf("opening channel = %q, want %q", opening.PaymentChannel, core.DefaultPaymentChannel)
	}
	if opening.Note != "Opening balance" {
		t.Errorf("opening note = %q", opening.Note)
	}

	if got.Summary.TotalBorrowed.Cents != 50000 {
		t.Errorf("TotalBorrowed = %d, want 50000", got.Summary.TotalBorrowed.Cents)
	}
	if got.Summary.Outstanding.Cents != 50000 {
		t.Errorf("Outstanding = %d, want 50000", got.Summary.Outstanding.Cents)
	}
}

func TestAccountServiceCreateLentOpening(t *testing.T) {
	svc := NewAccountService(memory.New())

	got, err := svc.Create(context.Background(), uuid.New(), AccountInput{
		Name:          "Loan to cousin",
		AccountType:   core.AccountLent,
		OpeningAmount: core.Money{Cents: 10000},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.Account.Transactions[0].Type != core.TxnLent {
		t.Errorf("opening type = %v, want lent", got.Account.Transactions[0].Type)
	}
}

func TestAccountServiceCreateValidation(t *testing.T) {
	svc := NewAccountService(memory.New())
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name string
		in   AccountInput
	}{
		{"blank name", AccountInput{Name: "  ", AccountType: core.AccountBorrowed, OpeningAmount: core.Money{Cents: 100}}},
		{"bad type", AccountInput{Name: "x", AccountType: "loaned", OpeningAmount: core.Money{Cents: 100}}},
		{"zero opening amount", AccountInput{Name: "x", AccountType: core.AccountBorrowed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, userID, tt.in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Create() error = %v, want ValidationError", err)
			}
		})
	}
}

func TestAccountServiceAddTransaction(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(memory.New())
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, AccountInput{
		Name:          "Bike loan",
		AccountType:   core.AccountBorrowed,
		OpeningAmount: core.Money{Cents: 10000},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id := created.Account.ID

	if _, err := svc.AddTransaction(ctx, userID, id, TransactionInput{
		Amount: core.Money{Cents: 4000},
		Type:   core.TxnRepay,
		Date:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}
	got, err := svc.AddTransaction(ctx, userID, id, TransactionInput{
		Amount: core.Money{Cents: 2000},
		Type:   core.TxnRepay,
		Date:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}

	if got.Summary.TotalBorrowed.Cents != 10000 {
		t.Errorf("TotalBorrowed = %d, want 10000", got.Summary.TotalBorrowed.Cents)
	}
	if got.Summary.TotalRepaid.Cents != 6000 {
		t.Errorf("TotalRepaid = %d, want 6000", got.Summary.TotalRepaid.Cents)
	}
	if got.Summary.Outstanding.Cents != 4000 {
		t.Errorf("Outstanding = %d, want 4000", got.Summary.Outstanding.Cents)
	}
	want := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if got.Summary.LastRepaymentDate == nil || !got.Summary.LastRepaymentDate.Equal(want) {
		t.Errorf("LastRepaymentDate = %v, want %v", got.Summary.LastRepaymentDate, want)
	}
}

func TestAccountServiceAddTransactionTypeMismatch(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(memory.New())
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, AccountInput{
		Name:          "Loan to friend",
		AccountType:   core.AccountLent,
		OpeningAmount: core.Money{Cents: 5000},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.AddTransaction(ctx, userID, created.Account.ID, TransactionInput{
		Amount: core.Money{Cents: 1000},
		Type:   core.TxnRepay, // borrowed-account type on a lent account
	})
	if !errors.Is(err, core.ErrTransactionTypeMismatch) {
		t.Errorf("AddTransaction() error = %v, want ErrTransactionTypeMismatch", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("AddTransaction() error = %v, want ValidationError", err)
	}
}

func TestAccountServiceRemoveTransaction(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(memory.New())
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, AccountInput{
		Name:          "Bridge loan",
		AccountType:   core.AccountBorrowed,
		OpeningAmount: core.Money{Cents: 10000},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	id := created.Account.ID

	added, err := svc.AddTransaction(ctx, userID, id, TransactionInput{
		Amount: core.Money{Cents: 3000},
		Type:   core.TxnRepay,
	})
	if err != nil {
		t.Fatalf("AddTransaction() error = %v", err)
	}
	var repayID uuid.UUID
	for _, txn := range added.Account.Transactions {
		if txn.Type == core.TxnRepay {
			repayID = txn.ID
		}
	}

	got, err := svc.RemoveTransaction(ctx, userID, id, repayID)
	if err != nil {
		t.Fatalf("RemoveTransaction() error = %v", err)
	}
	if got.Summary.TotalRepaid.Cents != 0 {
		t.Errorf("TotalRepaid = %d, want 0 after removal", got.Summary.TotalRepaid.Cents)
	}
	if got.Summary.Outstanding.Cents != 10000 {
		t.Errorf("Outstanding = %d, want 10000", got.Summary.Outstanding.Cents)
	}
	if got.Summary.LastRepaymentDate != nil {
		t.Errorf("LastRepaymentDate = %v, want nil", got.Summary.LastRepaymentDate)
	}

	if _, err := svc.RemoveTransaction(ctx, userID, id, repayID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("RemoveTransaction() twice error = %v, want ErrNotFound", err)
	}
}

func TestAccountServiceUserIsolation(t *testing.T) {
	ctx := context.Background()
	svc := NewAccountService(memory.New())
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, AccountInput{
		Name:          "Private loan",
		AccountType:   core.AccountBorrowed,
		OpeningAmount: core.Money{Cents: 100},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Get(ctx, uuid.New(), created.Account.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() as other user error = %v, want ErrNotFound", err)
	}
}
