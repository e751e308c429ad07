package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store/memory"
)

func seedAmountType(t *testing.T, s *memory.Store, name string) core.AmountType {
	t.Helper()
	at := core.AmountType{
		ID:        uuid.New(),
		Name:      name,
		Status:    core.StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.CreateAmountType(context.Background(), at); err != nil {
		t.Fatalf("seed amount type %q: %v", name, err)
	}
	return at
}

func testEntry(userID, methodID, amountTypeID uuid.UUID, cents int64) core.LedgerEntry {
	return core.LedgerEntry{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          core.Money{Cents: cents},
		CategoryID:      uuid.New(),
		PaymentMethodID: methodID,
		AmountTypeID:    amountTypeID,
		Date:            time.Now(),
	}
}

func aggregateCents(t *testing.T, s *memory.Store, userID uuid.UUID) int64 {
	t.Helper()
	b, err := s.GetAggregateBalance(context.Background(), userID)
	if err != nil {
		t.Fatalf("get aggregate balance: %v", err)
	}
	return b.Cents
}

func methodCents(t *testing.T, s *memory.Store, userID, methodID uuid.UUID) int64 {
	t.Helper()
	mb, err := s.GetMethodBalance(context.Background(), userID, methodID)
	if err != nil {
		t.Fatalf("get method balance: %v", err)
	}
	return mb.Cents
}

func TestReconcilerSignConvention(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := NewReconciler(s, s, nil)

	userID := uuid.New()
	methodID := uuid.New()
	debit := seedAmountType(t, s, "Groceries")
	credit := seedAmountType(t, s, "Salary Income")

	r.EntryCreated(ctx, testEntry(userID, methodID, debit.ID, 5000))
	if got := methodCents(t, s, userID, methodID); got != 5000 {
		t.Errorf("debit entry: method balance = %d, want 5000", got)
	}

	r.EntryCreated(ctx, testEntry(userID, methodID, credit.ID, 5000))
	if got := methodCents(t, s, userID, methodID); got != 0 {
		t.Errorf("credit entry: method balance = %d, want 0", got)
	}
	if got := aggregateCents(t, s, userID); got != 0 {
		t.Errorf("aggregate = %d, want 0", got)
	}
}

func TestReconcilerDeleteReversesCreate(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := NewReconciler(s, s, nil)

	userID := uuid.New()
	methodID := uuid.New()
	debit := seedAmountType(t, s, "Rent")

	e := testEntry(userID, methodID, debit.ID, 123456)
	r.EntryCreated(ctx, e)
	r.EntryDeleted(ctx, e)

	if got := methodCents(t, s, userID, methodID); got != 0 {
		t.Errorf("method balance after create+delete = %d, want 0", got)
	}
	if got := aggregateCents(t, s, userID); got != 0 {
		t.Errorf("aggregate after create+delete = %d, want 0", got)
	}
}

func TestReconcilerUpdateAcrossMethods(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := NewReconciler(s, s, nil)

	userID := uuid.New()
	m1 := uuid.New()
	m2 := uuid.New()
	debit := seedAmountType(t, s, "Travel")

	old := testEntry(userID, m1, debit.ID, 10000)
	r.EntryCreated(ctx, old)

	updated := old
	updated.PaymentMethodID = m2
	updated.Amount = core.Money{Cents: 3000}
	r.EntryUpdated(ctx, old, updated)

	if got := methodCents(t, s, userID, m1); got != 0 {
		t.Errorf("old method balance = %d, want 0", got)
	}
	if got := methodCents(t, s, userID, m2); got != 3000 {
		t.Errorf("new method balance = %d, want 3000", got)
	}
	if got := aggregateCents(t, s, userID); got != 3000 {
		t.Errorf("aggregate = %d, want 3000", got)
	}
}

func TestReconcilerAggregateSumsAllMethods(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := NewReconciler(s, s, nil)

	userID := uuid.New()
	debit := seedAmountType(t, s, "Food")
	credit := seedAmountType(t, s, "Income")

	m1 := uuid.New()
	m2 := uuid.New()
	m3 := uuid.New()

	r.EntryCreated(ctx, testEntry(userID, m1, debit.ID, 2500))
	r.EntryCreated(ctx, testEntry(userID, m2, debit.ID, 1000))
	r.EntryCreated(ctx, testEntry(userID, m3, credit.ID, 4000))

	rows, err := s.ListMethodBalances(ctx, userID)
	if err != nil {
		t.Fatalf("list method balances: %v", err)
	}
	var sum int64
	for _, mb := range rows {
		sum += mb.Cents
	}
	if got := aggregateCents(t, s, userID); got != sum {
		t.Errorf("aggregate = %d, want sum of method balances %d", got, sum)
	}
	if sum != -500 {
		t.Errorf("sum of method balances = %d, want -500", sum)
	}
}

func TestReconcilerSkipsMissingAmountType(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := NewReconciler(s, s, nil)

	userID := uuid.New()
	methodID := uuid.New()
	debit := seedAmountType(t, s, "Utilities")

	e := testEntry(userID, methodID, debit.ID, 7000)
	r.EntryCreated(ctx, e)

	if err := s.DeleteAmountType(ctx, debit.ID); err != nil {
		t.Fatalf("delete amount type: %v", err)
	}

	// The deletion hook must leave every balance untouched when the
	// amount type cannot be resolved.
	r.EntryDeleted(ctx, e)

	if got := methodCents(t, s, userID, methodID); got != 7000 {
		t.Errorf("method balance = %d, want 7000 (untouched)", got)
	}
	if got := aggregateCents(t, s, userID); got != 7000 {
		t.Errorf("aggregate = %d, want 7000 (untouched)", got)
	}
}

func TestReconcilerIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := NewReconciler(s, s, nil)

	alice := uuid.New()
	bob := uuid.New()
	methodID := uuid.New()
	debit := seedAmountType(t, s, "Shopping")

	r.EntryCreated(ctx, testEntry(alice, methodID, debit.ID, 1500))

	if got := aggregateCents(t, s, alice); got != 1500 {
		t.Errorf("alice aggregate = %d, want 1500", got)
	}
	if got := aggregateCents(t, s, bob); got != 0 {
		t.Errorf("bob aggregate = %d, want 0", got)
	}
}

type recordingPublisher struct {
	userIDs []string
	cents   []int64
}

func (p *recordingPublisher) PublishBalanceUpdated(_ context.Context, userID string, balanceCents int64) error {
	p.userIDs = append(p.userIDs, userID)
	p.cents = append(p.cents, balanceCents)
	return nil
}

func TestReconcilerPublishesAfterRecompute(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	pub := &recordingPublisher{}
	r := NewReconciler(s, s, pub)

	userID := uuid.New()
	debit := seedAmountType(t, s, "Fuel")

	r.EntryCreated(ctx, testEntry(userID, uuid.New(), debit.ID, 2000))

	if len(pub.cents) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.cents))
	}
	if pub.userIDs[0] != userID.String() {
		t.Errorf("published user = %s, want %s", pub.userIDs[0], userID)
	}
	if pub.cents[0] != 2000 {
		t.Errorf("published cents = %d, want 2000", pub.cents[0])
	}
}

func TestReconcilerRecomputeAggregateAfterManualSet(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := NewReconciler(s, s, nil)

	userID := uuid.New()
	m1 := uuid.New()
	m2 := uuid.New()

	if err := s.SetMethodBalance(ctx, userID, m1, 8000); err != nil {
		t.Fatalf("set method balance: %v", err)
	}
	if err := s.SetMethodBalance(ctx, userID, m2, -3000); err != nil {
		t.Fatalf("set method balance: %v", err)
	}
	r.RecomputeAggregate(ctx, userID)

	if got := aggregateCents(t, s, userID); got != 5000 {
		t.Errorf("aggregate = %d, want 5000", got)
	}
}
