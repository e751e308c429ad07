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

type entryFixture struct {
	store   *memory.Store
	service *EntryService
	userID  uuid.UUID

	category core.Category
	method   core.PaymentMethod
	debit    core.AmountType
	credit   core.AmountType
}

func newExpenseFixture(t *testing.T) *entryFixture {
	t.Helper()
	s := memory.New()
	r := NewReconciler(s, s, nil)
	f := &entryFixture{
		store:   s,
		service: NewExpenseService(s, s, r),
		userID:  uuid.New(),
	}

	now := time.Now()
	f.category = core.Category{ID: uuid.New(), Name: "Groceries", Status: core.StatusActive, CreatedAt: now, UpdatedAt: now}
	f.method = core.PaymentMethod{ID: uuid.New(), Name: "UPI", Status: core.StatusActive, CreatedAt: now, UpdatedAt: now}
	f.debit = seedAmountType(t, s, "Regular")
	f.credit = seedAmountType(t, s, "Cashback Credit")

	if err := s.CreateCategory(context.Background(), f.category); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if err := s.CreatePaymentMethod(context.Background(), f.method); err != nil {
		t.Fatalf("seed payment method: %v", err)
	}
	return f
}

func (f *entryFixture) input(cents int64) EntryInput {
	return EntryInput{
		Amount:          core.Money{Cents: cents},
		CategoryID:      f.category.ID,
		PaymentMethodID: f.method.ID,
		AmountTypeID:    f.debit.ID,
		Date:            time.Now(),
		Description:     "weekly shop",
	}
}

func TestEntryServiceCreate(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	e, err := f.service.Create(ctx, f.userID, f.input(4500))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if e.ID == uuid.Nil {
		t.Error("Create() did not assign an ID")
	}
	if e.UserID != f.userID {
		t.Errorf("UserID = %v, want %v", e.UserID, f.userID)
	}

	if got := methodCents(t, f.store, f.userID, f.method.ID); got != 4500 {
		t.Errorf("method balance = %d, want 4500", got)
	}
	if got := aggregateCents(t, f.store, f.userID); got != 4500 {
		t.Errorf("aggregate = %d, want 4500", got)
	}
}

func TestEntryServiceCreateValidation(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*EntryInput)
	}{
		{"zero amount", func(in *EntryInput) { in.Amount = core.Money{} }},
		{"negative amount", func(in *EntryInput) { in.Amount = core.Money{Cents: -100} }},
		{"missing category", func(in *EntryInput) { in.CategoryID = uuid.Nil }},
		{"missing method", func(in *EntryInput) { in.PaymentMethodID = uuid.Nil }},
		{"missing amount type", func(in *EntryInput) { in.AmountTypeID = uuid.Nil }},
		{"zero date", func(in *EntryInput) { in.Date = time.Time{} }},
		{"unknown category", func(in *EntryInput) { in.CategoryID = uuid.New() }},
		{"unknown method", func(in *EntryInput) { in.PaymentMethodID = uuid.New() }},
		{"unknown amount type", func(in *EntryInput) { in.AmountTypeID = uuid.New() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input(1000)
			tt.mutate(&in)

			_, err := f.service.Create(ctx, f.userID, in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("Create() error = %v, want ValidationError", err)
			}
		})
	}

	// Failed creates must not move balances.
	if got := aggregateCents(t, f.store, f.userID); got != 0 {
		t.Errorf("aggregate after failed creates = %d, want 0", got)
	}
}

func TestEntryServiceCreateInactiveReference(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	f.category.Status = core.StatusInactive
	if err := f.store.UpdateCategory(ctx, f.category); err != nil {
		t.Fatalf("deactivate category: %v", err)
	}

	_, err := f.service.Create(ctx, f.userID, f.input(1000))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("Create() with inactive category error = %v, want ValidationError", err)
	}
}

func TestEntryServiceUpdate(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	e, err := f.service.Create(ctx, f.userID, f.input(10000))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	other := core.PaymentMethod{ID: uuid.New(), Name: "Credit Card", Status: core.StatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := f.store.CreatePaymentMethod(ctx, other); err != nil {
		t.Fatalf("seed payment method: %v", err)
	}

	amount := core.Money{Cents: 3000}
	updated, err := f.service.Update(ctx, f.userID, e.ID, EntryPatch{
		Amount:          &amount,
		PaymentMethodID: &other.ID,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Amount.Cents != 3000 {
		t.Errorf("Amount = %d, want 3000", updated.Amount.Cents)
	}
	if updated.Description != e.Description {
		t.Errorf("Description changed on partial update: %q", updated.Description)
	}

	if got := methodCents(t, f.store, f.userID, f.method.ID); got != 0 {
		t.Errorf("old method balance = %d, want 0", got)
	}
	if got := methodCents(t, f.store, f.userID, other.ID); got != 3000 {
		t.Errorf("new method balance = %d, want 3000", got)
	}
	if got := aggregateCents(t, f.store, f.userID); got != 3000 {
		t.Errorf("aggregate = %d, want 3000", got)
	}
}

func TestEntryServiceUpdateAmountTypeReclassifies(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	e, err := f.service.Create(ctx, f.userID, f.input(5000))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Switching from a debit type to a credit type flips the sign:
	// reverse removes +5000, apply adds -5000.
	updated, err := f.service.Update(ctx, f.userID, e.ID, EntryPatch{AmountTypeID: &f.credit.ID})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.AmountTypeID != f.credit.ID {
		t.Errorf("AmountTypeID = %v, want %v", updated.AmountTypeID, f.credit.ID)
	}

	if got := methodCents(t, f.store, f.userID, f.method.ID); got != -5000 {
		t.Errorf("method balance = %d, want -5000", got)
	}
	if got := aggregateCents(t, f.store, f.userID); got != -5000 {
		t.Errorf("aggregate = %d, want -5000", got)
	}
}

func TestEntryServiceUpdateNotFound(t *testing.T) {
	f := newExpenseFixture(t)

	_, err := f.service.Update(context.Background(), f.userID, uuid.New(), EntryPatch{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestEntryServiceDelete(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	e, err := f.service.Create(ctx, f.userID, f.input(2500))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.service.Delete(ctx, f.userID, e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := f.service.Get(ctx, f.userID, e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if got := aggregateCents(t, f.store, f.userID); got != 0 {
		t.Errorf("aggregate after delete = %d, want 0", got)
	}
}

func TestEntryServiceDeleteOtherUser(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	e, err := f.service.Create(ctx, f.userID, f.input(2500))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.service.Delete(ctx, uuid.New(), e.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete() as other user error = %v, want ErrNotFound", err)
	}
	if got := aggregateCents(t, f.store, f.userID); got != 2500 {
		t.Errorf("aggregate = %d, want 2500 (untouched)", got)
	}
}

func TestEntryServiceListFilters(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	first := f.input(1000)
	first.Date = jan
	second := f.input(2000)
	second.Date = feb

	if _, err := f.service.Create(ctx, f.userID, first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := f.service.Create(ctx, f.userID, second); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := f.service.List(ctx, f.userID, store.EntryFilter{
		From: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Amount.Cents != 2000 {
		t.Errorf("List(From=Feb) = %v entries, want just the February one", len(got))
	}

	all, err := f.service.List(ctx, f.userID, store.EntryFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(all))
	}
	if !all[0].Date.After(all[1].Date) {
		t.Error("List() not ordered newest first")
	}
}

func TestEntryServiceStats(t *testing.T) {
	f := newExpenseFixture(t)
	ctx := context.Background()

	other := core.Category{ID: uuid.New(), Name: "Transport", Status: core.StatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := f.store.CreateCategory(ctx, other); err != nil {
		t.Fatalf("seed category: %v", err)
	}

	if _, err := f.service.Create(ctx, f.userID, f.input(1000)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := f.service.Create(ctx, f.userID, f.input(500)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	in := f.input(2000)
	in.CategoryID = other.ID
	if _, err := f.service.Create(ctx, f.userID, in); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	stats, err := f.service.Stats(ctx, f.userID, store.EntryFilter{})
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Count != 3 {
		t.Errorf("Count = %d, want 3", stats.Count)
	}
	if stats.TotalCents != 3500 {
		t.Errorf("TotalCents = %d, want 3500", stats.TotalCents)
	}
	if stats.ByCategory[f.category.ID] != 1500 {
		t.Errorf("ByCategory[groceries] = %d, want 1500", stats.ByCategory[f.category.ID])
	}
	if stats.ByCategory[other.ID] != 2000 {
		t.Errorf("ByCategory[transport] = %d, want 2000", stats.ByCategory[other.ID])
	}
}

func TestSavingServiceSharesBalances(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	r := NewReconciler(s, s, nil)
	expenses := NewExpenseService(s, s, r)
	savings := NewSavingService(s, s, r)

	userID := uuid.New()
	now := time.Now()
	cat := core.Category{ID: uuid.New(), Name: "General", Status: core.StatusActive, CreatedAt: now, UpdatedAt: now}
	pm := core.PaymentMethod{ID: uuid.New(), Name: "Bank", Status: core.StatusActive, CreatedAt: now, UpdatedAt: now}
	debit := seedAmountType(t, s, "Standard")
	if err := s.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if err := s.CreatePaymentMethod(ctx, pm); err != nil {
		t.Fatalf("seed payment method: %v", err)
	}

	in := EntryInput{
		Amount:          core.Money{Cents: 1000},
		CategoryID:      cat.ID,
		PaymentMethodID: pm.ID,
		AmountTypeID:    debit.ID,
		Date:            now,
	}
	if _, err := expenses.Create(ctx, userID, in); err != nil {
		t.Fatalf("expense Create() error = %v", err)
	}
	in.Amount = core.Money{Cents: 2000}
	if _, err := savings.Create(ctx, userID, in); err != nil {
		t.Fatalf("saving Create() error = %v", err)
	}

	// Both kinds reconcile against the same balance rows.
	if got := methodCents(t, s, userID, pm.ID); got != 3000 {
		t.Errorf("method balance = %d, want 3000", got)
	}
	if got := aggregateCents(t, s, userID); got != 3000 {
		t.Errorf("aggregate = %d, want 3000", got)
	}

	// The collections themselves stay separate.
	exp, err := expenses.List(ctx, userID, store.EntryFilter{})
	if err != nil {
		t.Fatalf("expense List() error = %v", err)
	}
	sav, err := savings.List(ctx, userID, store.EntryFilter{})
	if err != nil {
		t.Fatalf("saving List() error = %v", err)
	}
	if len(exp) != 1 || len(sav) != 1 {
		t.Errorf("expenses = %d, savings = %d, want 1 and 1", len(exp), len(sav))
	}

	total, err := savings.Total(ctx, userID)
	if err != nil {
		t.Fatalf("Total() error = %v", err)
	}
	if total != 2000 {
		t.Errorf("savings Total() = %d, want 2000", total)
	}
}
