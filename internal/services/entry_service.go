// Package services holds the application services sitting between the
// HTTP handlers and the stores. The reconciler lives here too: entry
// mutations commit first, then hand the reconciler the before/after
// snapshots it needs to keep the balances consistent.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store"
)

// EntryInput is the caller-supplied part of a new ledger entry.
type EntryInput struct {
	Amount          core.Money
	CategoryID      uuid.UUID
	PaymentMethodID uuid.UUID
	AmountTypeID    uuid.UUID
	Date            time.Time
	Description     string
}

// EntryPatch is a partial update. Nil fields keep the stored value.
type EntryPatch struct {
	Amount          *core.Money
	CategoryID      *uuid.UUID
	PaymentMethodID *uuid.UUID
	AmountTypeID    *uuid.UUID
	Date            *time.Time
	Description     *string
}

// EntryStats aggregates one user's entries of a kind, after filtering.
type EntryStats struct {
	Count           int
	TotalCents      int64
	ByCategory      map[uuid.UUID]int64
	ByPaymentMethod map[uuid.UUID]int64
}

// EntryService manages one ledger entry collection. Expenses and
// savings get one instance each over the same implementation; only the
// kind differs.
type EntryService struct {
	kind       store.EntryKind
	entries    store.EntryStore
	catalogs   store.CatalogStore
	reconciler *Reconciler
}

func NewExpenseService(entries store.EntryStore, catalogs store.CatalogStore, r *Reconciler) *EntryService {
	return &EntryService{kind: store.KindExpense, entries: entries, catalogs: catalogs, reconciler: r}
}

func NewSavingService(entries store.EntryStore, catalogs store.CatalogStore, r *Reconciler) *EntryService {
	return &EntryService{kind: store.KindSaving, entries: entries, catalogs: catalogs, reconciler: r}
}

// Create validates the input against the catalogs, persists the entry
// and then applies it to the balances. Reconciliation failures do not
// roll the entry back.
func (s *EntryService) Create(ctx context.Context, userID uuid.UUID, in EntryInput) (core.LedgerEntry, error) {
	now := time.Now()
	e := core.LedgerEntry{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          in.Amount,
		CategoryID:      in.CategoryID,
		PaymentMethodID: in.PaymentMethodID,
		AmountTypeID:    in.AmountTypeID,
		Date:            in.Date,
		Description:     in.Description,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, invalidErr(err)
	}
	if err := s.checkReferences(ctx, e); err != nil {
		return core.LedgerEntry{}, err
	}

	if err := s.entries.CreateEntry(ctx, s.kind, e); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("create %s: %w", s.kind, err)
	}
	s.reconciler.EntryCreated(ctx, e)
	return e, nil
}

func (s *EntryService) Get(ctx context.Context, userID, id uuid.UUID) (core.LedgerEntry, error) {
	return s.entries.GetEntry(ctx, s.kind, userID, id)
}

func (s *EntryService) List(ctx context.Context, userID uuid.UUID, f store.EntryFilter) ([]core.LedgerEntry, error) {
	return s.entries.ListEntries(ctx, s.kind, userID, f)
}

// Update applies a partial patch. The stored entry is overwritten
// first; the reconciler then reverses the old snapshot and applies the
// new one as two independent adjustments.
func (s *EntryService) Update(ctx context.Context, userID, id uuid.UUID, patch EntryPatch) (core.LedgerEntry, error) {
	old, err := s.entries.GetEntry(ctx, s.kind, userID, id)
	if err != nil {
		return core.LedgerEntry{}, err
	}

	updated := old
	if patch.Amount != nil {
		updated.Amount = *patch.Amount
	}
	if patch.CategoryID != nil {
		updated.CategoryID = *patch.CategoryID
	}
	if patch.PaymentMethodID != nil {
		updated.PaymentMethodID = *patch.PaymentMethodID
	}
	if patch.AmountTypeID != nil {
		updated.AmountTypeID = *patch.AmountTypeID
	}
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	updated.UpdatedAt = time.Now()

	if err := updated.Validate(); err != nil {
		return core.LedgerEntry{}, invalidErr(err)
	}
	if err := s.checkReferences(ctx, updated); err != nil {
		return core.LedgerEntry{}, err
	}

	if err := s.entries.UpdateEntry(ctx, s.kind, updated); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("update %s: %w", s.kind, err)
	}
	s.reconciler.EntryUpdated(ctx, old, updated)
	return updated, nil
}

// Delete reverses the entry's balance contribution first, then removes
// it. The reversal uses the stored snapshot, so it mirrors exactly what
// creation applied.
func (s *EntryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	e, err := s.entries.GetEntry(ctx, s.kind, userID, id)
	if err != nil {
		return err
	}
	s.reconciler.EntryDeleted(ctx, e)
	if err := s.entries.DeleteEntry(ctx, s.kind, userID, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.kind, err)
	}
	return nil
}

// Stats folds the filtered entries into per-category and per-method
// totals.
func (s *EntryService) Stats(ctx context.Context, userID uuid.UUID, f store.EntryFilter) (EntryStats, error) {
	entries, err := s.entries.ListEntries(ctx, s.kind, userID, f)
	if err != nil {
		return EntryStats{}, err
	}
	stats := EntryStats{
		ByCategory:      make(map[uuid.UUID]int64),
		ByPaymentMethod: make(map[uuid.UUID]int64),
	}
	for _, e := range entries {
		stats.Count++
		stats.TotalCents += e.Amount.Cents
		stats.ByCategory[e.CategoryID] += e.Amount.Cents
		stats.ByPaymentMethod[e.PaymentMethodID] += e.Amount.Cents
	}
	return stats, nil
}

// Total sums the user's entries of this kind without any filter.
func (s *EntryService) Total(ctx context.Context, userID uuid.UUID) (int64, error) {
	entries, err := s.entries.ListEntries(ctx, s.kind, userID, store.EntryFilter{})
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		total += e.Amount.Cents
	}
	return total, nil
}

// checkReferences verifies every catalog reference exists and is
// active. Missing or inactive references are caller errors.
func (s *EntryService) checkReferences(ctx context.Context, e core.LedgerEntry) error {
	c, err := s.catalogs.GetCategory(ctx, e.CategoryID)
	if err != nil {
		return refError("category", e.CategoryID, err)
	}
	if c.Status != core.StatusActive {
		return invalid("category %s is inactive", e.CategoryID)
	}

	pm, err := s.catalogs.GetPaymentMethod(ctx, e.PaymentMethodID)
	if err != nil {
		return refError("payment method", e.PaymentMethodID, err)
	}
	if pm.Status != core.StatusActive {
		return invalid("payment method %s is inactive", e.PaymentMethodID)
	}

	at, err := s.catalogs.GetAmountType(ctx, e.AmountTypeID)
	if err != nil {
		return refError("amount type", e.AmountTypeID, err)
	}
	if at.Status != core.StatusActive {
		return invalid("amount type %s is inactive", e.AmountTypeID)
	}
	return nil
}

func refError(what string, id uuid.UUID, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return invalid("%s %s does not exist", what, id)
	}
	return fmt.Errorf("get %s %s: %w", what, id, err)
}
