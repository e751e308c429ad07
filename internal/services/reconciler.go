package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store"
)

// EventPublisher receives a best-effort notification after each
// aggregate balance recompute. A nil publisher disables events.
type EventPublisher interface {
	PublishBalanceUpdated(ctx context.Context, userID string, balanceCents int64) error
}

// Reconciler keeps the per-method balances and the aggregate balance
// consistent with the ledger of expenses and savings. It is the only
// writer of those rows apart from the manual-override set paths.
//
// Every entry point ends with a wholesale recompute of the aggregate:
// the sum of all existing method balance rows overwrites the stored
// value, never an incremental add. Reconciliation sequences for one
// user are serialized by a per-user mutex so two concurrent mutations
// cannot interleave their read-modify-write cycles.
//
// Errors inside reconciliation are contained here: the entry mutation
// that triggered it has already committed, so failures are logged and
// swallowed rather than surfaced to the caller.
type Reconciler struct {
	balances store.BalanceStore
	types    store.AmountTypeResolver
	events   EventPublisher

	mu    sync.Mutex
	users map[uuid.UUID]*sync.Mutex
}

func NewReconciler(balances store.BalanceStore, types store.AmountTypeResolver, events EventPublisher) *Reconciler {
	return &Reconciler{
		balances: balances,
		types:    types,
		events:   events,
		users:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// EntryCreated applies a freshly persisted ledger entry: +amount for
// debit-classified entries, -amount for credit-classified ones.
func (r *Reconciler) EntryCreated(ctx context.Context, e core.LedgerEntry) {
	lock := r.userLock(e.UserID)
	lock.Lock()
	defer lock.Unlock()
	r.adjust(ctx, e, false)
}

// EntryDeleted reverses an entry using its stored amount, payment
// method and amount type: the exact negation of EntryCreated.
func (r *Reconciler) EntryDeleted(ctx context.Context, e core.LedgerEntry) {
	lock := r.userLock(e.UserID)
	lock.Lock()
	defer lock.Unlock()
	r.adjust(ctx, e, true)
}

// EntryUpdated reverses the pre-mutation snapshot and applies the new
// state as two independent adjustments, even when the payment method is
// unchanged or only unrelated fields moved.
func (r *Reconciler) EntryUpdated(ctx context.Context, old, updated core.LedgerEntry) {
	lock := r.userLock(old.UserID)
	lock.Lock()
	defer lock.Unlock()
	r.adjust(ctx, old, true)
	r.adjust(ctx, updated, false)
}

// RecomputeAggregate re-derives the aggregate balance from the method
// balance rows. The manual method-balance override path calls this
// after writing.
func (r *Reconciler) RecomputeAggregate(ctx context.Context, userID uuid.UUID) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	r.recomputeAggregate(ctx, userID)
}

// adjust applies (or reverses) one entry's contribution to its payment
// method balance and recomputes the aggregate. When the amount type no
// longer resolves the whole adjustment is skipped: the entry mutation
// stays committed and the balance is left untouched.
func (r *Reconciler) adjust(ctx context.Context, e core.LedgerEntry, reverse bool) {
	at, err := r.types.GetAmountType(ctx, e.AmountTypeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "Amount type missing, skipping balance adjustment",
				"user_id", e.UserID,
				"amount_type_id", e.AmountTypeID,
				"entry_id", e.ID)
			return
		}
		slog.ErrorContext(ctx, "Amount type lookup failed during reconciliation",
			"user_id", e.UserID, "amount_type_id", e.AmountTypeID, "error", err)
		return
	}

	delta := e.SignedCents(at.Classify())
	if reverse {
		delta = -delta
	}

	if err := r.balances.AdjustMethodBalance(ctx, e.UserID, e.PaymentMethodID, delta); err != nil {
		slog.ErrorContext(ctx, "Method balance adjustment failed",
			"user_id", e.UserID,
			"payment_method_id", e.PaymentMethodID,
			"delta_cents", delta,
			"error", err)
		return
	}

	r.recomputeAggregate(ctx, e.UserID)
}

func (r *Reconciler) recomputeAggregate(ctx context.Context, userID uuid.UUID) {
	rows, err := r.balances.ListMethodBalances(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Listing method balances failed", "user_id", userID, "error", err)
		return
	}

	var total int64
	for _, mb := range rows {
		total += mb.Cents
	}

	if err := r.balances.SetAggregateBalance(ctx, userID, total); err != nil {
		slog.ErrorContext(ctx, "Aggregate balance write failed",
			"user_id", userID, "total_cents", total, "error", err)
		return
	}

	if r.events != nil {
		if err := r.events.PublishBalanceUpdated(ctx, userID.String(), total); err != nil {
			slog.WarnContext(ctx, "Balance event publish failed", "user_id", userID, "error", err)
		}
	}
}

func (r *Reconciler) userLock(userID uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.users[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.users[userID] = lock
	}
	return lock
}
