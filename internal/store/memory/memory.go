// Package memory is the in-memory store backend. It backs the default
// configuration and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store"
)

type balanceKey struct {
	userID          uuid.UUID
	paymentMethodID uuid.UUID
}

type Store struct {
	mu sync.Mutex

	categories  map[uuid.UUID]core.Category
	methods     map[uuid.UUID]core.PaymentMethod
	amountTypes map[uuid.UUID]core.AmountType

	entries map[store.EntryKind]map[uuid.UUID]core.LedgerEntry

	methodBalances map[balanceKey]core.MethodBalance
	aggregates     map[uuid.UUID]core.AggregateBalance

	accounts map[uuid.UUID]core.Account
	snake    map[uuid.UUID]core.SnakeScores
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		categories:  make(map[uuid.UUID]core.Category),
		methods:     make(map[uuid.UUID]core.PaymentMethod),
		amountTypes: make(map[uuid.UUID]core.AmountType),
		entries: map[store.EntryKind]map[uuid.UUID]core.LedgerEntry{
			store.KindExpense: make(map[uuid.UUID]core.LedgerEntry),
			store.KindSaving:  make(map[uuid.UUID]core.LedgerEntry),
		},
		methodBalances: make(map[balanceKey]core.MethodBalance),
		aggregates:     make(map[uuid.UUID]core.AggregateBalance),
		accounts:       make(map[uuid.UUID]core.Account),
		snake:          make(map[uuid.UUID]core.SnakeScores),
	}
}

func (s *Store) Close() error { return nil }

// --- catalogs ---

func (s *Store) CreateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if sameName(existing.Name, c.Name) {
			return store.ErrDuplicateName
		}
	}
	s.categories[c.ID] = c
	return nil
}

func (s *Store) GetCategory(_ context.Context, id uuid.UUID) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; !ok {
		return store.ErrNotFound
	}
	for id, existing := range s.categories {
		if id != c.ID && sameName(existing.Name, c.Name) {
			return store.ErrDuplicateName
		}
	}
	s.categories[c.ID] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) CreatePaymentMethod(_ context.Context, pm core.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.methods {
		if sameName(existing.Name, pm.Name) {
			return store.ErrDuplicateName
		}
	}
	s.methods[pm.ID] = pm
	return nil
}

func (s *Store) GetPaymentMethod(_ context.Context, id uuid.UUID) (core.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pm, ok := s.methods[id]
	if !ok {
		return core.PaymentMethod{}, store.ErrNotFound
	}
	return pm, nil
}

func (s *Store) ListPaymentMethods(_ context.Context) ([]core.PaymentMethod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.PaymentMethod, 0, len(s.methods))
	for _, pm := range s.methods {
		out = append(out, pm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdatePaymentMethod(_ context.Context, pm core.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.methods[pm.ID]; !ok {
		return store.ErrNotFound
	}
	for id, existing := range s.methods {
		if id != pm.ID && sameName(existing.Name, pm.Name) {
			return store.ErrDuplicateName
		}
	}
	s.methods[pm.ID] = pm
	return nil
}

func (s *Store) DeletePaymentMethod(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.methods[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.methods, id)
	return nil
}

func (s *Store) CreateAmountType(_ context.Context, at core.AmountType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.amountTypes {
		if sameName(existing.Name, at.Name) {
			return store.ErrDuplicateName
		}
	}
	s.amountTypes[at.ID] = at
	return nil
}

func (s *Store) GetAmountType(_ context.Context, id uuid.UUID) (core.AmountType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.amountTypes[id]
	if !ok {
		return core.AmountType{}, store.ErrNotFound
	}
	return at, nil
}

func (s *Store) ListAmountTypes(_ context.Context) ([]core.AmountType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.AmountType, 0, len(s.amountTypes))
	for _, at := range s.amountTypes {
		out = append(out, at)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateAmountType(_ context.Context, at core.AmountType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.amountTypes[at.ID]; !ok {
		return store.ErrNotFound
	}
	for id, existing := range s.amountTypes {
		if id != at.ID && sameName(existing.Name, at.Name) {
			return store.ErrDuplicateName
		}
	}
	s.amountTypes[at.ID] = at
	return nil
}

func (s *Store) DeleteAmountType(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.amountTypes[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.amountTypes, id)
	return nil
}

// --- ledger entries ---

func (s *Store) CreateEntry(_ context.Context, kind store.EntryKind, e core.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[kind][e.ID] = e
	return nil
}

func (s *Store) GetEntry(_ context.Context, kind store.EntryKind, userID, id uuid.UUID) (core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[kind][id]
	if !ok || e.UserID != userID {
		return core.LedgerEntry{}, store.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListEntries(_ context.Context, kind store.EntryKind, userID uuid.UUID, f store.EntryFilter) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.LedgerEntry
	for _, e := range s.entries[kind] {
		if e.UserID != userID {
			continue
		}
		if !f.From.IsZero() && e.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Date.After(f.To) {
			continue
		}
		if f.CategoryID != uuid.Nil && e.CategoryID != f.CategoryID {
			continue
		}
		if f.PaymentMethodID != uuid.Nil && e.PaymentMethodID != f.PaymentMethodID {
			continue
		}
		if f.AmountTypeID != uuid.Nil && e.AmountTypeID != f.AmountTypeID {
			continue
		}
		out = append(out, e)
	}
	// Newest first, matching the SQLite ordering.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateEntry(_ context.Context, kind store.EntryKind, e core.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.entries[kind][e.ID]
	if !ok || existing.UserID != e.UserID {
		return store.ErrNotFound
	}
	s.entries[kind][e.ID] = e
	return nil
}

func (s *Store) DeleteEntry(_ context.Context, kind store.EntryKind, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[kind][id]
	if !ok || e.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.entries[kind], id)
	return nil
}

// --- balances ---

func (s *Store) GetMethodBalance(_ context.Context, userID, paymentMethodID uuid.UUID) (core.MethodBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mb, ok := s.methodBalances[balanceKey{userID, paymentMethodID}]; ok {
		return mb, nil
	}
	// Synthesized, not persisted.
	return core.MethodBalance{UserID: userID, PaymentMethodID: paymentMethodID}, nil
}

func (s *Store) ListMethodBalances(_ context.Context, userID uuid.UUID) ([]core.MethodBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.MethodBalance
	for _, mb := range s.methodBalances {
		if mb.UserID == userID {
			out = append(out, mb)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PaymentMethodID.String() < out[j].PaymentMethodID.String()
	})
	return out, nil
}

func (s *Store) AdjustMethodBalance(_ context.Context, userID, paymentMethodID uuid.UUID, deltaCents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := balanceKey{userID, paymentMethodID}
	mb, ok := s.methodBalances[key]
	if !ok {
		mb = core.MethodBalance{UserID: userID, PaymentMethodID: paymentMethodID}
	}
	mb.Cents += deltaCents
	mb.UpdatedAt = time.Now()
	s.methodBalances[key] = mb
	return nil
}

func (s *Store) SetMethodBalance(_ context.Context, userID, paymentMethodID uuid.UUID, cents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.methodBalances[balanceKey{userID, paymentMethodID}] = core.MethodBalance{
		UserID:          userID,
		PaymentMethodID: paymentMethodID,
		Cents:           cents,
		UpdatedAt:       time.Now(),
	}
	return nil
}

func (s *Store) GetAggregateBalance(_ context.Context, userID uuid.UUID) (core.AggregateBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.aggregates[userID]; ok {
		return b, nil
	}
	b := core.AggregateBalance{UserID: userID, UpdatedAt: time.Now()}
	s.aggregates[userID] = b
	return b, nil
}

func (s *Store) SetAggregateBalance(_ context.Context, userID uuid.UUID, cents int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aggregates[userID] = core.AggregateBalance{UserID: userID, Cents: cents, UpdatedAt: time.Now()}
	return nil
}

// --- accounts ---

func (s *Store) CreateAccount(_ context.Context, a core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (s *Store) GetAccount(_ context.Context, userID, id uuid.UUID) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.UserID != userID {
		return core.Account{}, store.ErrNotFound
	}
	return cloneAccount(a), nil
}

func (s *Store) ListAccounts(_ context.Context, userID uuid.UUID) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Account
	for _, a := range s.accounts {
		if a.UserID == userID && a.Status == core.AccountActive {
			out = append(out, cloneAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *Store) AddAccountTransaction(_ context.Context, userID, accountID uuid.UUID, txn core.AccountTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok || a.UserID != userID {
		return store.ErrNotFound
	}
	a.Transactions = append(a.Transactions, txn)
	a.UpdatedAt = time.Now()
	s.accounts[accountID] = a
	return nil
}

func (s *Store) RemoveAccountTransaction(_ context.Context, userID, accountID, txnID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok || a.UserID != userID {
		return store.ErrNotFound
	}
	for i, txn := range a.Transactions {
		if txn.ID == txnID {
			a.Transactions = append(a.Transactions[:i], a.Transactions[i+1:]...)
			a.UpdatedAt = time.Now()
			s.accounts[accountID] = a
			return nil
		}
	}
	return store.ErrNotFound
}

// --- games ---

func (s *Store) GetSnakeScores(_ context.Context, userID uuid.UUID) (core.SnakeScores, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.snake[userID]; ok {
		return cloneScores(sc), nil
	}
	return core.NewSnakeScores(userID), nil
}

func (s *Store) UpsertSnakeScore(_ context.Context, userID uuid.UUID, difficulty core.Difficulty, score int64, playedAt time.Time) (core.SnakeScores, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.snake[userID]
	if !ok {
		sc = core.NewSnakeScores(userID)
	}
	if score > sc.Scores[difficulty] {
		sc.Scores[difficulty] = score
	}
	sc.LastPlayed = playedAt
	s.snake[userID] = sc
	return cloneScores(sc), nil
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func cloneAccount(a core.Account) core.Account {
	out := a
	out.Transactions = append([]core.AccountTransaction(nil), a.Transactions...)
	return out
}

func cloneScores(sc core.SnakeScores) core.SnakeScores {
	out := sc
	out.Scores = make(map[core.Difficulty]int64, len(sc.Scores))
	for d, v := range sc.Scores {
		out.Scores[d] = v
	}
	return out
}
