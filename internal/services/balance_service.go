package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store"
)

// BalanceService exposes the reconciler-owned rows plus the manual
// correction paths.
type BalanceService struct {
	balances   store.BalanceStore
	catalogs   store.CatalogStore
	reconciler *Reconciler
}

func NewBalanceService(balances store.BalanceStore, catalogs store.CatalogStore, r *Reconciler) *BalanceService {
	return &BalanceService{balances: balances, catalogs: catalogs, reconciler: r}
}

func (s *BalanceService) MethodBalance(ctx context.Context, userID, paymentMethodID uuid.UUID) (core.MethodBalance, error) {
	if _, err := s.catalogs.GetPaymentMethod(ctx, paymentMethodID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.MethodBalance{}, invalid("payment method %s does not exist", paymentMethodID)
		}
		return core.MethodBalance{}, fmt.Errorf("get payment method %s: %w", paymentMethodID, err)
	}
	return s.balances.GetMethodBalance(ctx, userID, paymentMethodID)
}

func (s *BalanceService) MethodBalances(ctx context.Context, userID uuid.UUID) ([]core.MethodBalance, error) {
	return s.balances.ListMethodBalances(ctx, userID)
}

func (s *BalanceService) AggregateBalance(ctx context.Context, userID uuid.UUID) (core.AggregateBalance, error) {
	return s.balances.GetAggregateBalance(ctx, userID)
}

// SetMethodBalance is the manual correction path: it overwrites one
// method balance row and then re-derives the aggregate from all rows.
func (s *BalanceService) SetMethodBalance(ctx context.Context, userID, paymentMethodID uuid.UUID, cents int64) (core.MethodBalance, error) {
	if _, err := s.catalogs.GetPaymentMethod(ctx, paymentMethodID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.MethodBalance{}, invalid("payment method %s does not exist", paymentMethodID)
		}
		return core.MethodBalance{}, fmt.Errorf("get payment method %s: %w", paymentMethodID, err)
	}
	if err := s.balances.SetMethodBalance(ctx, userID, paymentMethodID, cents); err != nil {
		return core.MethodBalance{}, fmt.Errorf("set method balance: %w", err)
	}
	s.reconciler.RecomputeAggregate(ctx, userID)
	return s.balances.GetMethodBalance(ctx, userID, paymentMethodID)
}

// SetAggregateBalance overwrites the aggregate directly, without
// touching method balances. The next reconciliation will overwrite it
// again from the method rows.
func (s *BalanceService) SetAggregateBalance(ctx context.Context, userID uuid.UUID, cents int64) (core.AggregateBalance, error) {
	if err := s.balances.SetAggregateBalance(ctx, userID, cents); err != nil {
		return core.AggregateBalance{}, fmt.Errorf("set aggregate balance: %w", err)
	}
	return s.balances.GetAggregateBalance(ctx, userID)
}
