package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
)

func (s *Store) GetMethodBalance(ctx context.Context, userID, paymentMethodID uuid.UUID) (core.MethodBalance, error) {
	var (
		cents   int64
		updated sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT balance_cents, updated_at FROM payment_method_balances WHERE user_id = ? AND payment_method_id = ?`,
		userID.String(), paymentMethodID.String()).Scan(&cents, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		// Synthesized zero row; nothing is persisted on read.
		return core.MethodBalance{UserID: userID, PaymentMethodID: paymentMethodID}, nil
	}
	if err != nil {
		return core.MethodBalance{}, fmt.Errorf("get method balance: %w", err)
	}
	return core.MethodBalance{
		UserID:          userID,
		PaymentMethodID: paymentMethodID,
		Cents:           cents,
		UpdatedAt:       updated.Time,
	}, nil
}

func (s *Store) ListMethodBalances(ctx context.Context, userID uuid.UUID) ([]core.MethodBalance, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payment_method_id, balance_cents, updated_at FROM payment_method_balances WHERE user_id = ? ORDER BY payment_method_id`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("list method balances: %w", err)
	}
	defer rows.Close()

	var out []core.MethodBalance
	for rows.Next() {
		var (
			rawPM   string
			cents   int64
			updated sql.NullTime
		)
		if err := rows.Scan(&rawPM, &cents, &updated); err != nil {
			return nil, fmt.Errorf("scan method balance row: %w", err)
		}
		pmID, err := uuid.Parse(rawPM)
		if err != nil {
			return nil, fmt.Errorf("parse payment method id: %w", err)
		}
		out = append(out, core.MethodBalance{
			UserID:          userID,
			PaymentMethodID: pmID,
			Cents:           cents,
			UpdatedAt:       updated.Time,
		})
	}
	return out, rows.Err()
}

func (s *Store) AdjustMethodBalance(ctx context.Context, userID, paymentMethodID uuid.UUID, deltaCents int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_method_balances (user_id, payment_method_id, balance_cents, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, payment_method_id)
		 DO UPDATE SET balance_cents = balance_cents + excluded.balance_cents, updated_at = excluded.updated_at`,
		userID.String(), paymentMethodID.String(), deltaCents, time.Now())
	if err != nil {
		return fmt.Errorf("adjust method balance: %w", err)
	}
	return nil
}

func (s *Store) SetMethodBalance(ctx context.Context, userID, paymentMethodID uuid.UUID, cents int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payment_method_balances (user_id, payment_method_id, balance_cents, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, payment_method_id)
		 DO UPDATE SET balance_cents = excluded.balance_cents, updated_at = excluded.updated_at`,
		userID.String(), paymentMethodID.String(), cents, time.Now())
	if err != nil {
		return fmt.Errorf("set method balance: %w", err)
	}
	return nil
}

func (s *Store) GetAggregateBalance(ctx context.Context, userID uuid.UUID) (core.AggregateBalance, error) {
	var (
		cents   int64
		updated sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT balance_cents, updated_at FROM balances WHERE user_id = ?`,
		userID.String()).Scan(&cents, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		// First read creates the row at zero.
		now := time.Now()
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO balances (user_id, balance_cents, updated_at) VALUES (?, 0, ?)`,
			userID.String(), now); err != nil {
			return core.AggregateBalance{}, fmt.Errorf("create balance row: %w", err)
		}
		return core.AggregateBalance{UserID: userID, UpdatedAt: now}, nil
	}
	if err != nil {
		return core.AggregateBalance{}, fmt.Errorf("get balance: %w", err)
	}
	return core.AggregateBalance{UserID: userID, Cents: cents, UpdatedAt: updated.Time}, nil
}

func (s *Store) SetAggregateBalance(ctx context.Context, userID uuid.UUID, cents int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO balances (user_id, balance_cents, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(user_id)
		 DO UPDATE SET balance_cents = excluded.balance_cents, updated_at = excluded.updated_at`,
		userID.String(), cents, time.Now())
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}
