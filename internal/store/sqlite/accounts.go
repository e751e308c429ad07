package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store"
)

func (s *Store) CreateAccount(ctx context.Context, a core.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO accounts (id, user_id, name, description, account_type, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.UserID.String(), a.Name, a.Description, a.AccountType, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	for _, txn := range a.Transactions {
		if err := insertTransaction(ctx, tx, a.ID, txn); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) GetAccount(ctx context.Context, userID, id uuid.UUID) (core.Account, error) {
	a, err := s.getAccountRow(ctx, userID, id)
	if err != nil {
		return core.Account{}, err
	}
	a.Transactions, err = s.loadTransactions(ctx, id)
	if err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context, userID uuid.UUID) ([]core.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, description, account_type, status, created_at, updated_at
		 FROM accounts WHERE user_id = ? AND status = ? ORDER BY updated_at DESC`,
		userID.String(), core.AccountActive)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Transactions, err = s.loadTransactions(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) AddAccountTransaction(ctx context.Context, userID, accountID uuid.UUID, txn core.AccountTransaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := accountOwned(ctx, tx, userID, accountID); err != nil {
		return err
	}
	if err := insertTransaction(ctx, tx, accountID, txn); err != nil {
		return err
	}
	if err := touchAccount(ctx, tx, accountID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) RemoveAccountTransaction(ctx context.Context, userID, accountID, txnID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := accountOwned(ctx, tx, userID, accountID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM account_transactions WHERE id = ? AND account_id = ?`,
		txnID.String(), accountID.String())
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	if err := touchAccount(ctx, tx, accountID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) getAccountRow(ctx context.Context, userID, id uuid.UUID) (core.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, account_type, status, created_at, updated_at
		 FROM accounts WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, store.ErrNotFound
	}
	return a, err
}

func (s *Store) loadTransactions(ctx context.Context, accountID uuid.UUID) ([]core.AccountTransaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount_cents, type, payment_channel, note, date, created_at
		 FROM account_transactions WHERE account_id = ? ORDER BY created_at, id`,
		accountID.String())
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	defer rows.Close()

	var out []core.AccountTransaction
	for rows.Next() {
		var (
			txn     core.AccountTransaction
			rawID   string
			created sql.NullTime
		)
		if err := rows.Scan(&rawID, &txn.Amount.Cents, &txn.Type, &txn.PaymentChannel,
			&txn.Note, &txn.Date, &created); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txn.ID, err = uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse transaction id: %w", err)
		}
		txn.CreatedAt = created.Time
		out = append(out, txn)
	}
	return out, rows.Err()
}

func scanAccount(row rowScanner) (core.Account, error) {
	var (
		a                core.Account
		rawID, rawUser   string
		created, updated sql.NullTime
	)
	err := row.Scan(&rawID, &rawUser, &a.Name, &a.Description, &a.AccountType, &a.Status, &created, &updated)
	if err != nil {
		return core.Account{}, err
	}
	a.ID, err = uuid.Parse(rawID)
	if err != nil {
		return core.Account{}, fmt.Errorf("parse account id: %w", err)
	}
	a.UserID, err = uuid.Parse(rawUser)
	if err != nil {
		return core.Account{}, fmt.Errorf("parse account user id: %w", err)
	}
	a.CreatedAt = created.Time
	a.UpdatedAt = updated.Time
	return a, nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, accountID uuid.UUID, txn core.AccountTransaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO account_transactions (id, account_id, amount_cents, type, payment_channel, note, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID.String(), accountID.String(), txn.Amount.Cents, txn.Type, txn.PaymentChannel, txn.Note, txn.Date, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func accountOwned(ctx context.Context, tx *sql.Tx, userID, accountID uuid.UUID) error {
	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE id = ? AND user_id = ?`,
		accountID.String(), userID.String()).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check account ownership: %w", err)
	}
	return nil
}

func touchAccount(ctx context.Context, tx *sql.Tx, accountID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET updated_at = ? WHERE id = ?`,
		time.Now(), accountID.String()); err != nil {
		return fmt.Errorf("touch account: %w", err)
	}
	return nil
}
