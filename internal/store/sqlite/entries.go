package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store"
)

func entryTable(kind store.EntryKind) string {
	if kind == store.KindSaving {
		return "savings"
	}
	return "expenses"
}

const entryColumns = `id, user_id, amount_cents, category_id, payment_method_id, amount_type_id, date, description, created_at, updated_at`

func (s *Store) CreateEntry(ctx context.Context, kind store.EntryKind, e core.LedgerEntry) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entryTable(kind), entryColumns)
	_, err := s.db.ExecContext(ctx, query,
		e.ID.String(), e.UserID.String(), e.Amount.Cents,
		e.CategoryID.String(), e.PaymentMethodID.String(), e.AmountTypeID.String(),
		e.Date, e.Description, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, translateErr(err))
	}
	return nil
}

func (s *Store) GetEntry(ctx context.Context, kind store.EntryKind, userID, id uuid.UUID) (core.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? AND user_id = ?`, entryColumns, entryTable(kind))
	row := s.db.QueryRowContext(ctx, query, id.String(), userID.String())
	e, err := scanEntry(row)
	if err != nil {
		return core.LedgerEntry{}, translateErr(err)
	}
	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, kind store.EntryKind, userID uuid.UUID, f store.EntryFilter) ([]core.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE user_id = ?`, entryColumns, entryTable(kind))
	args := []any{userID.String()}

	if !f.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, f.To)
	}
	if f.CategoryID != uuid.Nil {
		query += ` AND category_id = ?`
		args = append(args, f.CategoryID.String())
	}
	if f.PaymentMethodID != uuid.Nil {
		query += ` AND payment_method_id = ?`
		args = append(args, f.PaymentMethodID.String())
	}
	if f.AmountTypeID != uuid.Nil {
		query += ` AND amount_type_id = ?`
		args = append(args, f.AmountTypeID.String())
	}
	query += ` ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []core.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s row: %w", kind, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateEntry(ctx context.Context, kind store.EntryKind, e core.LedgerEntry) error {
	query := fmt.Sprintf(`UPDATE %s
		SET amount_cents = ?, category_id = ?, payment_method_id = ?, amount_type_id = ?, date = ?, description = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`, entryTable(kind))
	res, err := s.db.ExecContext(ctx, query,
		e.Amount.Cents, e.CategoryID.String(), e.PaymentMethodID.String(), e.AmountTypeID.String(),
		e.Date, e.Description, e.UpdatedAt,
		e.ID.String(), e.UserID.String())
	if err != nil {
		return fmt.Errorf("update %s: %w", kind, translateErr(err))
	}
	return requireAffected(res)
}

func (s *Store) DeleteEntry(ctx context.Context, kind store.EntryKind, userID, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND user_id = ?`, entryTable(kind))
	res, err := s.db.ExecContext(ctx, query, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (core.LedgerEntry, error) {
	var (
		e                                      core.LedgerEntry
		rawID, rawUser, rawCat, rawPM, rawType string
		created, updated                       sql.NullTime
	)
	err := row.Scan(&rawID, &rawUser, &e.Amount.Cents, &rawCat, &rawPM, &rawType,
		&e.Date, &e.Description, &created, &updated)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	ids := []struct {
		dst *uuid.UUID
		raw string
	}{
		{&e.ID, rawID}, {&e.UserID, rawUser}, {&e.CategoryID, rawCat},
		{&e.PaymentMethodID, rawPM}, {&e.AmountTypeID, rawType},
	}
	for _, f := range ids {
		parsed, err := uuid.Parse(f.raw)
		if err != nil {
			return core.LedgerEntry{}, fmt.Errorf("parse entry id column: %w", err)
		}
		*f.dst = parsed
	}
	e.CreatedAt = created.Time
	e.UpdatedAt = updated.Time
	return e, nil
}
