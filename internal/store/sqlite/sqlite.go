// Package sqlite is the durable store backend, database/sql over
// modernc.org/sqlite with embedded golang-migrate migrations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping backs the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// translateErr maps driver errors onto the store sentinels.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrDuplicateName
	}
	return err
}

// The three catalog tables share one shape; the helpers below are
// parameterized by table name (always a compile-time constant).

type catalogRow struct {
	ID        uuid.UUID
	Name      string
	Status    core.Status
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
}

func (s *Store) insertCatalog(ctx context.Context, table string, id uuid.UUID, name string, status core.Status, createdAt, updatedAt time.Time) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`, table)
	_, err := s.db.ExecContext(ctx, query, id.String(), name, status, createdAt, updatedAt)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, translateErr(err))
	}
	return nil
}

func (s *Store) getCatalog(ctx context.Context, table string, id uuid.UUID) (catalogRow, error) {
	query := fmt.Sprintf(`SELECT id, name, status, created_at, updated_at FROM %s WHERE id = ?`, table)
	var (
		row   catalogRow
		rawID string
	)
	err := s.db.QueryRowContext(ctx, query, id.String()).
		Scan(&rawID, &row.Name, &row.Status, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return catalogRow{}, translateErr(err)
	}
	row.ID, err = uuid.Parse(rawID)
	if err != nil {
		return catalogRow{}, fmt.Errorf("parse %s id: %w", table, err)
	}
	return row, nil
}

func (s *Store) listCatalog(ctx context.Context, table string) ([]catalogRow, error) {
	query := fmt.Sprintf(`SELECT id, name, status, created_at, updated_at FROM %s ORDER BY name`, table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var out []catalogRow
	for rows.Next() {
		var (
			row   catalogRow
			rawID string
		)
		if err := rows.Scan(&rawID, &row.Name, &row.Status, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		row.ID, err = uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse %s id: %w", table, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) updateCatalog(ctx context.Context, table string, id uuid.UUID, name string, status core.Status, updatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET name = ?, status = ?, updated_at = ? WHERE id = ?`, table)
	res, err := s.db.ExecContext(ctx, query, name, status, updatedAt, id.String())
	if err != nil {
		return fmt.Errorf("update %s: %w", table, translateErr(err))
	}
	return requireAffected(res)
}

func (s *Store) deleteCatalog(ctx context.Context, table string, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table)
	res, err := s.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- categories ---

func (s *Store) CreateCategory(ctx context.Context, c core.Category) error {
	return s.insertCatalog(ctx, "categories", c.ID, c.Name, c.Status, c.CreatedAt, c.UpdatedAt)
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (core.Category, error) {
	row, err := s.getCatalog(ctx, "categories", id)
	if err != nil {
		return core.Category{}, err
	}
	return core.Category{ID: row.ID, Name: row.Name, Status: row.Status,
		CreatedAt: row.CreatedAt.Time, UpdatedAt: row.UpdatedAt.Time}, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := s.listCatalog(ctx, "categories")
	if err != nil {
		return nil, err
	}
	out := make([]core.Category, len(rows))
	for i, row := range rows {
		out[i] = core.Category{ID: row.ID, Name: row.Name, Status: row.Status,
			CreatedAt: row.CreatedAt.Time, UpdatedAt: row.UpdatedAt.Time}
	}
	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c core.Category) error {
	return s.updateCatalog(ctx, "categories", c.ID, c.Name, c.Status, c.UpdatedAt)
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.deleteCatalog(ctx, "categories", id)
}

// --- payment methods ---

func (s *Store) CreatePaymentMethod(ctx context.Context, pm core.PaymentMethod) error {
	return s.insertCatalog(ctx, "payment_methods", pm.ID, pm.Name, pm.Status, pm.CreatedAt, pm.UpdatedAt)
}

func (s *Store) GetPaymentMethod(ctx context.Context, id uuid.UUID) (core.PaymentMethod, error) {
	row, err := s.getCatalog(ctx, "payment_methods", id)
	if err != nil {
		return core.PaymentMethod{}, err
	}
	return core.PaymentMethod{ID: row.ID, Name: row.Name, Status: row.Status,
		CreatedAt: row.CreatedAt.Time, UpdatedAt: row.UpdatedAt.Time}, nil
}

func (s *Store) ListPaymentMethods(ctx context.Context) ([]core.PaymentMethod, error) {
	rows, err := s.listCatalog(ctx, "payment_methods")
	if err != nil {
		return nil, err
	}
	out := make([]core.PaymentMethod, len(rows))
	for i, row := range rows {
		out[i] = core.PaymentMethod{ID: row.ID, Name: row.Name, Status: row.Status,
			CreatedAt: row.CreatedAt.Time, UpdatedAt: row.UpdatedAt.Time}
	}
	return out, nil
}

func (s *Store) UpdatePaymentMethod(ctx context.Context, pm core.PaymentMethod) error {
	return s.updateCatalog(ctx, "payment_methods", pm.ID, pm.Name, pm.Status, pm.UpdatedAt)
}

func (s *Store) DeletePaymentMethod(ctx context.Context, id uuid.UUID) error {
	return s.deleteCatalog(ctx, "payment_methods", id)
}

// --- amount types ---

func (s *Store) CreateAmountType(ctx context.Context, at core.AmountType) error {
	return s.insertCatalog(ctx, "amount_types", at.ID, at.Name, at.Status, at.CreatedAt, at.UpdatedAt)
}

func (s *Store) GetAmountType(ctx context.Context, id uuid.UUID) (core.AmountType, error) {
	row, err := s.getCatalog(ctx, "amount_types", id)
	if err != nil {
		return core.AmountType{}, err
	}
	return core.AmountType{ID: row.ID, Name: row.Name, Status: row.Status,
		CreatedAt: row.CreatedAt.Time, UpdatedAt: row.UpdatedAt.Time}, nil
}

func (s *Store) ListAmountTypes(ctx context.Context) ([]core.AmountType, error) {
	rows, err := s.listCatalog(ctx, "amount_types")
	if err != nil {
		return nil, err
	}
	out := make([]core.AmountType, len(rows))
	for i, row := range rows {
		out[i] = core.AmountType{ID: row.ID, Name: row.Name, Status: row.Status,
			CreatedAt: row.CreatedAt.Time, UpdatedAt: row.UpdatedAt.Time}
	}
	return out, nil
}

func (s *Store) UpdateAmountType(ctx context.Context, at core.AmountType) error {
	return s.updateCatalog(ctx, "amount_types", at.ID, at.Name, at.Status, at.UpdatedAt)
}

func (s *Store) DeleteAmountType(ctx context.Context, id uuid.UUID) error {
	return s.deleteCatalog(ctx, "amount_types", id)
}
