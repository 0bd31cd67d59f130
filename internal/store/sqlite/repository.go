// Package sqlite persists transactions and budgets with modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/store"
)

// Repository implements store.Store on a single SQLite file.
type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

var _ store.Store = (*Repository)(nil)

// Open creates the database directory if needed, applies migrations and
// returns a ready repository.
func Open(dbPath string, logger *log.Logger) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{db: db, logger: logger.WithComponent(log.ComponentStorage)}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database answers.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const selectTransaction = `SELECT id, account_id, amount, category, description, occurred_at, type FROM transactions`

func (r *Repository) ListTransactions(ctx context.Context, accountID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransaction+` WHERE account_id = ? ORDER BY rowid`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransaction+` WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	return tx, err
}

func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	if tx.ID == "" {
		return fmt.Errorf("create transaction: empty id")
	}
	if err := tx.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, amount, category, description, occurred_at, type)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.AccountID, tx.Amount.String(), tx.Category, tx.Description,
		tx.Date.Format(time.RFC3339Nano), string(tx.Type))
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("transaction %s: %w", tx.ID, store.ErrDuplicate)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}

	r.logger.DebugContext(ctx, "Transaction saved",
		log.NewFields().WithTransaction(tx.ID, tx.AccountID, string(tx.Type), tx.Category, tx.Amount.StringFixed(2)).ToSlice()...)
	return nil
}

func (r *Repository) ListBudgets(ctx context.Context, accountID string) ([]core.BudgetDefinition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount, period FROM budgets WHERE account_id = ? ORDER BY rowid`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := make([]core.BudgetDefinition, 0)
	for rows.Next() {
		var (
			b      core.BudgetDefinition
			amount string
			period string
		)
		if err := rows.Scan(&b.ID, &b.Category, &amount, &period); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("budget %s: parse amount %q: %w", b.ID, amount, err)
		}
		b.Period = core.BudgetPeriod(period)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

func (r *Repository) UpsertBudget(ctx context.Context, accountID string, def core.BudgetDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, account_id, category, amount, period) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (account_id, category) DO UPDATE SET id = excluded.id, amount = excluded.amount, period = excluded.period`,
		def.ID, accountID, def.Category, def.Amount.String(), string(def.Period))
	if err != nil {
		return fmt.Errorf("upsert budget %s: %w", def.Category, err)
	}
	return nil
}

func (r *Repository) MarkExported(ctx context.Context, id, ref string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET exported_ref = ?, exported_at = ? WHERE id = ?`,
		ref, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("mark transaction exported: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	r.logger.InfoContext(ctx, "Transaction marked as exported", log.FieldTransaction, id, log.FieldExportRef, ref)
	return nil
}

// ExportRef returns the reference recorded by MarkExported, if any.
func (r *Repository) ExportRef(ctx context.Context, id string) (string, bool, error) {
	var ref sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT exported_ref FROM transactions WHERE id = ?`, id).Scan(&ref)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return "", false, fmt.Errorf("read export ref: %w", err)
	}
	return ref.String, ref.Valid, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		tx         core.Transaction
		amount     string
		occurredAt string
		typ        string
	)
	if err := s.Scan(&tx.ID, &tx.AccountID, &amount, &tx.Category, &tx.Description, &occurredAt, &typ); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tx, err
		}
		return tx, fmt.Errorf("scan transaction: %w", err)
	}

	var err error
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return tx, fmt.Errorf("transaction %s: parse amount %q: %w", tx.ID, amount, err)
	}
	// Dates keep the offset they were written with, so the calendar day
	// read back is the day the caller stored.
	if tx.Date, err = time.Parse(time.RFC3339Nano, occurredAt); err != nil {
		return tx, fmt.Errorf("transaction %s: parse date %q: %w", tx.ID, occurredAt, err)
	}
	tx.Type = core.TransactionType(typ)
	return tx, nil
}

func isConstraint(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
