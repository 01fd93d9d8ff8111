/*
Package sqlite provides the SQLite-backed expense store.

PURPOSE:
  Persists the recurring-expense ledger edited by the dashboard and
  serves immutable snapshots of it to the projection engine. This is the
  external collaborator the engine reads through ledger.Source; the
  engine itself never writes here.

ID ASSIGNMENT CONTRACT:
  New expenses get max(existing id, 0) + 1, assigned inside the insert
  transaction. Deleting a non-maximal row never frees its id; only the
  current maximum can be reassigned after a delete.

SCHEMA:
  expenses:
    id              INTEGER PRIMARY KEY
    name            TEXT
    amount          TEXT      -- decimal string, never floating point
    start_month     INTEGER   -- 1-indexed simulation month
    duration_months INTEGER   -- NULL = active indefinitely

  A NULL duration round-trips as a nil DurationMonths; malformed values
  are repaired once, at this boundary, via ledger.NewExpense.

WAL MODE:
  Opened with WAL for better concurrency: readers don't block while the
  dashboard saves an edit. A sync.RWMutex serializes writers on top.

MIGRATION:
  Schema is applied on New() with CREATE TABLE IF NOT EXISTS; opening an
  existing database is a no-op.

USAGE:
  store, err := sqlite.New("./data/clinic.db")
  if err != nil { ... }
  defer store.Close()
  engine := forecast.New(store)

SEE ALSO:
  - ledger/expense.go: The record type and Source interface
  - forecast/simulation.go: The snapshot consumer
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/clinsim/planning-engine/ledger"
)

// ErrExpenseNotFound is returned by Get, Update, and Delete for unknown ids.
var ErrExpenseNotFound = errors.New("expense not found")

// Store persists the expense ledger in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at the given path and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		start_month INTEGER NOT NULL DEFAULT 1,
		duration_months INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_name ON expenses(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEDGER SOURCE
// =============================================================================

// LoadExpenses implements ledger.Source. An empty table yields an empty
// (valid) ledger; only a query failure is an error.
func (s *Store) LoadExpenses(ctx context.Context) ([]ledger.Expense, error) {
	return s.ListExpenses(ctx)
}

// ListExpenses returns every expense, ordered by id.
func (s *Store) ListExpenses(ctx context.Context) ([]ledger.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, amount, start_month, duration_months FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []ledger.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// GetExpense returns one expense, or ErrExpenseNotFound.
func (s *Store) GetExpense(ctx context.Context, id int64) (ledger.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, amount, start_month, duration_months FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Expense{}, ErrExpenseNotFound
	}
	return e, err
}

// =============================================================================
// WRITES (dashboard surface; the engine never calls these)
// =============================================================================

// CreateExpense inserts a new expense, assigning max(id)+1 inside the
// insert transaction, and returns the stored record.
func (s *Store) CreateExpense(ctx context.Context, name string, amount decimal.Decimal, startMonth int, duration *int) (ledger.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ledger.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	defer tx.Rollback()

	var maxID sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(id) FROM expenses`).Scan(&maxID); err != nil {
		return ledger.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	next := maxID.Int64 + 1

	e := ledger.NewExpense(next, name, amount, startMonth, duration)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, name, amount, start_month, duration_months) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Amount.String(), e.StartMonth, nullableInt(e.DurationMonths))
	if err != nil {
		return ledger.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return ledger.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}

// ExpenseUpdate carries the fields to change; nil fields are left alone.
// ClearDuration sets the duration to NULL (infinite) and wins over
// Duration if both are set.
type ExpenseUpdate struct {
	Name          *string
	Amount        *decimal.Decimal
	StartMonth    *int
	Duration      *int
	ClearDuration bool
}

// UpdateExpense applies a partial update to one expense.
func (s *Store) UpdateExpense(ctx context.Context, id int64, upd ExpenseUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sets := []string{}
	args := []any{}
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, upd.Amount.String())
	}
	if upd.StartMonth != nil {
		start := *upd.StartMonth
		if start < 1 {
			start = 1
		}
		sets = append(sets, "start_month = ?")
		args = append(args, start)
	}
	if upd.ClearDuration {
		sets = append(sets, "duration_months = NULL")
	} else if upd.Duration != nil {
		sets = append(sets, "duration_months = ?")
		args = append(args, *upd.Duration)
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE expenses SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense %d: %w", id, err)
	}
	if n == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

// DeleteExpense removes one expense. Ids below the surviving maximum
// stay retired; assignment is max+1 over what remains.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if n == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

// =============================================================================
// SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (ledger.Expense, error) {
	var (
		id       int64
		name     string
		amount   string
		start    int
		duration sql.NullInt64
	)
	if err := row.Scan(&id, &name, &amount, &start, &duration); err != nil {
		return ledger.Expense{}, err
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return ledger.Expense{}, fmt.Errorf("expense %d: malformed amount %q: %w", id, amount, err)
	}

	var dur *int
	if duration.Valid {
		d := int(duration.Int64)
		dur = &d
	}
	// NewExpense repairs malformed start/duration at the boundary.
	return ledger.NewExpense(id, name, value, start, dur), nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
