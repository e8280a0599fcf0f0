package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/spent/internal/ledger"
	"github.com/theirongolddev/spent/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite stores a ledger snapshot in a SQLite database.
// Each Save replaces the snapshot in one transaction.
type SQLite struct {
	path   string
	policy LoadPolicy
}

// NewSQLite returns a SQLite backend for the database at path.
func NewSQLite(path string, policy LoadPolicy) *SQLite {
	return &SQLite{path: path, policy: policy}
}

// Location returns the database path.
func (s *SQLite) Location() string {
	return s.path
}

func (s *SQLite) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, &IOError{Op: "open", Path: s.path, Err: err}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, &IOError{Op: "create schema", Path: s.path, Err: err}
	}
	return db, nil
}

// Load reads the snapshot. A missing database is an empty ledger.
func (s *SQLite) Load(ctx context.Context) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &LoadResult{Ledger: ledger.New(), Missing: true}, nil
		}
		return nil, &IOError{Op: "stat", Path: s.path, Err: err}
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rs := newRestorer(s.policy)

	var budgetStr string
	err = db.QueryRowContext(ctx, "SELECT monthly_budget FROM budget WHERE id = 1").Scan(&budgetStr)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, &IOError{Op: "read budget", Path: s.path, Err: err}
	default:
		budget, perr := parseStoredBudget(budgetStr)
		if perr != nil {
			rs.fail(0, perr)
			res := rs.result()
			return res, res.Err()
		}
		if budget.IsPositive() {
			_ = rs.ledger.SetBudget(budget)
		}
	}

	rows, err := db.QueryContext(ctx, "SELECT seq, date, category, amount, description FROM expenses ORDER BY seq")
	if err != nil {
		return nil, &IOError{Op: "read expenses", Path: s.path, Err: err}
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var seq int
		var date, category, amount, description string
		if err := rows.Scan(&seq, &date, &category, &amount, &description); err != nil {
			return nil, &IOError{Op: "scan expense", Path: s.path, Err: err}
		}
		if !rs.add(seq, date, category, amount, description) {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "read expenses", Path: s.path, Err: err}
	}

	res := rs.result()
	return res, res.Err()
}

// Save replaces the stored snapshot with l.
func (s *SQLite) Save(ctx context.Context, l *ledger.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &IOError{Op: "create dir", Path: dir, Err: err}
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := s.writeSnapshot(ctx, db, l); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLite) writeSnapshot(ctx context.Context, db *sql.DB, l *ledger.Ledger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO budget (id, monthly_budget, saved_at)
		VALUES (1, ?, ?)`, model.FormatAmount(l.Budget()), now)
	if err != nil {
		return fmt.Errorf("saving budget: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expenses"); err != nil {
		return fmt.Errorf("clearing expenses: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO expenses (seq, date, category, amount, description)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, e := range l.Records() {
		_, err := stmt.ExecContext(ctx, i+1, e.Date, e.Category, model.FormatAmount(e.Amount), e.Description)
		if err != nil {
			return fmt.Errorf("saving expense %d: %w", i+1, err)
		}
	}

	return tx.Commit()
}
