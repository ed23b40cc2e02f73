package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Store struct {
	db       *sql.DB
	postgres bool
}

// New wraps db for the given driver. Queries are written with ? placeholders
// and rebound for Postgres.
func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, postgres: driver == config.DriverPostgres}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `id, date, description, type, amount, category, created_at`

// Expected column order matches selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx              transaction.Transaction
		typeStr, catStr string
		date, createdAt dbTime
	)

	if err := s.Scan(&tx.ID, &date, &tx.Description, &typeStr, &tx.Amount, &catStr, &createdAt); err != nil {
		return nil, err
	}

	tx.Date = date.Time
	tx.Type = transaction.Type(typeStr)
	tx.Category = categoryOf(catStr)
	tx.CreatedAt = createdAt.Time

	return &tx, nil
}

func categoryOf(s string) category.Category {
	c, ok := category.Parse(s)
	if !ok {
		return category.Default
	}

	return c
}

const insertTransaction = `
	INSERT INTO transactions (date, description, type, amount, category, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id
`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) insert(ctx context.Context, q queryRower, tx *transaction.Transaction) error {
	return q.QueryRowContext(ctx, s.rebind(insertTransaction),
		tx.Date.Format(time.DateOnly),
		tx.Description,
		string(tx.Type),
		tx.Amount.StringFixed(2),
		string(tx.Category),
		tx.CreatedAt.UTC(),
	).Scan(&tx.ID)
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	if err := s.insert(ctx, s.db, tx); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

// CreateTransactions inserts all rows in one database transaction.
func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	now := time.Now().UTC()

	for _, tx := range txs {
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = now
		}

		if err := s.insert(ctx, dbTx, tx); err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = ?`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, s.rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE 1 = 1`

	var args []any

	if filter.Type != nil {
		query += " AND type = ?"

		args = append(args, string(*filter.Type))
	}

	if filter.Category != nil {
		query += " AND category = ?"

		args = append(args, string(*filter.Category))
	}

	if filter.StartDate != nil {
		query += " AND date >= ?"

		args = append(args, filter.StartDate.Format(time.DateOnly))
	}

	if filter.EndDate != nil {
		query += " AND date <= ?"

		args = append(args, filter.EndDate.Format(time.DateOnly))
	}

	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM transactions WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading affected rows: %w", err)
	}

	return n > 0, nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rebind turns ? placeholders into $1..$n for Postgres.
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}

	var (
		b strings.Builder
		n int
	)

	b.Grow(len(query) + 8)

	for _, r := range query {
		if r != '?' {
			b.WriteRune(r)
			continue
		}

		n++

		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}

	return b.String()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// dbTime scans DATE and TIMESTAMP columns whether the driver hands back a
// time.Time or the stored text.
type dbTime struct {
	time.Time
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
}

func (t *dbTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}

	return fmt.Errorf("unrecognized time value %q", s)
}
