// Package pg implements the caller-scoped read surface over
// PostgreSQL. Ownership is not decided here: every query runs in a
// transaction with the verified caller id bound to the app.user_id
// setting, and the schema's row-level policies filter what the caller
// can see.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"orderdesk.org/internal/orders"
)

type Store struct {
	db *sql.DB
}

var _ orders.Store = (*Store)(nil)

// Open connects to PostgreSQL with pool defaults tuned for a small
// request-bound workload.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing handle; used by tests.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// scoped runs fn inside a read-only transaction with the caller bound
// to app.user_id, so row-level policies apply to every statement.
func (s *Store) scoped(ctx context.Context, userID string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `select set_config('app.user_id', $1, true)`, userID); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// CustomerVisible reports whether the caller can see the customer
// row. Under the row-level policy "visible" means "owned".
func (s *Store) CustomerVisible(ctx context.Context, userID, customerID string) (bool, error) {
	var visible bool
	err := s.scoped(ctx, userID, func(tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx,
			`select 1 from customers where id = $1 limit 1`, customerID,
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		visible = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return visible, nil
}

// OrderOwner resolves an order to its parent customer's owning user
// via a single join, caller-scoped.
func (s *Store) OrderOwner(ctx context.Context, userID, orderID string) (string, bool, error) {
	var (
		owner sql.NullString
		found bool
	)
	err := s.scoped(ctx, userID, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			select c.user_id
			from orders o
			join customers c on c.id = o.customer_id
			where o.id = $1
			limit 1
		`, orderID).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if !found || !owner.Valid {
		return "", found, nil
	}
	return owner.String, true, nil
}

// OrdersWithCustomer lists the denormalized export rows for the
// customer. Rows are ordered by creation time then id so the same
// data always serializes identically.
func (s *Store) OrdersWithCustomer(ctx context.Context, userID, customerID string) ([]orders.ExportRow, error) {
	var out []orders.ExportRow
	err := s.scoped(ctx, userID, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			select order_id, customer_id, status, total_amount::text,
			       order_created_at::text, order_date_formatted,
			       customer_name, customer_email
			from orders_with_customers
			where customer_id = $1
			order by order_created_at, order_id
		`, customerID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var cols [8]sql.NullString
			if err := rows.Scan(&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6], &cols[7]); err != nil {
				return err
			}
			out = append(out, orders.ExportRow{
				OrderID:        cols[0].String,
				CustomerID:     cols[1].String,
				Status:         cols[2].String,
				TotalAmount:    cols[3].String,
				OrderCreatedAt: cols[4].String,
				OrderDate:      cols[5].String,
				CustomerName:   cols[6].String,
				CustomerEmail:  cols[7].String,
			})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
