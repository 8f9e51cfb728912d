package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrBadTransition = errors.New("invalid status transition")
)

type Repo struct{ DB *pgxpool.Pool }

// InsertOrder creates a pending order; id and created_at are assigned by the
// store. Item rows are inserted separately (see InsertItems) — the two steps
// deliberately have separate failure windows.
func (r *Repo) InsertOrder(ctx context.Context, clientName, clientContact string) (Order, error) {
	o := Order{ClientName: clientName, ClientContact: clientContact, Status: StatusPending}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO orders(client_name, client_contact, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, created_at`,
		clientName, clientContact).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

// InsertItems writes one row per cart item, all-or-nothing within the batch.
func (r *Repo) InsertItems(ctx context.Context, orderID int64, items []Item) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, it := range items {
		if it.Qty <= 0 {
			return fmt.Errorf("invalid qty for product %d", it.ProductID)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, product_name, qty, price_cents)
			VALUES ($1, $2, $3, $4, $5)`,
			orderID, it.ProductID, it.ProductName, it.Qty, it.PriceCents); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *Repo) GetOrder(ctx context.Context, id int64) (Order, []Item, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `SELECT id, client_name, client_contact, status, created_at
	                           FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.ClientName, &o.ClientContact, &o.Status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, nil, ErrNotFound
	}
	if err != nil {
		return Order{}, nil, err
	}

	rows, err := r.DB.Query(ctx, `SELECT id, order_id, product_id, product_name, qty, price_cents
	                              FROM order_items WHERE order_id=$1 ORDER BY id`, id)
	if err != nil {
		return Order{}, nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Qty, &it.PriceCents); err != nil {
			return Order{}, nil, err
		}
		items = append(items, it)
	}
	return o, items, rows.Err()
}

// ListOrders returns orders newest first; status filters when non-empty.
func (r *Repo) ListOrders(ctx context.Context, status Status) ([]Order, error) {
	q := `SELECT id, client_name, client_contact, status, created_at FROM orders`
	args := []any{}
	if status != "" {
		q += ` WHERE status=$1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ClientName, &o.ClientContact, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order along the transition table; anything outside
// it is rejected with ErrBadTransition.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, to Status) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !CanTransition(cur, to) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, cur, to)
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, to); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SalesLine is one order item joined with its order, the raw material for
// the back-office sales report.
type SalesLine struct {
	OrderID     int64
	Status      Status
	CreatedAt   time.Time
	ProductID   int64
	ProductName string
	Qty         int
	PriceCents  int64
}

func (r *Repo) SalesLines(ctx context.Context) ([]SalesLine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.status, o.created_at, i.product_id, i.product_name, i.qty, i.price_cents
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		ORDER BY o.created_at, i.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SalesLine
	for rows.Next() {
		var l SalesLine
		if err := rows.Scan(&l.OrderID, &l.Status, &l.CreatedAt, &l.ProductID, &l.ProductName, &l.Qty, &l.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
