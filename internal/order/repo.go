package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrStockExceeded = errors.New("insufficient stock")
	ErrForbidden     = errors.New("order cannot be cancelled")
)

type Repository interface {
	Place(ctx context.Context, o *Order, items []Item, pay *Payment) error
	GetByID(ctx context.Context, id string) (*Order, []Item, error)
	GetItems(ctx context.Context, orderID string) ([]Item, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]AdminOrder, error)
	UpdateStatus(ctx context.Context, id string, status Status, reason string) error
	CancelByOwner(ctx context.Context, orderID, userID, reason string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Place writes the order, its payment record and item snapshots, decrements
// stock and clears the cart, all in one transaction. The stock decrement is
// conditional on remaining stock, so a concurrent purchase that drained the
// product since the cart was read fails the whole transaction.
func (r *PGRepo) Place(ctx context.Context, o *Order, items []Item, pay *Payment) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO orders (order_id, user_id, name, address, total_amount, payment_method, status, order_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
  `, o.ID, o.UserID, o.Name, o.Address, o.Total, o.PaymentMethod, o.Status); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO payments (payment_id, order_id, amount, method, proof, status, payment_date)
    VALUES ($1,$2,$3,$4,$5,$6,NOW())
  `, pay.ID, o.ID, pay.Amount, pay.Method, pay.Proof, pay.Status); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO order_items (item_id, order_id, product_id, quantity, price)
      VALUES ($1,$2,$3,$4,$5)
    `, it.ID, o.ID, it.ProductID, it.Quantity, it.Price); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
      UPDATE products SET stock = stock - $2, updated_at = NOW()
      WHERE product_id = $1 AND stock >= $2
    `, it.ProductID, it.Quantity)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrStockExceeded
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart WHERE user_id=$1`, o.UserID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, []Item, error) {
	var o Order
	if err := r.db.QueryRow(ctx, `
    SELECT order_id, user_id, name, address, total_amount::text, payment_method, status,
           COALESCE(cancel_reason,''), order_date
    FROM orders WHERE order_id=$1
  `, id).Scan(&o.ID, &o.UserID, &o.Name, &o.Address, &o.Total, &o.PaymentMethod,
		&o.Status, &o.CancelReason, &o.CreatedAt); err != nil {
		return nil, nil, ErrNotFound
	}
	items, err := r.GetItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return &o, items, nil
}

func (r *PGRepo) GetItems(ctx context.Context, orderID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
    SELECT item_id, order_id, product_id, quantity, price::text
    FROM order_items
    WHERE order_id = $1
  `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT order_id, user_id, name, address, total_amount::text, payment_method, status,
           COALESCE(cancel_reason,''), order_date
    FROM orders WHERE user_id=$1
    ORDER BY order_date DESC LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Name, &o.Address, &o.Total, &o.PaymentMethod,
			&o.Status, &o.CancelReason, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) ListAll(ctx context.Context, limit, offset int) ([]AdminOrder, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
    SELECT o.order_id, o.user_id, o.name, o.address, o.total_amount::text, o.payment_method,
           o.status, COALESCE(o.cancel_reason,''), o.order_date, u.name AS customer_name
    FROM orders o
    JOIN users u ON o.user_id = u.user_id
    ORDER BY o.order_date DESC LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AdminOrder
	for rows.Next() {
		var o AdminOrder
		if err := rows.Scan(&o.ID, &o.UserID, &o.Name, &o.Address, &o.Total, &o.PaymentMethod,
			&o.Status, &o.CancelReason, &o.CreatedAt, &o.CustomerName); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus is the admin transition; it never touches stock. An empty
// reason clears any stored one.
func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
    UPDATE orders
    SET status = $2, cancel_reason = NULLIF($3,'')
    WHERE order_id = $1
  `, id, status, reason)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CancelByOwner flips a Pending order of the given user to Cancelled and
// restores the snapshotted quantities to stock, atomically. The conditional
// UPDATE doubles as ownership and state check: zero rows means the order is
// missing, foreign, or no longer Pending.
func (r *PGRepo) CancelByOwner(ctx context.Context, orderID, userID, reason string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE orders
    SET status = $3, cancel_reason = $4
    WHERE order_id = $1 AND user_id = $2 AND status = $5
  `, orderID, userID, StatusCancelled, reason, StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrForbidden
	}

	rows, err := tx.Query(ctx, `
    SELECT product_id, quantity FROM order_items WHERE order_id = $1
  `, orderID)
	if err != nil {
		return err
	}
	type restore struct {
		productID string
		qty       int
	}
	var restores []restore
	for rows.Next() {
		var rs restore
		if err := rows.Scan(&rs.productID, &rs.qty); err != nil {
			rows.Close()
			return err
		}
		restores = append(restores, rs)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, rs := range restores {
		if _, err := tx.Exec(ctx, `
      UPDATE products SET stock = stock + $2, updated_at = NOW()
      WHERE product_id = $1
    `, rs.productID, rs.qty); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
