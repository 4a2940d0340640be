package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("cart item not found")

// Repository persists cart lines. Every mutation is scoped by user id so a
// caller can never touch another user's lines.
type Repository interface {
	GetLine(ctx context.Context, userID, productID string) (*Line, error)
	Insert(ctx context.Context, l *Line) error
	SetQuantity(ctx context.Context, cartID, userID string, qty int) error
	GetDetail(ctx context.Context, cartID, userID string) (*LineDetail, error)
	Delete(ctx context.Context, cartID, userID string) error
	DeleteMany(ctx context.Context, userID string, cartIDs []string) error
	ListDetails(ctx context.Context, userID string) ([]LineDetail, error)
	CountItems(ctx context.Context, userID string) (int, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetLine(ctx context.Context, userID, productID string) (*Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var l Line
	err := r.db.QueryRow(ctx, `
		SELECT cart_id, user_id, product_id, quantity
		FROM cart WHERE user_id=$1 AND product_id=$2
	`, userID, productID).Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *PGRepo) Insert(ctx context.Context, l *Line) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO cart (cart_id, user_id, product_id, quantity)
		VALUES ($1,$2,$3,$4)
	`, l.ID, l.UserID, l.ProductID, l.Quantity)
	return err
}

func (r *PGRepo) SetQuantity(ctx context.Context, cartID, userID string, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE cart SET quantity=$3 WHERE cart_id=$1 AND user_id=$2
	`, cartID, userID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetDetail(ctx context.Context, cartID, userID string) (*LineDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var d LineDetail
	err := r.db.QueryRow(ctx, `
		SELECT c.cart_id, p.product_id, p.title, COALESCE(p.image,''), p.price::text, p.stock, c.quantity
		FROM cart c
		JOIN products p ON c.product_id = p.product_id
		WHERE c.cart_id=$1 AND c.user_id=$2
	`, cartID, userID).Scan(&d.ID, &d.ProductID, &d.Title, &d.Image, &d.Price, &d.Stock, &d.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Delete is a no-op when the line is absent or owned by someone else.
func (r *PGRepo) Delete(ctx context.Context, cartID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM cart WHERE cart_id=$1 AND user_id=$2`, cartID, userID)
	return err
}

func (r *PGRepo) DeleteMany(ctx context.Context, userID string, cartIDs []string) error {
	if len(cartIDs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// ids go through as a single array parameter, never interpolated
	_, err := r.db.Exec(ctx, `
		DELETE FROM cart WHERE user_id=$1 AND cart_id = ANY($2)
	`, userID, cartIDs)
	return err
}

func (r *PGRepo) ListDetails(ctx context.Context, userID string) ([]LineDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT c.cart_id, p.product_id, p.title, COALESCE(p.image,''), p.price::text, p.stock, c.quantity
		FROM cart c
		JOIN products p ON c.product_id = p.product_id
		WHERE c.user_id=$1
		ORDER BY c.cart_id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LineDetail
	for rows.Next() {
		var d LineDetail
		if err := rows.Scan(&d.ID, &d.ProductID, &d.Title, &d.Image, &d.Price, &d.Stock, &d.Quantity); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountItems(ctx context.Context, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity),0) FROM cart WHERE user_id=$1
	`, userID).Scan(&n)
	return n, err
}
