// Package catalog provides the repository interface and PostgreSQL
// implementation for the product and category read/write side.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code for a UNIQUE constraint hit.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var (
	ErrNotFound      = errors.New("product not found")
	ErrDuplicateName = errors.New("name already exists")
)

type Query struct {
	Q           string
	CategoryID  string
	InStockOnly bool
	Limit       int
	Offset      int
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	Update(ctx context.Context, p *Product, updatePrice bool) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (product_id, title, author, description, price, stock, category_id, image, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),$8,NOW(),NOW())
	`, p.ID, p.Title, p.Author, p.Description, p.Price, p.Stock, p.CategoryID, p.Image)
	if isUniqueViolation(err) {
		// UNIQUE on title
		return ErrDuplicateName
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	var categoryID, categoryName *string
	err := r.db.QueryRow(ctx, `
		SELECT p.product_id, p.title, p.author, p.description, p.price::text, p.stock,
		       p.category_id, c.category_name, p.image, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.category_id
		WHERE p.product_id=$1
	`, id).Scan(&p.ID, &p.Title, &p.Author, &p.Description, &p.Price, &p.Stock,
		&categoryID, &categoryName, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, ErrNotFound
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	if categoryName != nil {
		p.CategoryName = *categoryName
	}
	return &p, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	search := strings.TrimSpace(q.Q)

	rows, err := r.db.Query(ctx, `
		SELECT p.product_id, p.title, p.author, p.description, p.price::text, p.stock,
		       p.category_id, c.category_name, p.image, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.category_id
		WHERE ($1 = '' OR p.title ILIKE '%'||$1||'%' OR p.author ILIKE '%'||$1||'%')
		  AND ($2 = '' OR p.category_id::text = $2)
		  AND (NOT $3 OR p.stock > 0)
		ORDER BY p.created_at DESC
		LIMIT $4 OFFSET $5
	`, search, q.CategoryID, q.InStockOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		var categoryID, categoryName *string
		if err := rows.Scan(&p.ID, &p.Title, &p.Author, &p.Description, &p.Price, &p.Stock,
			&categoryID, &categoryName, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if categoryID != nil {
			p.CategoryID = *categoryID
		}
		if categoryName != nil {
			p.CategoryName = *categoryName
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p *Product, updatePrice bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if updatePrice {
		_, err := r.db.Exec(ctx, `
			UPDATE products
			SET title = COALESCE(NULLIF($2,''), title),
			    author = COALESCE(NULLIF($3,''), author),
			    description = COALESCE(NULLIF($4,''), description),
			    price = $5,
			    stock = $6,
			    category_id = NULLIF($7,'')::uuid,
			    image = COALESCE(NULLIF($8,''), image),
			    updated_at = NOW()
			WHERE product_id = $1
		`, p.ID, p.Title, p.Author, p.Description, p.Price, p.Stock, p.CategoryID, p.Image)
		return err
	}

	_, err := r.db.Exec(ctx, `
		UPDATE products
		SET title = COALESCE(NULLIF($2,''), title),
		    author = COALESCE(NULLIF($3,''), author),
		    description = COALESCE(NULLIF($4,''), description),
		    stock = $5,
		    category_id = NULLIF($6,'')::uuid,
		    image = COALESCE(NULLIF($7,''), image),
		    updated_at = NOW()
		WHERE product_id = $1
	`, p.ID, p.Title, p.Author, p.Description, p.Stock, p.CategoryID, p.Image)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE product_id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
