package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookhaven/bookshop/internal/catalog"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrOutOfStock      = errors.New("item is out of stock")
	ErrStockExceeded   = errors.New("not enough stock")
)

// ShippingFee is the flat fee applied to any non-empty cart.
var ShippingFee = decimal.NewFromInt(50)

type Service struct {
	lines    Repository
	products catalog.Repository
}

func NewService(lines Repository, products catalog.Repository) *Service {
	return &Service{lines: lines, products: products}
}

// Add puts qty units of a product into the user's cart, merging with an
// existing line. The combined quantity may never exceed live stock. Returns
// the total item count across the whole cart for the UI badge.
func (s *Service) Add(ctx context.Context, userID, productID string, qty int) (int, error) {
	if qty < 1 {
		return 0, ErrInvalidQuantity
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return 0, ErrNotFound
	}
	if p.Stock <= 0 {
		return 0, ErrOutOfStock
	}

	inCart := 0
	existing, err := s.lines.GetLine(ctx, userID, productID)
	switch {
	case err == nil:
		inCart = existing.Quantity
	case errors.Is(err, ErrNotFound):
	default:
		return 0, err
	}

	if qty+inCart > p.Stock {
		return 0, fmt.Errorf("%w: you already have %d in cart, and only %d are available",
			ErrStockExceeded, inCart, p.Stock)
	}

	if existing != nil {
		if err := s.lines.SetQuantity(ctx, existing.ID, userID, qty+inCart); err != nil {
			return 0, err
		}
	} else {
		l := &Line{ID: uuid.NewString(), UserID: userID, ProductID: productID, Quantity: qty}
		if err := s.lines.Insert(ctx, l); err != nil {
			return 0, err
		}
	}
	return s.lines.CountItems(ctx, userID)
}

// UpdateQuantity sets a line to an exact quantity. The repository scopes the
// lookup by both line id and user id, so foreign lines read as absent.
func (s *Service) UpdateQuantity(ctx context.Context, userID, cartID string, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	d, err := s.lines.GetDetail(ctx, cartID, userID)
	if err != nil {
		return err
	}
	if qty > d.Stock {
		return fmt.Errorf("%w: only %d units of %q available", ErrStockExceeded, d.Stock, d.Title)
	}
	return s.lines.SetQuantity(ctx, cartID, userID, qty)
}

// Remove deletes one line; absent or foreign ids are no-ops.
func (s *Service) Remove(ctx context.Context, userID, cartID string) error {
	return s.lines.Delete(ctx, cartID, userID)
}

// BulkRemove deletes the given lines; absent or foreign ids are no-ops.
func (s *Service) BulkRemove(ctx context.Context, userID string, cartIDs []string) error {
	return s.lines.DeleteMany(ctx, userID, cartIDs)
}

// View returns the user's joined cart lines with the money breakdown.
func (s *Service) View(ctx context.Context, userID string) ([]LineDetail, Totals, error) {
	details, err := s.lines.ListDetails(ctx, userID)
	if err != nil {
		return nil, Totals{}, err
	}
	t, err := ComputeTotals(details)
	if err != nil {
		return nil, Totals{}, err
	}
	return details, t, nil
}

// ComputeTotals applies the storefront formula:
// subtotal = Σ(price × qty); shipping = flat fee when subtotal > 0.
func ComputeTotals(lines []LineDetail) (Totals, error) {
	subtotal := decimal.Zero
	for _, l := range lines {
		price, err := decimal.NewFromString(l.Price)
		if err != nil {
			return Totals{}, fmt.Errorf("bad price %q for cart line %s: %w", l.Price, l.ID, err)
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = ShippingFee
	}
	return Totals{Subtotal: subtotal, Shipping: shipping, Total: subtotal.Add(shipping)}, nil
}
