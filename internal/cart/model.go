package cart

import "github.com/shopspring/decimal"

// Line is one user's pending quantity of one product.
type Line struct {
	ID        string `json:"cart_id"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// LineDetail is a cart line joined with the live product row; Price and
// Stock reflect the catalog at read time, not at add time.
type LineDetail struct {
	ID        string `json:"cart_id"`
	ProductID string `json:"product_id"`
	Title     string `json:"title"`
	Image     string `json:"image,omitempty"`
	Price     string `json:"price"`
	Stock     int    `json:"stock"`
	Quantity  int    `json:"quantity"`
}

// Totals is the cart money breakdown shown on the cart and checkout views.
// swagger:model
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// AddRequest payload for POST /add_to_cart.
// swagger:model
type AddRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateRequest payload for POST /update_cart/:id.
// swagger:model
type UpdateRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// BulkRemoveRequest payload for POST /bulk_remove_cart.
// swagger:model
type BulkRemoveRequest struct {
	CartIDs []string `json:"cart_ids"`
}
