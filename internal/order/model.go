package order

import "time"

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusDeclined  Status = "Declined"
	StatusCancelled Status = "Cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool { return s != StatusPending }

type Order struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Total         string    `json:"total"` // NUMERIC -> string
	PaymentMethod string    `json:"payment_method"`
	Status        Status    `json:"status"`
	CancelReason  string    `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Item is the immutable purchase-time snapshot of one product line; Price is
// the catalog price at placement, never recomputed.
type Item struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type Payment struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Amount  string `json:"amount"`
	Method  string `json:"method"`
	Proof   string `json:"proof"`
	Status  string `json:"status"`
}

// AdminOrder is an order joined with the customer name for the admin list.
type AdminOrder struct {
	Order
	CustomerName string `json:"customer_name"`
}
