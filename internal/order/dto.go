package order

// PlaceOrderRequest is the checkout form: shipping details plus the payment
// method; the proof-of-payment file rides along as multipart content.
// swagger:model PlaceOrderRequest
type PlaceOrderRequest struct {
	Name          string `form:"customer_name" example:"Juana Reyes"`
	Address       string `form:"address"       example:"12 Mabini St, Quezon City"`
	PaymentMethod string `form:"payment_method" example:"COD"`
}

// CancelOrderRequest payload for POST /cancel_order/:id.
// swagger:model CancelOrderRequest
type CancelOrderRequest struct {
	Reason string `form:"cancel_reason" json:"cancel_reason" example:"Ordered by mistake"`
}

// AdminUpdateRequest payload for the admin status transition.
// swagger:model AdminUpdateRequest
type AdminUpdateRequest struct {
	Status string `form:"status" json:"status" example:"Declined"`
	Reason string `form:"reason" json:"reason" example:"Proof of payment unreadable"`
}
