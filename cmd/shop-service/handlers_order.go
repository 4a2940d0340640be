package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookhaven/bookshop/internal/httpx"
	"github.com/bookhaven/bookshop/internal/order"
)

// placeOrderHandler godoc
// @Summary  Place an order from the current cart
// @Accept   multipart/form-data
// @Produce  json
// @Param    customer_name  formData string true  "shipping name"
// @Param    address        formData string true  "shipping address"
// @Param    payment_method formData string true  "COD or Online"
// @Param    payment_proof  formData file   false "proof of payment (non-cash)"
// @Success  201 {object} order.Order
// @Router   /place_order [post]
// @Security BearerAuth
func placeOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := httpx.IdentityFrom(c)

		var form order.PlaceOrderRequest
		_ = c.ShouldBind(&form)
		req := order.CheckoutRequest{
			Name:          form.Name,
			Address:       form.Address,
			PaymentMethod: form.PaymentMethod,
		}
		if fh, err := c.FormFile("payment_proof"); err == nil && fh.Filename != "" {
			f, err := fh.Open()
			if err != nil {
				fail(c, http.StatusBadRequest, "could not read payment proof")
				return
			}
			defer f.Close()
			req.Proof = f
			req.ProofName = fh.Filename
		}

		o, err := svc.Checkout(c.Request.Context(), ident, req)
		if err != nil {
			switch {
			case errors.Is(err, order.ErrInvalidInput):
				fail(c, http.StatusBadRequest, "name, address and payment method are required")
			case errors.Is(err, order.ErrEmptyCart):
				c.JSON(http.StatusSeeOther, gin.H{"success": false, "redirect": "/cart"})
			case errors.Is(err, order.ErrProofRequired), errors.Is(err, order.ErrBadProofType):
				fail(c, http.StatusBadRequest, err.Error())
			case errors.Is(err, order.ErrStockExceeded):
				fail(c, http.StatusConflict, "Some items are no longer in stock. Please review your cart.")
			default:
				fail(c, http.StatusInternalServerError, "Order failed. Please try again.")
			}
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

// orderCompleteHandler confirms the post-checkout landing for the client.
func orderCompleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, gin.H{"message": "Your order has been placed."})
	}
}

// myOrdersHandler godoc
// @Summary  List the caller's orders, newest first
// @Produce  json
// @Success  200 {array} order.Order
// @Router   /my_orders [get]
// @Security BearerAuth
func myOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := httpx.IdentityFrom(c)
		limit, offset := limitOffset(c)
		orders, err := svc.MyOrders(c.Request.Context(), ident, limit, offset)
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not load orders")
			return
		}
		if orders == nil {
			orders = []order.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

// orderDetailHandler godoc
// @Summary  Order with its item snapshots (owner or admin)
// @Produce  json
// @Param    id path string true "order id"
// @Success  200 {object} map[string]interface{}
// @Router   /orders/{id} [get]
// @Security BearerAuth
func orderDetailHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := httpx.IdentityFrom(c)
		o, items, err := svc.Get(c.Request.Context(), ident, c.Param("id"))
		if err != nil {
			fail(c, http.StatusNotFound, "order not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": o, "items": items})
	}
}

// cancelOrderHandler godoc
// @Summary  Cancel the caller's own Pending order, restoring stock
// @Accept   json
// @Produce  json
// @Param    id   path string                   true "order id"
// @Param    body body order.CancelOrderRequest true "cancel reason"
// @Success  200 {object} map[string]interface{}
// @Router   /cancel_order/{id} [post]
// @Security BearerAuth
func cancelOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := httpx.IdentityFrom(c)
		var req order.CancelOrderRequest
		_ = c.ShouldBind(&req)
		if err := svc.CustomerCancel(c.Request.Context(), ident, c.Param("id"), req.Reason); err != nil {
			if errors.Is(err, order.ErrForbidden) {
				fail(c, http.StatusForbidden, "Action denied. This order cannot be cancelled.")
				return
			}
			fail(c, http.StatusInternalServerError, "An error occurred during cancellation.")
			return
		}
		ok(c, gin.H{"message": "Order has been cancelled."})
	}
}
