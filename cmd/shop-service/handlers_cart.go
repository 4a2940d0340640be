package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookhaven/bookshop/internal/cart"
	"github.com/bookhaven/bookshop/internal/httpx"
)

func cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrNotFound):
		fail(c, http.StatusNotFound, "Item not found in cart")
	case errors.Is(err, cart.ErrInvalidQuantity):
		fail(c, http.StatusBadRequest, "Quantity must be at least 1.")
	case errors.Is(err, cart.ErrOutOfStock):
		fail(c, http.StatusBadRequest, "This item is currently out of stock.")
	case errors.Is(err, cart.ErrStockExceeded):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		fail(c, http.StatusInternalServerError, "An internal server error occurred.")
	}
}

// addToCartHandler godoc
// @Summary  Add a product to the cart
// @Accept   json
// @Produce  json
// @Param    body body cart.AddRequest true "product and quantity"
// @Success  200 {object} map[string]interface{} "success + cart_count"
// @Router   /add_to_cart [post]
// @Security BearerAuth
func addToCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := httpx.IdentityFrom(c)
		var req cart.AddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid quantity format.")
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		count, err := svc.Add(c.Request.Context(), ident.UserID, req.ProductID, req.Quantity)
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				fail(c, http.StatusNotFound, "Product not found.")
				return
			}
			cartError(c, err)
			return
		}
		ok(c, gin.H{"message": "Added to cart!", "cart_count": count})
	}
}

// viewCartHandler godoc
// @Summary  View the cart with totals
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Router   /cart [get]
// @Security BearerAuth
func viewCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := httpx.IdentityFrom(c)
		lines, totals, err := svc.View(c.Request.Context(), ident.UserID)
		if err != nil {
			fail(c, http.StatusInternalServerError, "An internal server error occurred.")
			return
		}
		if lines == nil {
			lines = []cart.LineDetail{}
		}
		c.JSON(http.StatusOK, gin.H{"items": lines, "totals": totals})
	}
}

// updateCartHandler godoc
// @Summary  Set a cart line to an exact quantity
// @Accept   json
// @Produce  json
// @Param    id   path string             true "cart line id"
// @Param    body body cart.UpdateRequest true "new quantity"
// @Success  200 {object} map[string]interface{}
// @Router   /update_cart/{id} [post]
// @Security BearerAuth
func updateCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := httpx.IdentityFrom(c)
		var req cart.UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "Invalid quantity")
			return
		}
		if err := svc.UpdateQuantity(c.Request.Context(), ident.UserID, c.Param("id"), req.Quantity); err != nil {
			cartError(c, err)
			return
		}
		ok(c, nil)
	}
}

// removeFromCartHandler godoc
// @Summary  Remove one cart line (idempotent)
// @Produce  json
// @Param    id path string true "cart line id"
// @Success  200 {object} map[string]interface{}
// @Router   /cart/remove/{id} [post]
// @Security BearerAuth
func removeFromCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := httpx.IdentityFrom(c)
		if err := svc.Remove(c.Request.Context(), ident.UserID, c.Param("id")); err != nil {
			fail(c, http.StatusInternalServerError, "An internal server error occurred.")
			return
		}
		ok(c, nil)
	}
}

// bulkRemoveCartHandler godoc
// @Summary  Remove several cart lines (idempotent)
// @Accept   json
// @Produce  json
// @Param    body body cart.BulkRemoveRequest true "cart line ids"
// @Success  200 {object} map[string]interface{}
// @Router   /bulk_remove_cart [post]
// @Security BearerAuth
func bulkRemoveCartHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := httpx.IdentityFrom(c)
		var req cart.BulkRemoveRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.CartIDs) == 0 {
			fail(c, http.StatusBadRequest, "cart_ids required")
			return
		}
		if err := svc.BulkRemove(c.Request.Context(), ident.UserID, req.CartIDs); err != nil {
			fail(c, http.StatusInternalServerError, "An internal server error occurred.")
			return
		}
		ok(c, nil)
	}
}

// checkoutHandler godoc
// @Summary  Checkout summary (cart lines + totals)
// @Produce  json
// @Success  200 {object} map[string]interface{}
// @Router   /checkout [get]
// @Security BearerAuth
func checkoutHandler(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, _ := httpx.IdentityFrom(c)
		lines, totals, err := svc.View(c.Request.Context(), ident.UserID)
		if err != nil {
			fail(c, http.StatusInternalServerError, "An internal server error occurred.")
			return
		}
		if len(lines) == 0 {
			// nothing to check out; send the client back to the cart view
			c.JSON(http.StatusSeeOther, gin.H{"success": false, "redirect": "/cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": lines, "totals": totals})
	}
}
