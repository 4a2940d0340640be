package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookhaven/bookshop/internal/catalog"
	"github.com/bookhaven/bookshop/internal/order"
	"github.com/bookhaven/bookshop/internal/user"
)

// adminListProductsHandler godoc
// @Summary  List products for the admin view (includes out-of-stock)
// @Produce  json
// @Success  200 {object} catalog.ListResponse
// @Router   /admin/products [get]
// @Security BearerAuth
func adminListProductsHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := limitOffset(c)
		q := catalog.Query{
			Q:          c.Query("search"),
			CategoryID: c.Query("category_id"),
			Limit:      limit,
			Offset:     offset,
		}
		items, err := repo.List(c.Request.Context(), q)
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not load products")
			return
		}
		if items == nil {
			items = []catalog.Product{}
		}
		c.JSON(http.StatusOK, catalog.ListResponse{
			Q: q.Q, CategoryID: q.CategoryID, Limit: q.Limit, Offset: q.Offset, Items: items,
		})
	}
}

// createProductHandler godoc
// @Summary  Create a product
// @Accept   json
// @Produce  json
// @Param    body body catalog.CreateProductRequest true "product"
// @Success  201 {object} catalog.Product
// @Router   /admin/products [post]
// @Security BearerAuth
func createProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Title == "" || req.Price == "" {
			fail(c, http.StatusBadRequest, "Title and price are required.")
			return
		}
		if req.Stock < 0 {
			fail(c, http.StatusBadRequest, "stock must be non-negative")
			return
		}
		p := &catalog.Product{
			ID:          uuid.NewString(),
			Title:       req.Title,
			Author:      req.Author,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			CategoryID:  req.CategoryID,
			Image:       req.Image,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			if errors.Is(err, catalog.ErrDuplicateName) {
				fail(c, http.StatusConflict, "Product title already exists.")
				return
			}
			fail(c, http.StatusInternalServerError, "could not create product")
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// updateProductHandler godoc
// @Summary  Update a product (empty fields keep current values)
// @Accept   json
// @Produce  json
// @Param    id   path string                        true "product id"
// @Param    body body catalog.UpdateProductRequest true "fields to update"
// @Success  200 {object} catalog.Product
// @Router   /admin/products/{id} [put]
// @Security BearerAuth
func updateProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req catalog.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Stock < 0 {
			fail(c, http.StatusBadRequest, "stock must be non-negative")
			return
		}
		p := &catalog.Product{
			ID:          c.Param("id"),
			Title:       req.Title,
			Author:      req.Author,
			Description: req.Description,
			Price:       req.Price,
			Stock:       req.Stock,
			CategoryID:  req.CategoryID,
			Image:       req.Image,
		}
		if err := repo.Update(c.Request.Context(), p, req.Price != ""); err != nil {
			fail(c, http.StatusInternalServerError, "could not update product")
			return
		}
		out, err := repo.GetByID(c.Request.Context(), p.ID)
		if err != nil {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteProductHandler godoc
// @Summary  Delete a product
// @Produce  json
// @Param    id path string true "product id"
// @Success  200 {object} map[string]interface{}
// @Router   /admin/products/{id} [delete]
// @Security BearerAuth
func deleteProductHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		okDel, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not delete product")
			return
		}
		if !okDel {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		ok(c, gin.H{"message": "Product deleted successfully!"})
	}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func createCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "name is required")
			return
		}
		cat := &catalog.Category{ID: uuid.NewString(), Name: req.Name, Description: req.Description}
		if err := repo.CreateCategory(c.Request.Context(), cat); err != nil {
			if errors.Is(err, catalog.ErrDuplicateName) {
				fail(c, http.StatusConflict, "Category name already exists.")
				return
			}
			fail(c, http.StatusInternalServerError, "could not create category")
			return
		}
		c.JSON(http.StatusCreated, cat)
	}
}

func updateCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, "name is required")
			return
		}
		cat := &catalog.Category{ID: c.Param("id"), Name: req.Name, Description: req.Description}
		if err := repo.UpdateCategory(c.Request.Context(), cat); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				fail(c, http.StatusNotFound, "category not found")
				return
			}
			fail(c, http.StatusInternalServerError, "could not update category")
			return
		}
		c.JSON(http.StatusOK, cat)
	}
}

func deleteCategoryHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		okDel, err := repo.DeleteCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not delete category")
			return
		}
		if !okDel {
			fail(c, http.StatusNotFound, "category not found")
			return
		}
		ok(c, nil)
	}
}

// listUsersHandler godoc
// @Summary  List registered users
// @Produce  json
// @Success  200 {array} user.User
// @Router   /admin/users [get]
// @Security BearerAuth
func listUsersHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := limitOffset(c)
		users, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not load users")
			return
		}
		if users == nil {
			users = []user.User{}
		}
		c.JSON(http.StatusOK, users)
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func setUserStatusHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil ||
			(req.Status != user.StatusActive && req.Status != user.StatusDeactivated) {
			fail(c, http.StatusBadRequest, "status must be active or deactivated")
			return
		}
		if err := repo.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				fail(c, http.StatusNotFound, "user not found")
				return
			}
			fail(c, http.StatusInternalServerError, "could not update user")
			return
		}
		ok(c, nil)
	}
}

// adminOrdersHandler godoc
// @Summary  List all orders with customer names
// @Produce  json
// @Success  200 {array} order.AdminOrder
// @Router   /admin/orders [get]
// @Security BearerAuth
func adminOrdersHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := limitOffset(c)
		orders, err := svc.AdminList(c.Request.Context(), limit, offset)
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not load orders")
			return
		}
		if orders == nil {
			orders = []order.AdminOrder{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

// adminUpdateOrderHandler godoc
// @Summary  Transition an order's status (Declined requires a reason)
// @Accept   json
// @Produce  json
// @Param    id   path string                   true "order id"
// @Param    body body order.AdminUpdateRequest true "status and optional reason"
// @Success  200 {object} map[string]interface{}
// @Router   /admin/orders/update/{id} [post]
// @Security BearerAuth
func adminUpdateOrderHandler(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.AdminUpdateRequest
		if err := c.ShouldBind(&req); err != nil {
			fail(c, http.StatusBadRequest, "status is required")
			return
		}
		err := svc.AdminUpdate(c.Request.Context(), c.Param("id"), order.Status(req.Status), req.Reason)
		if err != nil {
			switch {
			case errors.Is(err, order.ErrReasonRequired):
				fail(c, http.StatusBadRequest, err.Error())
			case errors.Is(err, order.ErrInvalidInput):
				fail(c, http.StatusBadRequest, "invalid status")
			case errors.Is(err, order.ErrTerminalStatus):
				fail(c, http.StatusConflict, "This order can no longer be updated.")
			case errors.Is(err, order.ErrNotFound):
				fail(c, http.StatusNotFound, "order not found")
			default:
				fail(c, http.StatusInternalServerError, "could not update order")
			}
			return
		}
		ok(c, gin.H{"message": "Order updated successfully"})
	}
}
