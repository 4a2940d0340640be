package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookhaven/bookshop/internal/catalog"
)

// shopHandler godoc
// @Summary  Browse the shop (in-stock products, search + category filter)
// @Produce  json
// @Param    search query string false "title/author search"
// @Param    category query string false "category id"
// @Success  200 {object} catalog.ListResponse
// @Router   /shop [get]
func shopHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := limitOffset(c)
		q := catalog.Query{
			Q:           c.Query("search"),
			CategoryID:  c.Query("category"),
			InStockOnly: true,
			Limit:       limit,
			Offset:      offset,
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

// productViewHandler godoc
// @Summary  Product details
// @Produce  json
// @Param    id path string true "product id"
// @Success  200 {object} catalog.Product
// @Failure  404 {object} catalog.HTTPError
// @Router   /shop/{id} [get]
func productViewHandler(repo catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.JSON(http.StatusNotFound, catalog.HTTPError{Error: "product not found"})
				return
			}
			fail(c, http.StatusInternalServerError, "could not load product")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// categoriesHandler godoc
// @Summary  List categories
// @Produce  json
// @Success  200 {array} catalog.Category
// @Router   /categories [get]
func categoriesHandler(repo catalog.CategoryRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := repo.ListCategories(c.Request.Context())
		if err != nil {
			fail(c, http.StatusInternalServerError, "could not load categories")
			return
		}
		if cats == nil {
			cats = []catalog.Category{}
		}
		c.JSON(http.StatusOK, cats)
	}
}
