package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/bookhaven/bookshop/docs"
	"github.com/bookhaven/bookshop/internal/auth"
	"github.com/bookhaven/bookshop/internal/cart"
	"github.com/bookhaven/bookshop/internal/catalog"
	"github.com/bookhaven/bookshop/internal/config"
	"github.com/bookhaven/bookshop/internal/httpx"
	"github.com/bookhaven/bookshop/internal/order"
	"github.com/bookhaven/bookshop/internal/user"
)

// @title        Bookshop API
// @version      1.0
// @description  Online bookstore storefront: catalog, cart, orders.
// @BasePath     /
func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("pgxpool: %v", err)
	}
	defer pool.Close()

	catalogRepo := catalog.NewPGRepo(pool)
	cartRepo := cart.NewPGRepo(pool)
	orderRepo := order.NewPGRepo(pool)
	userRepo := user.NewPGRepo(pool)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	cartSvc := cart.NewService(cartRepo, catalogRepo)
	orderSvc := order.NewService(orderRepo, cartRepo, order.NewProofStore(cfg.PaymentDir))
	userSvc := user.NewService(userRepo)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/static/img", cfg.ImageDir)

	r.POST("/register", registerHandler(userSvc))
	r.POST("/login", loginHandler(userSvc, tokens))

	customer := r.Group("/", httpx.RequireAuth(tokens, auth.RoleCustomer))
	{
		customer.GET("/shop", shopHandler(catalogRepo))
		customer.GET("/shop/:id", productViewHandler(catalogRepo))
		customer.GET("/categories", categoriesHandler(catalogRepo))

		customer.POST("/add_to_cart", addToCartHandler(cartSvc))
		customer.GET("/cart", viewCartHandler(cartSvc))
		customer.POST("/update_cart/:id", updateCartHandler(cartSvc))
		// legacy storefront links hit this with GET
		customer.GET("/cart/remove/:id", removeFromCartHandler(cartSvc))
		customer.POST("/cart/remove/:id", removeFromCartHandler(cartSvc))
		customer.POST("/bulk_remove_cart", bulkRemoveCartHandler(cartSvc))

		customer.GET("/checkout", checkoutHandler(cartSvc))
		customer.POST("/place_order", placeOrderHandler(orderSvc))
		customer.GET("/order-complete", orderCompleteHandler())
		customer.GET("/my_orders", myOrdersHandler(orderSvc))
		customer.GET("/orders/:id", orderDetailHandler(orderSvc))
		customer.POST("/cancel_order/:id", cancelOrderHandler(orderSvc))
	}

	admin := r.Group("/admin", httpx.RequireAuth(tokens, auth.RoleAdmin))
	{
		admin.GET("/products", adminListProductsHandler(catalogRepo))
		admin.POST("/products", createProductHandler(catalogRepo))
		admin.PUT("/products/:id", updateProductHandler(catalogRepo))
		admin.DELETE("/products/:id", deleteProductHandler(catalogRepo))

		admin.GET("/categories", categoriesHandler(catalogRepo))
		admin.POST("/categories", createCategoryHandler(catalogRepo))
		admin.PUT("/categories/:id", updateCategoryHandler(catalogRepo))
		admin.DELETE("/categories/:id", deleteCategoryHandler(catalogRepo))

		admin.GET("/users", listUsersHandler(userRepo))
		admin.POST("/users/:id/status", setUserStatusHandler(userRepo))

		admin.GET("/orders", adminOrdersHandler(orderSvc))
		admin.POST("/orders/update/:id", adminUpdateOrderHandler(orderSvc))
	}

	log.Printf("shop-service listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
