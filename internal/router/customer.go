// internal/router/customer.go
package router

import (
	"net/http"

	"github.com/foodmarket/marketplace/internal/handlers"
	"github.com/foodmarket/marketplace/internal/middleware"
	"github.com/foodmarket/marketplace/internal/models"
)

// NewCustomer builds the seller and buyer facing API.
func NewCustomer(deps *Deps) (*Engine, error) {
	if err := validate(deps); err != nil {
		return nil, err
	}
	svc, err := newServices(deps)
	if err != nil {
		return nil, err
	}
	cfg := deps.Config

	authHandler := handlers.NewAuthHandler(svc.auth, cfg.IsProduction())
	productHandler := handlers.NewProductHandler(svc.products)
	sellerHandler := handlers.NewSellerHandler(svc.products, svc.orders)
	buyerHandler := handlers.NewBuyerHandler(svc.products, svc.orders)
	healthHandler := handlers.NewHealthHandler(ServiceCustomer, deps.Ping)

	r := newEngine(ServiceCustomer, cfg)

	r.GET("/health", healthHandler.Health)
	r.GET("/products", productHandler.Catalog)

	// Registration and login
	auth := r.Group("")
	auth.Use(r.limiter(middleware.PerMinute(cfg.RateLimit.AuthPerMinute)))
	{
		auth.POST("/seller_register", authHandler.Register(models.ActorSeller))
		auth.POST("/seller_login", authHandler.Login(models.ActorSeller))
		auth.POST("/buyer_register", authHandler.Register(models.ActorBuyer))
		auth.POST("/buyer_login", authHandler.Login(models.ActorBuyer))
	}
	r.GET("/logout", authHandler.Logout)
	r.POST("/logout", authHandler.Logout)

	seller := r.Group("/seller/:id")
	seller.Use(
		middleware.AuthRequired(),
		middleware.RequireRole(models.ActorSeller),
		middleware.RequireSameActor("id", http.StatusForbidden),
	)
	{
		seller.GET("", sellerHandler.Dashboard)
		seller.POST("/add", sellerHandler.AddProduct)
		seller.POST("/delete/:pid", sellerHandler.DeleteProduct)
		seller.DELETE("/delete/:pid", sellerHandler.DeleteProduct)
		seller.GET("/orders", sellerHandler.Orders)
		seller.POST("/orders/update/:oid", sellerHandler.UpdateOrderStatus)
	}

	buyer := r.Group("/buyer/:id")
	buyer.Use(
		middleware.AuthRequired(),
		middleware.RequireRole(models.ActorBuyer),
		middleware.RequireSameActor("id", http.StatusUnauthorized),
	)
	{
		buyer.GET("", buyerHandler.Home)
		buyer.GET("/order/:pid", buyerHandler.OrderForm)
		buyer.POST("/order/:pid", buyerHandler.PlaceOrder)
		buyer.GET("/orders", buyerHandler.Orders)
	}

	return r, nil
}
