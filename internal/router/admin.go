// internal/router/admin.go
package router

import (
	"github.com/foodmarket/marketplace/internal/handlers"
	"github.com/foodmarket/marketplace/internal/middleware"
	"github.com/foodmarket/marketplace/internal/models"
)

// NewAdmin builds the moderation and reporting API. Everything except
// health and login needs an admin session.
func NewAdmin(deps *Deps) (*Engine, error) {
	if err := validate(deps); err != nil {
		return nil, err
	}
	svc, err := newServices(deps)
	if err != nil {
		return nil, err
	}
	cfg := deps.Config

	r := newEngine(ServiceAdmin, cfg)

	authHandler := handlers.NewAuthHandler(svc.auth, cfg.IsProduction())
	var routes []handlers.RouteInfo
	adminHandler := handlers.NewAdminHandler(svc.admin, deps.Storage, func() []handlers.RouteInfo {
		return append([]handlers.RouteInfo(nil), routes...)
	})
	healthHandler := handlers.NewHealthHandler(ServiceAdmin, deps.Ping)

	r.GET("/health", healthHandler.Health)
	r.POST("/login", r.limiter(middleware.PerMinute(cfg.RateLimit.AuthPerMinute)), authHandler.AdminLogin)
	r.POST("/logout", authHandler.Logout)

	admin := r.Group("")
	admin.Use(middleware.AuthRequired(), middleware.RequireRole(models.ActorAdmin))
	{
		admin.GET("/", adminHandler.Dashboard)
		admin.GET("/routes", adminHandler.Routes)
		admin.GET("/api/stats", adminHandler.Stats)
		admin.GET("/api/recent-orders", adminHandler.RecentOrders)
		admin.GET("/users", adminHandler.Users)
		admin.GET("/orders", adminHandler.Orders)
		admin.GET("/products", adminHandler.Products)

		// Destructive actions answer 409 with a confirmation token first.
		admin.POST("/delete-user/:type/:id", adminHandler.DeleteUser)
		admin.DELETE("/users/:type/:id", adminHandler.DeleteUser)
		admin.POST("/delete-product/:id", adminHandler.DeleteProduct)
		admin.DELETE("/products/:id", adminHandler.DeleteProduct)

		admin.POST("/update-order-status/:id", adminHandler.UpdateOrderStatus)
		admin.POST("/exports/orders", adminHandler.ExportOrders)
	}

	if routes, err = routeTable(deps, r.Engine); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}
