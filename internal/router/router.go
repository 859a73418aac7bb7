// internal/router/router.go
package router

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foodmarket/marketplace/internal/config"
	"github.com/foodmarket/marketplace/internal/events"
	"github.com/foodmarket/marketplace/internal/handlers"
	"github.com/foodmarket/marketplace/internal/middleware"
	"github.com/foodmarket/marketplace/internal/repository"
	"github.com/foodmarket/marketplace/internal/services"
	"github.com/foodmarket/marketplace/internal/utils"
)

const (
	ServiceCustomer = "customer"
	ServiceAdmin    = "admin"
)

// Deps are the shared pieces both services are built from.
type Deps struct {
	Config    *config.Config
	Store     *repository.Store
	Publisher events.Publisher
	Storage   *services.StorageService
	Ping      func(ctx context.Context) error
}

type appServices struct {
	auth     *services.AuthService
	products *services.ProductService
	orders   *services.OrderService
	admin    *services.AdminService
}

func newServices(deps *Deps) (*appServices, error) {
	cfg := deps.Config

	hasher, err := utils.NewPasswordHasher(cfg.Auth.PasswordMode)
	if err != nil {
		return nil, err
	}

	orders := services.NewOrderService(deps.Store, services.StatusPolicy(cfg.Orders.StatusPolicy), deps.Publisher)
	return &appServices{
		auth:     services.NewAuthService(deps.Store, hasher, cfg),
		products: services.NewProductService(deps.Store),
		orders:   orders,
		admin:    services.NewAdminService(deps.Store, orders, time.Duration(cfg.JWT.ConfirmTTL)*time.Minute),
	}, nil
}

// Engine is a gin engine plus the rate limiters it owns.
type Engine struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops the rate limiters' cleanup goroutines.
func (e *Engine) Close() {
	for _, l := range e.limiters {
		l.Stop()
	}
}

func (e *Engine) limiter(l *middleware.RateLimiter) gin.HandlerFunc {
	e.limiters = append(e.limiters, l)
	return l.Middleware()
}

// newEngine expects the JWT secret to be set already (utils.SetJWTSecret).
func newEngine(service string, cfg *config.Config) *Engine {
	e := &Engine{Engine: gin.New()}

	// Global middleware
	e.Use(gin.Recovery())
	e.Use(middleware.RequestLogger(service))
	e.Use(middleware.CORS(cfg.CORS))
	e.Use(middleware.I18nMiddleware())
	e.Use(e.limiter(middleware.PerSecond(cfg.RateLimit.GeneralPerSecond, cfg.RateLimit.GeneralBurst)))

	return e
}

func routeInfos(service string, e *gin.Engine) []handlers.RouteInfo {
	var out []handlers.RouteInfo
	for _, r := range e.Routes() {
		out = append(out, handlers.RouteInfo{Service: service, Method: r.Method, Path: r.Path})
	}
	return out
}

// routeTable lists the admin routes plus a customer engine's routes. It is
// built once, after every admin route is registered.
func routeTable(deps *Deps, admin *gin.Engine) ([]handlers.RouteInfo, error) {
	customer, err := NewCustomer(deps)
	if err != nil {
		return nil, err
	}
	defer customer.Close()

	routes := routeInfos(ServiceAdmin, admin)
	return append(routes, routeInfos(ServiceCustomer, customer.Engine)...), nil
}

func validate(deps *Deps) error {
	if deps == nil || deps.Config == nil || deps.Store == nil {
		return errors.New("router needs a config and a store")
	}
	return nil
}
