// internal/handlers/admin.go
package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/foodmarket/marketplace/internal/i18n"
	"github.com/foodmarket/marketplace/internal/middleware"
	"github.com/foodmarket/marketplace/internal/services"
	"github.com/foodmarket/marketplace/internal/utils"
)

type RouteInfo struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Path    string `json:"path"`
}

type AdminHandler struct {
	adminService   *services.AdminService
	storageService *services.StorageService
	routes         func() []RouteInfo
}

func NewAdminHandler(adminService *services.AdminService, storageService *services.StorageService, routes func() []RouteInfo) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		storageService: storageService,
		routes:         routes,
	}
}

// GET /
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, dashboard)
}

// GET /routes
func (h *AdminHandler) Routes(c *gin.Context) {
	var routes []RouteInfo
	if h.routes != nil {
		routes = h.routes()
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Service != routes[j].Service {
			return routes[i].Service < routes[j].Service
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})

	byService := make(map[string]int)
	for _, r := range routes {
		byService[r.Service]++
	}

	utils.SuccessResponse(c, gin.H{
		"routes":     routes,
		"total":      len(routes),
		"by_service": byService,
	})
}

// GET /api/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}

// GET /api/recent-orders
func (h *AdminHandler) RecentOrders(c *gin.Context) {
	orders, err := h.adminService.RecentOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, orders)
}

// GET /users
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.adminService.Users(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, users)
}

// GET /orders
func (h *AdminHandler) Orders(c *gin.Context) {
	orders, err := h.adminService.Orders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"orders": orders,
		"total":  len(orders),
	})
}

// GET /products
func (h *AdminHandler) Products(c *gin.Context) {
	products, err := h.adminService.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"products": products,
		"total":    len(products),
	})
}

// POST /delete-user/:type/:id, DELETE /users/:type/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	impact, err := h.adminService.DeleteUser(c.Request.Context(), c.Param("type"), id, c.GetHeader(middleware.ConfirmTokenHeader))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, http.StatusOK, i18n.KeyUserDeleted, gin.H{"impact": impact})
}

// POST /delete-product/:id, DELETE /products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	impact, err := h.adminService.DeleteProduct(c.Request.Context(), id, c.GetHeader(middleware.ConfirmTokenHeader))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, http.StatusOK, i18n.KeyProductDeleted, gin.H{"impact": impact})
}

// POST /update-order-status/:id
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateStatusRequest
	if !bind(c, &req) {
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		respondError(c, err)
		return
	}

	order, err := h.adminService.UpdateOrderStatus(c.Request.Context(), id, req.Status, req.Force)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, http.StatusOK, i18n.KeyOrderStatusUpdated, order)
}

// POST /exports/orders
func (h *AdminHandler) ExportOrders(c *gin.Context) {
	result, err := h.adminService.ExportOrders(c.Request.Context(), h.storageService)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, i18n.KeyAdminExportCreated, result)
}
