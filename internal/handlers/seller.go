// internal/handlers/seller.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodmarket/marketplace/internal/i18n"
	"github.com/foodmarket/marketplace/internal/services"
	"github.com/foodmarket/marketplace/internal/utils"
)

// SellerHandler serves /seller/:id routes. The seller is always the one in
// the session; the router has already checked the path id against it.
type SellerHandler struct {
	productService *services.ProductService
	orderService   *services.OrderService
}

func NewSellerHandler(productService *services.ProductService, orderService *services.OrderService) *SellerHandler {
	return &SellerHandler{
		productService: productService,
		orderService:   orderService,
	}
}

// GET /seller/:id
func (h *SellerHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.productService.SellerDashboard(c.Request.Context(), currentActor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, dashboard)
}

// POST /seller/:id/add
func (h *SellerHandler) AddProduct(c *gin.Context) {
	var req services.AddProductRequest
	if !bind(c, &req) {
		return
	}

	product, err := h.productService.AddProduct(c.Request.Context(), currentActor(c).ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, i18n.KeyProductCreated, product)
}

// POST|DELETE /seller/:id/delete/:pid
func (h *SellerHandler) DeleteProduct(c *gin.Context) {
	productID, ok := pathID(c, "pid")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), currentActor(c).ID, productID); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, http.StatusOK, i18n.KeyProductDeleted, gin.H{"product_id": productID})
}

// GET /seller/:id/orders
func (h *SellerHandler) Orders(c *gin.Context) {
	orders, err := h.orderService.SellerOrders(c.Request.Context(), currentActor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"orders": orders,
		"total":  len(orders),
		"policy": h.orderService.Policy(),
	})
}

// POST /seller/:id/orders/update/:oid
func (h *SellerHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "oid")
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

	order, err := h.orderService.UpdateStatusBySeller(c.Request.Context(), currentActor(c).ID, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, http.StatusOK, i18n.KeyOrderStatusUpdated, order)
}
