// internal/handlers/buyer.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/foodmarket/marketplace/internal/i18n"
	"github.com/foodmarket/marketplace/internal/services"
	"github.com/foodmarket/marketplace/internal/utils"
)

type BuyerHandler struct {
	productService *services.ProductService
	orderService   *services.OrderService
}

func NewBuyerHandler(productService *services.ProductService, orderService *services.OrderService) *BuyerHandler {
	return &BuyerHandler{
		productService: productService,
		orderService:   orderService,
	}
}

// GET /buyer/:id
func (h *BuyerHandler) Home(c *gin.Context) {
	home, err := h.productService.BuyerHome(c.Request.Context(), currentActor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, home)
}

// GET /buyer/:id/order/:pid
func (h *BuyerHandler) OrderForm(c *gin.Context) {
	productID, ok := pathID(c, "pid")
	if !ok {
		return
	}

	product, err := h.productService.ProductForOrder(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"product": product})
}

// POST /buyer/:id/order/:pid
func (h *BuyerHandler) PlaceOrder(c *gin.Context) {
	buyerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	productID, ok := pathID(c, "pid")
	if !ok {
		return
	}

	var req services.PlaceOrderRequest
	if !bind(c, &req) {
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), currentActor(c).ID, buyerID, productID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, i18n.KeyOrderPlaced, order)
}

// GET /buyer/:id/orders
func (h *BuyerHandler) Orders(c *gin.Context) {
	orders, err := h.orderService.BuyerOrders(c.Request.Context(), currentActor(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"orders": orders,
		"total":  len(orders),
	})
}
