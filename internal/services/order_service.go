// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/foodmarket/marketplace/internal/events"
	"github.com/foodmarket/marketplace/internal/models"
	"github.com/foodmarket/marketplace/internal/repository"
	"github.com/foodmarket/marketplace/internal/utils"
)

// StatusPolicy decides how order status updates are checked.
type StatusPolicy string

const (
	// PolicyStrict accepts only known statuses along the lifecycle and
	// rejects an update whose starting status changed underneath it.
	PolicyStrict StatusPolicy = "strict"
	// PolicyLegacy stores any non-empty status text; the last writer wins.
	PolicyLegacy StatusPolicy = "legacy"
)

// maxStatusLength matches orders.status varchar(32).
const maxStatusLength = 32

type OrderService struct {
	store     *repository.Store
	policy    StatusPolicy
	publisher events.Publisher
}

type PlaceOrderRequest struct {
	Address       string `form:"address" json:"address" validate:"required"`
	Mobile        string `form:"mobile" json:"mobile" validate:"required,max=32"`
	PaymentMethod string `form:"payment_method" json:"payment_method" validate:"required,max=50"`
}

type UpdateStatusRequest struct {
	Status string `form:"status" json:"status" validate:"required"`
	Force  bool   `form:"force" json:"force"`
}

func NewOrderService(store *repository.Store, policy StatusPolicy, publisher events.Publisher) *OrderService {
	if policy == "" {
		policy = PolicyStrict
	}
	return &OrderService{
		store:     store,
		policy:    policy,
		publisher: publisher,
	}
}

func (s *OrderService) Policy() StatusPolicy {
	return s.policy
}

// PlaceOrder creates one order in status Placed for the logged-in buyer.
// Repeating the call creates another order.
func (s *OrderService) PlaceOrder(ctx context.Context, sessionBuyerID, buyerID, productID uint, req *PlaceOrderRequest) (*models.Order, error) {
	if sessionBuyerID == 0 || sessionBuyerID != buyerID {
		return nil, ErrUnauthenticated
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.store.Accounts.FindByID(ctx, models.ActorBuyer, buyerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, dbError(err)
	}

	if _, err := s.store.Products.FindOrderable(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, dbError(err)
	}

	order := &models.Order{
		BuyerID:       buyerID,
		ProductID:     productID,
		Status:        models.OrderStatusPlaced,
		Address:       req.Address,
		Mobile:        req.Mobile,
		PaymentMethod: req.PaymentMethod,
	}
	if err := s.store.Orders.Create(ctx, order); err != nil {
		return nil, dbError(err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"buyer_id":   buyerID,
		"product_id": productID,
	}).Info("Order placed")

	events.Emit(ctx, s.publisher, events.OrderEvent{
		Type:      events.TypeOrderPlaced,
		OrderID:   order.ID,
		BuyerID:   buyerID,
		ProductID: productID,
		ToStatus:  string(order.Status),
		Actor:     actorLabel(models.ActorBuyer, buyerID),
	})
	return order, nil
}

func (s *OrderService) BuyerOrders(ctx context.Context, buyerID uint) ([]models.OrderDetail, error) {
	orders, err := s.store.Orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, dbError(err)
	}
	return orders, nil
}

func (s *OrderService) SellerOrders(ctx context.Context, sellerID uint) ([]models.OrderDetail, error) {
	orders, err := s.store.Orders.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, dbError(err)
	}
	return orders, nil
}

// UpdateStatusBySeller changes an order placed against one of the seller's
// products.
func (s *OrderService) UpdateStatusBySeller(ctx context.Context, sellerID, orderID uint, status string) (*models.Order, error) {
	order, err := s.store.Orders.FindForSeller(ctx, orderID, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, dbError(err)
	}
	return s.transition(ctx, order, status, false, actorLabel(models.ActorSeller, sellerID))
}

// UpdateStatusByAdmin changes any order. With force the admin may set any
// known status regardless of the lifecycle.
func (s *OrderService) UpdateStatusByAdmin(ctx context.Context, orderID uint, status string, force bool) (*models.Order, error) {
	order, err := s.store.Orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, dbError(err)
	}
	return s.transition(ctx, order, status, force, string(models.ActorAdmin))
}

func (s *OrderService) transition(ctx context.Context, order *models.Order, raw string, force bool, actor string) (*models.Order, error) {
	from := order.Status

	var (
		to       models.OrderStatus
		expected *models.OrderStatus
	)
	switch s.policy {
	case PolicyLegacy:
		if strings.TrimSpace(raw) == "" || len(raw) > maxStatusLength {
			return nil, &StatusError{Status: raw}
		}
		to = models.OrderStatus(raw)

	default:
		parsed, ok := models.ParseOrderStatus(raw)
		if !ok {
			return nil, &StatusError{Status: raw}
		}
		if !force && !from.CanTransitionTo(parsed) {
			return nil, &TransitionError{From: from, To: parsed}
		}
		to, expected = parsed, &from
	}

	if err := s.store.Orders.UpdateStatus(ctx, order.ID, expected, to); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if expected != nil {
				return nil, ErrStatusConflict
			}
			return nil, ErrOrderNotFound
		}
		return nil, dbError(err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     from,
		"to":       to,
		"actor":    actor,
		"force":    force,
	}).Info("Order status updated")

	events.Emit(ctx, s.publisher, events.OrderEvent{
		Type:       events.TypeOrderStatusChanged,
		OrderID:    order.ID,
		BuyerID:    order.BuyerID,
		ProductID:  order.ProductID,
		FromStatus: string(from),
		ToStatus:   string(to),
		Actor:      actor,
	})

	updated := *order
	updated.Status = to
	return &updated, nil
}

func actorLabel(kind models.ActorKind, id uint) string {
	return fmt.Sprintf("%s:%d", kind, id)
}
