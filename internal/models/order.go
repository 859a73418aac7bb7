// internal/models/order.go
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: nil,
	OrderStatusCancelled: nil,
}

// ParseOrderStatus maps a known status name, case-insensitively, to its
// canonical form.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for status := range orderTransitions {
		if strings.EqualFold(string(status), strings.TrimSpace(s)) {
			return status, true
		}
	}
	return "", false
}

func (s OrderStatus) Terminal() bool {
	next, ok := orderTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Orders stored under the legacy free-text policy have no entry in the
// transition table and cannot move anywhere.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s in one step.
func (s OrderStatus) NextStatuses() []OrderStatus {
	return append([]OrderStatus(nil), orderTransitions[s]...)
}

type Order struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	BuyerID       uint        `json:"buyer_id" gorm:"not null;index"`
	ProductID     uint        `json:"product_id" gorm:"not null;index"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(32);not null;default:'Placed'"`
	Address       string      `json:"address" gorm:"type:text;not null"`
	Mobile        string      `json:"mobile" gorm:"size:32;not null"`
	PaymentMethod string      `json:"payment_method" gorm:"size:50;not null"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderDetail is an order joined with the names of its product, buyer and
// seller. Names stay populated after any of those rows is soft-deleted.
type OrderDetail struct {
	Order
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	SellerID     uint            `json:"seller_id"`
	SellerName   string          `json:"seller_name"`
	BuyerName    string          `json:"buyer_name"`
}
