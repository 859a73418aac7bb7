// internal/repository/order_repository.go
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/foodmarket/marketplace/internal/models"
)

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) FindForSeller(ctx context.Context, id, sellerID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Table("orders").
		Select("orders.*").
		Joins("JOIN products ON products.id = orders.product_id").
		Joins("JOIN sellers ON sellers.id = products.seller_id AND sellers.deleted_at IS NULL").
		Where("orders.id = ? AND products.seller_id = ?", id, sellerID).
		Take(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, expected *models.OrderStatus, status models.OrderStatus) error {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id)
	if expected != nil {
		q = q.Where("status = ?", *expected)
	}

	res := q.Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// details joins every order to its product, seller and buyer. The joins are
// outer and ignore soft deletes so orphaned orders keep their names.
func (r *orderRepository) details(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("orders").
		Select(`orders.*,
			COALESCE(products.name, '') AS product_name,
			COALESCE(products.price, 0) AS product_price,
			COALESCE(products.seller_id, 0) AS seller_id,
			COALESCE(sellers.name, '') AS seller_name,
			COALESCE(buyers.name, '') AS buyer_name`).
		Joins("LEFT JOIN products ON products.id = orders.product_id").
		Joins("LEFT JOIN sellers ON sellers.id = products.seller_id").
		Joins("LEFT JOIN buyers ON buyers.id = orders.buyer_id").
		Order("orders.id DESC")
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID uint) ([]models.OrderDetail, error) {
	var orders []models.OrderDetail
	err := r.details(ctx).Where("orders.buyer_id = ?", buyerID).Scan(&orders).Error
	return orders, err
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerID uint) ([]models.OrderDetail, error) {
	var orders []models.OrderDetail
	err := r.details(ctx).Where("products.seller_id = ?", sellerID).Scan(&orders).Error
	return orders, err
}

func (r *orderRepository) ListRecent(ctx context.Context, limit int) ([]models.OrderDetail, error) {
	q := r.details(ctx)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var orders []models.OrderDetail
	err := q.Scan(&orders).Error
	return orders, err
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

func (r *orderRepository) CountByBuyer(ctx context.Context, buyerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("buyer_id = ?", buyerID).
		Count(&count).Error
	return count, err
}

func (r *orderRepository) CountBySeller(ctx context.Context, sellerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.seller_id = ?", sellerID).
		Count(&count).Error
	return count, err
}

func (r *orderRepository) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}
