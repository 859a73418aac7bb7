// internal/repository/report_repository.go
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodmarket/marketplace/internal/models"
)

type reportRepository struct {
	db *gorm.DB
}

// Revenue counts the product price once per order; products without orders
// contribute zero. Soft-deleted products count in neither report.
const revenueExpr = "COALESCE(SUM(CASE WHEN orders.id IS NOT NULL THEN products.price END), 0)"

func (r *reportRepository) SellerSales(ctx context.Context, sellerID uint) ([]models.ProductSales, error) {
	var rows []models.ProductSales
	err := r.db.WithContext(ctx).Table("products").
		Select("products.id AS product_id, products.name AS name, COUNT(orders.id) AS order_count, "+revenueExpr+" AS total_revenue").
		Joins("LEFT JOIN orders ON orders.product_id = products.id").
		Where("products.seller_id = ? AND products.deleted_at IS NULL", sellerID).
		Group("products.id, products.name").
		Order("products.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) TopSellers(ctx context.Context, limit int) ([]models.SellerRanking, error) {
	q := r.db.WithContext(ctx).Table("sellers").
		Select("sellers.id AS seller_id, sellers.name AS name, COUNT(orders.id) AS order_count, "+revenueExpr+" AS revenue").
		Joins("LEFT JOIN products ON products.seller_id = sellers.id AND products.deleted_at IS NULL").
		Joins("LEFT JOIN orders ON orders.product_id = products.id").
		Where("sellers.deleted_at IS NULL").
		Group("sellers.id, sellers.name").
		Order("revenue DESC, sellers.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.SellerRanking
	err := q.Scan(&rows).Error
	return rows, err
}
