// internal/repository/product_repository.go
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodmarket/marketplace/internal/models"
)

type productRepository struct {
	db *gorm.DB
}

const listingColumns = "products.*, COALESCE(sellers.name, '') AS seller_name"

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// liveListings joins live products to live sellers.
func (r *productRepository) liveListings(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("products").
		Select(listingColumns).
		Joins("JOIN sellers ON sellers.id = products.seller_id AND sellers.deleted_at IS NULL").
		Where("products.deleted_at IS NULL")
}

func (r *productRepository) FindOrderable(ctx context.Context, id uint) (*models.ProductListing, error) {
	var listing models.ProductListing
	res := r.liveListings(ctx).Where("products.id = ?", id).Limit(1).Scan(&listing)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &listing, nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) ListCatalog(ctx context.Context) ([]models.ProductListing, error) {
	var listings []models.ProductListing
	err := r.liveListings(ctx).Order("products.id DESC").Scan(&listings).Error
	return listings, err
}

// ListAll keeps products of deleted sellers so moderators can still see them.
func (r *productRepository) ListAll(ctx context.Context) ([]models.ProductListing, error) {
	var listings []models.ProductListing
	err := r.db.WithContext(ctx).Table("products").
		Select(listingColumns).
		Joins("LEFT JOIN sellers ON sellers.id = products.seller_id").
		Where("products.deleted_at IS NULL").
		Order("products.id DESC").
		Scan(&listings).Error
	return listings, err
}

func (r *productRepository) Delete(ctx context.Context, id uint, sellerID *uint) error {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	if sellerID != nil {
		q = q.Where("seller_id = ? AND EXISTS (SELECT 1 FROM sellers WHERE sellers.id = ? AND sellers.deleted_at IS NULL)", *sellerID, *sellerID)
	}

	res := q.Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (r *productRepository) CountBySeller(ctx context.Context, sellerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("seller_id = ?", sellerID).
		Count(&count).Error
	return count, err
}
