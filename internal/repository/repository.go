// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/foodmarket/marketplace/internal/database"
	"github.com/foodmarket/marketplace/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type AccountRepository interface {
	Create(ctx context.Context, kind models.ActorKind, account *models.Account) error
	FindByID(ctx context.Context, kind models.ActorKind, id uint) (*models.Account, error)
	FindByUsername(ctx context.Context, kind models.ActorKind, username string) (*models.Account, error)
	List(ctx context.Context, kind models.ActorKind) ([]models.Account, error)
	Delete(ctx context.Context, kind models.ActorKind, id uint) error
	Count(ctx context.Context, kind models.ActorKind) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	// FindOrderable returns a live product whose seller is live too.
	FindOrderable(ctx context.Context, id uint) (*models.ProductListing, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]models.Product, error)
	ListCatalog(ctx context.Context) ([]models.ProductListing, error)
	ListAll(ctx context.Context) ([]models.ProductListing, error)
	// Delete removes a live product; a non-nil sellerID restricts it to that
	// owner, who must still be live.
	Delete(ctx context.Context, id uint, sellerID *uint) error
	Count(ctx context.Context) (int64, error)
	CountBySeller(ctx context.Context, sellerID uint) (int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	// FindForSeller finds an order on one of a live seller's products.
	FindForSeller(ctx context.Context, id, sellerID uint) (*models.Order, error)
	// UpdateStatus overwrites the status. With a non-nil expected status the
	// write only lands if the row still holds it; otherwise ErrNotFound.
	UpdateStatus(ctx context.Context, id uint, expected *models.OrderStatus, status models.OrderStatus) error
	ListByBuyer(ctx context.Context, buyerID uint) ([]models.OrderDetail, error)
	ListBySeller(ctx context.Context, sellerID uint) ([]models.OrderDetail, error)
	// ListRecent returns newest first; limit <= 0 returns every order.
	ListRecent(ctx context.Context, limit int) ([]models.OrderDetail, error)
	Count(ctx context.Context) (int64, error)
	CountByBuyer(ctx context.Context, buyerID uint) (int64, error)
	CountBySeller(ctx context.Context, sellerID uint) (int64, error)
	CountByProduct(ctx context.Context, productID uint) (int64, error)
}

type ReportRepository interface {
	SellerSales(ctx context.Context, sellerID uint) ([]models.ProductSales, error)
	TopSellers(ctx context.Context, limit int) ([]models.SellerRanking, error)
}

// Store groups the repositories the services depend on.
type Store struct {
	Accounts AccountRepository
	Products ProductRepository
	Orders   OrderRepository
	Reports  ReportRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		Accounts: &accountRepository{db: db},
		Products: &productRepository{db: db},
		Orders:   &orderRepository{db: db},
		Reports:  &reportRepository{db: db},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case database.IsUniqueViolation(err):
		return ErrDuplicate
	}
	return err
}
