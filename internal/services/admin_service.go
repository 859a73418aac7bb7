// internal/services/admin_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/foodmarket/marketplace/internal/models"
	"github.com/foodmarket/marketplace/internal/repository"
	"github.com/foodmarket/marketplace/internal/utils"
)

const (
	ActionDeleteUser    = "delete-user"
	ActionDeleteProduct = "delete-product"

	StatsTimestampFormat = "2006-01-02 15:04:05"
	recentOrdersLimit    = 10
	topSellersLimit      = 5
)

type AdminService struct {
	store      *repository.Store
	orders     *OrderService
	confirmTTL time.Duration
	nonces     *nonceLedger
	now        func() time.Time
}

type UserListing struct {
	Sellers []models.Account `json:"sellers"`
	Buyers  []models.Account `json:"buyers"`
}

type AdminDashboard struct {
	Stats        *models.DashboardStats `json:"stats"`
	RecentOrders []models.OrderDetail   `json:"recent_orders"`
	TopSellers   []models.SellerRanking `json:"top_sellers"`
}

func NewAdminService(store *repository.Store, orders *OrderService, confirmTTL time.Duration) *AdminService {
	return &AdminService{
		store:      store,
		orders:     orders,
		confirmTTL: confirmTTL,
		nonces:     newNonceLedger(),
		now:        time.Now,
	}
}

func (s *AdminService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	var err error
	if stats.TotalSellers, err = s.store.Accounts.Count(ctx, models.ActorSeller); err != nil {
		return nil, dbError(err)
	}
	if stats.TotalBuyers, err = s.store.Accounts.Count(ctx, models.ActorBuyer); err != nil {
		return nil, dbError(err)
	}
	if stats.TotalProducts, err = s.store.Products.Count(ctx); err != nil {
		return nil, dbError(err)
	}
	if stats.TotalOrders, err = s.store.Orders.Count(ctx); err != nil {
		return nil, dbError(err)
	}

	stats.Timestamp = s.now().Format(StatsTimestampFormat)
	return stats, nil
}

func (s *AdminService) RecentOrders(ctx context.Context) ([]models.OrderDetail, error) {
	orders, err := s.store.Orders.ListRecent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, dbError(err)
	}
	return orders, nil
}

// Orders lists every order, newest first, including orphaned ones.
func (s *AdminService) Orders(ctx context.Context) ([]models.OrderDetail, error) {
	orders, err := s.store.Orders.ListRecent(ctx, 0)
	if err != nil {
		return nil, dbError(err)
	}
	return orders, nil
}

func (s *AdminService) Users(ctx context.Context) (*UserListing, error) {
	sellers, err := s.store.Accounts.List(ctx, models.ActorSeller)
	if err != nil {
		return nil, dbError(err)
	}
	buyers, err := s.store.Accounts.List(ctx, models.ActorBuyer)
	if err != nil {
		return nil, dbError(err)
	}
	return &UserListing{Sellers: sellers, Buyers: buyers}, nil
}

func (s *AdminService) Products(ctx context.Context) ([]models.ProductListing, error) {
	products, err := s.store.Products.ListAll(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return products, nil
}

func (s *AdminService) TopSellers(ctx context.Context) ([]models.SellerRanking, error) {
	sellers, err := s.store.Reports.TopSellers(ctx, topSellersLimit)
	if err != nil {
		return nil, dbError(err)
	}
	return sellers, nil
}

func (s *AdminService) Dashboard(ctx context.Context) (*AdminDashboard, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.RecentOrders(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.TopSellers(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{Stats: stats, RecentOrders: recent, TopSellers: top}, nil
}

// DeleteUser soft-deletes a seller or buyer. Without a confirmation token it
// only reports the impact and hands out a token for the repeat call.
func (s *AdminService) DeleteUser(ctx context.Context, kindName string, id uint, confirmToken string) (*models.DeletionImpact, error) {
	kind, ok := models.ParseAccountKind(kindName)
	if !ok {
		return nil, ErrInvalidActorKind
	}

	if _, err := s.store.Accounts.FindByID(ctx, kind, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, dbError(err)
	}

	impact, err := s.userImpact(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	target := fmt.Sprintf("%s:%d", kind, id)
	if err := s.confirm(ActionDeleteUser, target, confirmToken, impact); err != nil {
		return nil, err
	}

	if err := s.store.Accounts.Delete(ctx, kind, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, dbError(err)
	}

	logrus.WithFields(logrus.Fields{
		"kind":              kind,
		"actor_id":          id,
		"orphaned_products": impact.Products,
		"orphaned_orders":   impact.Orders,
	}).Warn("User deleted by admin")
	return impact, nil
}

func (s *AdminService) DeleteProduct(ctx context.Context, id uint, confirmToken string) (*models.DeletionImpact, error) {
	if _, err := s.store.Products.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, dbError(err)
	}

	orders, err := s.store.Orders.CountByProduct(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	impact := &models.DeletionImpact{Orders: orders}

	if err := s.confirm(ActionDeleteProduct, fmt.Sprintf("product:%d", id), confirmToken, impact); err != nil {
		return nil, err
	}

	if err := s.store.Products.Delete(ctx, id, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, dbError(err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id":      id,
		"orphaned_orders": impact.Orders,
	}).Warn("Product deleted by admin")
	return impact, nil
}

func (s *AdminService) UpdateOrderStatus(ctx context.Context, id uint, status string, force bool) (*models.Order, error) {
	return s.orders.UpdateStatusByAdmin(ctx, id, status, force)
}

func (s *AdminService) userImpact(ctx context.Context, kind models.ActorKind, id uint) (*models.DeletionImpact, error) {
	impact := &models.DeletionImpact{}

	var err error
	switch kind {
	case models.ActorSeller:
		if impact.Products, err = s.store.Products.CountBySeller(ctx, id); err != nil {
			return nil, dbError(err)
		}
		if impact.Orders, err = s.store.Orders.CountBySeller(ctx, id); err != nil {
			return nil, dbError(err)
		}
	case models.ActorBuyer:
		if impact.Orders, err = s.store.Orders.CountByBuyer(ctx, id); err != nil {
			return nil, dbError(err)
		}
	}
	return impact, nil
}

// confirm returns a ConfirmationRequiredError when no token was given and
// ErrInvalidConfirmation when the token is wrong, expired or spent.
func (s *AdminService) confirm(action, target, token string, impact *models.DeletionImpact) error {
	if token == "" {
		signed, claims, err := utils.GenerateConfirmToken(action, target, s.confirmTTL)
		if err != nil {
			return fmt.Errorf("failed to generate confirmation token: %w", err)
		}
		return &ConfirmationRequiredError{
			Action:    action,
			Target:    target,
			Token:     signed,
			ExpiresAt: claims.ExpiresAt.Time,
			Impact:    impact,
		}
	}

	claims, err := utils.ValidateConfirmToken(token, action, target)
	if err != nil {
		return ErrInvalidConfirmation
	}
	if !s.nonces.consume(claims.ID, claims.ExpiresAt.Time, s.now()) {
		return ErrInvalidConfirmation
	}
	return nil
}

// nonceLedger remembers spent confirmation tokens until they expire.
type nonceLedger struct {
	mu   sync.Mutex
	used map[string]time.Time
}

func newNonceLedger() *nonceLedger {
	return &nonceLedger{used: make(map[string]time.Time)}
}

func (l *nonceLedger) consume(id string, expires, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for nonce, exp := range l.used {
		if now.After(exp) {
			delete(l.used, nonce)
		}
	}

	if _, spent := l.used[id]; spent {
		return false
	}
	l.used[id] = expires
	return true
}
