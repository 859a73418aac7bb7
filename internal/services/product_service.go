// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/foodmarket/marketplace/internal/models"
	"github.com/foodmarket/marketplace/internal/repository"
	"github.com/foodmarket/marketplace/internal/utils"
)

type ProductService struct {
	store *repository.Store
}

type AddProductRequest struct {
	Name  string `form:"name" json:"name" validate:"required,max=255"`
	Price string `form:"price" json:"price" validate:"required"`
}

type SellerDashboard struct {
	Seller   *models.Account       `json:"seller"`
	Products []models.Product      `json:"products"`
	Chart    []models.ProductSales `json:"chart"`
}

type BuyerHome struct {
	Buyer    *models.Account         `json:"buyer"`
	Products []models.ProductListing `json:"products"`
}

func NewProductService(store *repository.Store) *ProductService {
	return &ProductService{store: store}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !price.IsPositive() {
		return decimal.Decimal{}, ErrInvalidPrice
	}
	return price.Round(2), nil
}

func (s *ProductService) account(ctx context.Context, kind models.ActorKind, id uint) (*models.Account, error) {
	account, err := s.store.Accounts.FindByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, dbError(err)
	}
	return account, nil
}

func (s *ProductService) AddProduct(ctx context.Context, sellerID uint, req *AddProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	if _, err := s.account(ctx, models.ActorSeller, sellerID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:     req.Name,
		Price:    price,
		SellerID: sellerID,
	}
	if err := s.store.Products.Create(ctx, product); err != nil {
		return nil, dbError(err)
	}

	logrus.WithFields(logrus.Fields{
		"seller_id":  sellerID,
		"product_id": product.ID,
	}).Info("Product added")
	return product, nil
}

// DeleteProduct removes one of the seller's own products. Another seller's
// product looks the same as a missing one.
func (s *ProductService) DeleteProduct(ctx context.Context, sellerID, productID uint) error {
	if err := s.store.Products.Delete(ctx, productID, &sellerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return dbError(err)
	}
	return nil
}

func (s *ProductService) SellerDashboard(ctx context.Context, sellerID uint) (*SellerDashboard, error) {
	seller, err := s.account(ctx, models.ActorSeller, sellerID)
	if err != nil {
		return nil, err
	}

	products, err := s.store.Products.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, dbError(err)
	}

	chart, err := s.store.Reports.SellerSales(ctx, sellerID)
	if err != nil {
		return nil, dbError(err)
	}

	return &SellerDashboard{Seller: seller, Products: products, Chart: chart}, nil
}

// Catalog lists live products of live sellers, newest first.
func (s *ProductService) Catalog(ctx context.Context) ([]models.ProductListing, error) {
	products, err := s.store.Products.ListCatalog(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return products, nil
}

func (s *ProductService) BuyerHome(ctx context.Context, buyerID uint) (*BuyerHome, error) {
	buyer, err := s.account(ctx, models.ActorBuyer, buyerID)
	if err != nil {
		return nil, err
	}

	products, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return &BuyerHome{Buyer: buyer, Products: products}, nil
}

// ProductForOrder returns the product a buyer is about to order.
func (s *ProductService) ProductForOrder(ctx context.Context, productID uint) (*models.ProductListing, error) {
	product, err := s.store.Products.FindOrderable(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, dbError(err)
	}
	return product, nil
}
