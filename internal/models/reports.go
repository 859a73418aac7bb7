// internal/models/reports.go
package models

import (
	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TotalSellers  int64  `json:"total_sellers"`
	TotalBuyers   int64  `json:"total_buyers"`
	TotalProducts int64  `json:"total_products"`
	TotalOrders   int64  `json:"total_orders"`
	Timestamp     string `json:"timestamp"`
}

// ProductSales is one bar of a seller's sales chart.
type ProductSales struct {
	ProductID    uint            `json:"product_id"`
	Name         string          `json:"name"`
	OrderCount   int64           `json:"order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type SellerRanking struct {
	SellerID   uint            `json:"seller_id"`
	Name       string          `json:"name"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// DeletionImpact counts rows left without a live parent by a delete.
type DeletionImpact struct {
	Products int64 `json:"products"`
	Orders   int64 `json:"orders"`
}
