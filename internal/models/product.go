// internal/models/product.go
package models

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name     string          `json:"name" gorm:"size:255;not null"`
	Price    decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	SellerID uint            `json:"seller_id" gorm:"not null;index"`
}

// ProductListing is a product joined with its seller's name.
type ProductListing struct {
	Product
	SellerName string `json:"seller_name"`
}
