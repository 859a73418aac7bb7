// internal/services/export_service.go
package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/foodmarket/marketplace/internal/models"
)

var orderExportHeader = []string{
	"order_id", "status", "created_at",
	"buyer_id", "buyer_name",
	"product_id", "product_name", "price",
	"seller_id", "seller_name",
	"address", "mobile", "payment_method",
}

// ExportOrders writes every order as CSV to object storage.
func (s *AdminService) ExportOrders(ctx context.Context, storage *StorageService) (*UploadResult, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return nil, err
	}

	body, err := encodeOrdersCSV(orders)
	if err != nil {
		return nil, err
	}

	result, err := storage.Put(ctx, generateObjectKey("exports/orders", ".csv", s.now()), body, "text/csv")
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"key":    result.Key,
		"orders": len(orders),
		"bytes":  result.Size,
	}).Info("Orders exported")
	return result, nil
}

func encodeOrdersCSV(orders []models.OrderDetail) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(orderExportHeader); err != nil {
		return nil, err
	}
	for _, o := range orders {
		row := []string{
			strconv.FormatUint(uint64(o.ID), 10),
			string(o.Status),
			o.CreatedAt.UTC().Format(StatsTimestampFormat),
			strconv.FormatUint(uint64(o.BuyerID), 10),
			o.BuyerName,
			strconv.FormatUint(uint64(o.ProductID), 10),
			o.ProductName,
			o.ProductPrice.StringFixed(2),
			strconv.FormatUint(uint64(o.SellerID), 10),
			o.SellerName,
			o.Address,
			o.Mobile,
			o.PaymentMethod,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
