package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/fruitfulhq/storefront-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderInvalidStatus = errors.New("invalid order status")
)

// Statuses the admin console may move an order to. The backend enforces
// its own transitions; this list just rejects typos early.
var validOrderStatuses = map[string]bool{
	"pending":   true,
	"paid":      true,
	"preparing": true,
	"shipping":  true,
	"delivered": true,
	"cancelled": true,
	"refunded":  true,
}

// OrderService is the admin console's window onto the commerce backend's
// orders. Order persistence stays backend-owned; this service proxies
// listings and status changes and renders XLSX exports of what it fetched.
type OrderService interface {
	ListOrders(ctx context.Context, token string, req commerce.ListOrdersRequest) ([]commerce.Order, int64, error)
	GetOrder(ctx context.Context, token, orderID string) (*commerce.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID, status string) error
	// ExportOrders renders the matching orders as an XLSX workbook.
	ExportOrders(ctx context.Context, token string, req commerce.ListOrdersRequest) ([]byte, error)
}

type orderService struct {
	client *commerce.Client
}

func NewOrderService(client *commerce.Client) OrderService {
	return &orderService{client: client}
}

func (s *orderService) ListOrders(ctx context.Context, token string, req commerce.ListOrdersRequest) ([]commerce.Order, int64, error) {
	orders, total, err := s.client.ListOrders(ctx, token, req)
	if err != nil {
		logger.Error("Failed to list orders from backend", err, map[string]interface{}{
			"status": req.Status,
			"page":   req.Page,
		})
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *orderService) GetOrder(ctx context.Context, token, orderID string) (*commerce.Order, error) {
	order, err := s.client.GetOrder(ctx, token, orderID)
	if err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, token, orderID, status string) error {
	if !validOrderStatuses[status] {
		return ErrOrderInvalidStatus
	}

	if err := s.client.UpdateOrderStatus(ctx, token, orderID, status); err != nil {
		if errors.Is(err, commerce.ErrNotFound) {
			return ErrOrderNotFound
		}
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
			"status":   status,
		})
		return err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return nil
}

var exportHeader = []string{
	"Order ID", "Created At", "Customer", "Email", "Status",
	"Items", "Subtotal", "Discount", "Delivery Fee", "Total",
}

func (s *orderService) ExportOrders(ctx context.Context, token string, req commerce.ListOrdersRequest) ([]byte, error) {
	orders, _, err := s.client.ListOrders(ctx, token, req)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}

	for i, order := range orders {
		row := i + 2
		values := []interface{}{
			order.ID,
			order.CreatedAt.Format("2006-01-02 15:04:05"),
			order.CustomerName,
			order.CustomerEmail,
			order.Status,
			summarizeItems(order.Items),
			order.Subtotal,
			order.Discount,
			order.DeliveryFee,
			order.Total,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		logger.Error("Failed to render order export workbook", err)
		return nil, err
	}

	logger.Info("Order export rendered", map[string]interface{}{
		"orders": len(orders),
		"bytes":  buf.Len(),
	})
	return buf.Bytes(), nil
}

func summarizeItems(items []commerce.OrderItem) string {
	summary := ""
	for i, item := range items {
		if i > 0 {
			summary += ", "
		}
		name := item.ProductName
		if item.VariantName != "" {
			name = fmt.Sprintf("%s (%s)", name, item.VariantName)
		}
		summary += fmt.Sprintf("%s x%d", name, item.Quantity)
	}
	return summary
}
