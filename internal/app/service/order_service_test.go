package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fruitfulhq/storefront-backend/pkg/commerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newOrderBackend(t *testing.T) *httptest.Server {
	t.Helper()

	orders := []commerce.Order{
		{
			ID:            "ord-1",
			CustomerName:  "Kim Mina",
			CustomerEmail: "mina@example.com",
			Status:        "paid",
			Items: []commerce.OrderItem{
				{ProductName: "Cold-Pressed Orange", VariantName: "1L", Quantity: 2, UnitPrice: 420},
				{ProductName: "Green Detox", Quantity: 1, UnitPrice: 300},
			},
			Subtotal:    1140,
			Discount:    100,
			DeliveryFee: 2500,
			Total:       3540,
			CreatedAt:   time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:        "ord-2",
			Status:    "pending",
			CreatedAt: time.Date(2026, 8, 2, 14, 0, 0, 0, time.UTC),
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"orders": orders, "total": len(orders)})
	})
	mux.HandleFunc("/orders/ord-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"order": orders[0]})
	})
	mux.HandleFunc("/orders/ord-1/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestOrderService(t *testing.T) OrderService {
	t.Helper()
	srv := newOrderBackend(t)
	client, err := commerce.NewClient(commerce.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return NewOrderService(client)
}

func TestListOrders(t *testing.T) {
	svc := newTestOrderService(t)

	orders, total, err := svc.ListOrders(context.Background(), "token-1", commerce.ListOrdersRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, orders, 2)
	assert.Equal(t, "ord-1", orders[0].ID)
}

func TestGetOrder(t *testing.T) {
	svc := newTestOrderService(t)

	order, err := svc.GetOrder(context.Background(), "token-1", "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "paid", order.Status)

	_, err = svc.GetOrder(context.Background(), "token-1", "ord-404")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	svc := newTestOrderService(t)

	err := svc.UpdateOrderStatus(context.Background(), "token-1", "ord-1", "shipping")
	require.NoError(t, err)

	// Unknown statuses are rejected before the backend sees them
	err = svc.UpdateOrderStatus(context.Background(), "token-1", "ord-1", "teleported")
	assert.ErrorIs(t, err, ErrOrderInvalidStatus)
}

func TestExportOrders(t *testing.T) {
	svc := newTestOrderService(t)

	workbook, err := svc.ExportOrders(context.Background(), "token-1", commerce.ListOrdersRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, workbook)

	f, err := excelize.OpenReader(bytes.NewReader(workbook))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Orders", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Order ID", header)

	id, err := f.GetCellValue("Orders", "A2")
	require.NoError(t, err)
	assert.Equal(t, "ord-1", id)

	items, err := f.GetCellValue("Orders", "F2")
	require.NoError(t, err)
	assert.Equal(t, "Cold-Pressed Orange (1L) x2, Green Detox x1", items)

	rows, err := f.GetRows("Orders")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
