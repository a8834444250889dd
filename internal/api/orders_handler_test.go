package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ecom-labs/storefront/internal/checkout"
	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/ecom-labs/storefront/internal/invoice"
	"github.com/ecom-labs/storefront/internal/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CheckoutServiceMock implements CheckoutService for testing
type CheckoutServiceMock struct {
	Order  *domain.Order
	Orders []*domain.Order
	Err    error
}

func (m *CheckoutServiceMock) Checkout(_ context.Context, _ int64) (*domain.Order, error) {
	return m.Order, m.Err
}

func (m *CheckoutServiceMock) GetOrder(_ context.Context, _ int64, _ uuid.UUID) (*domain.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Order, nil
}

func (m *CheckoutServiceMock) ListOrders(_ context.Context, _ int64) ([]*domain.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Orders, nil
}

// InvoiceRendererMock implements InvoiceRenderer for testing
type InvoiceRendererMock struct {
	PDF []byte
	Err error
}

func (m *InvoiceRendererMock) Render(_ *domain.Order, _ string) ([]byte, error) {
	return m.PDF, m.Err
}

// UserDirectoryMock implements UserDirectory for testing
type UserDirectoryMock struct {
	User *domain.User
	Err  error
}

func (m *UserDirectoryMock) GetUserByID(_ context.Context, _ int64) (*domain.User, error) {
	return m.User, m.Err
}

func paidTestOrder() *domain.Order {
	return &domain.Order{
		ID:          uuid.MustParse("0191e240-73a5-7e7c-9f34-d27a1f3cbe01"),
		UserID:      1,
		TotalAmount: decimal.NewFromInt(35),
		Currency:    "USD",
		Status:      domain.OrderStatusPaid,
		Items: []domain.OrderItem{
			{ProductID: 1, ProductName: "productA", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: 2, ProductName: "productB", Quantity: 1, UnitPrice: decimal.NewFromInt(15)},
		},
		GatewayOrderID:   "order_G8VPOayFxWEU28",
		GatewayPaymentID: "pay_29QQoUBi66xm2f",
		CreatedAt:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newOrdersHandler(checkouts CheckoutService, invoices InvoiceRenderer, users UserDirectory) *OrdersHandler {
	return NewOrdersHandler(checkouts, invoices, users, 5*time.Second)
}

func TestCheckout_Success(t *testing.T) {
	mock := &CheckoutServiceMock{Order: paidTestOrder()}
	handler := newOrdersHandler(mock, &InvoiceRendererMock{}, &UserDirectoryMock{})

	recorder := httptest.NewRecorder()
	handler.Checkout(recorder, authedRequest("POST", "/api/v1/checkout", nil))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response OrderResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "PAID", response.Status)
	assert.Equal(t, "order_G8VPOayFxWEU28", response.GatewayOrderID)
	require.Len(t, response.Items, 2)
}

func TestCheckout_EmptyCart(t *testing.T) {
	mock := &CheckoutServiceMock{Err: checkout.ErrEmptyCart}
	handler := newOrdersHandler(mock, &InvoiceRendererMock{}, &UserDirectoryMock{})

	recorder := httptest.NewRecorder()
	handler.Checkout(recorder, authedRequest("POST", "/api/v1/checkout", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCheckout_PaymentFailed(t *testing.T) {
	failed := paidTestOrder()
	failed.Status = domain.OrderStatusFailed
	failed.GatewayOrderID = ""
	failed.GatewayPaymentID = ""

	mock := &CheckoutServiceMock{
		Order: failed,
		Err:   fmt.Errorf("payment for order %v: %w", failed.ID, payment.ErrDeclined),
	}
	handler := newOrdersHandler(mock, &InvoiceRendererMock{}, &UserDirectoryMock{})

	recorder := httptest.NewRecorder()
	handler.Checkout(recorder, authedRequest("POST", "/api/v1/checkout", nil))

	require.Equal(t, http.StatusPaymentRequired, recorder.Code)

	var response CheckoutFailureDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "payment_failed", response.Code)
	assert.Equal(t, "FAILED", response.Order.Status)
	require.Len(t, response.Order.Items, 2)
}

func TestCheckout_Unauthorized(t *testing.T) {
	handler := newOrdersHandler(&CheckoutServiceMock{}, &InvoiceRendererMock{}, &UserDirectoryMock{})

	recorder := httptest.NewRecorder()
	handler.Checkout(recorder, httptest.NewRequest("POST", "/api/v1/checkout", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestGetOrder_Success(t *testing.T) {
	order := paidTestOrder()
	handler := newOrdersHandler(&CheckoutServiceMock{Order: order}, &InvoiceRendererMock{}, &UserDirectoryMock{})

	request := withURLParam(authedRequest("GET", "/api/v1/orders/"+order.ID.String(), nil), "id", order.ID.String())
	recorder := httptest.NewRecorder()
	handler.GetOrder(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response OrderResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, order.ID.String(), response.ID)
}

func TestGetOrder_BadUUID(t *testing.T) {
	handler := newOrdersHandler(&CheckoutServiceMock{}, &InvoiceRendererMock{}, &UserDirectoryMock{})

	request := withURLParam(authedRequest("GET", "/api/v1/orders/42", nil), "id", "42")
	recorder := httptest.NewRecorder()
	handler.GetOrder(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	handler := newOrdersHandler(&CheckoutServiceMock{Err: checkout.ErrOrderNotFound}, &InvoiceRendererMock{}, &UserDirectoryMock{})

	id := uuid.NewString()
	request := withURLParam(authedRequest("GET", "/api/v1/orders/"+id, nil), "id", id)
	recorder := httptest.NewRecorder()
	handler.GetOrder(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestListOrders_Success(t *testing.T) {
	handler := newOrdersHandler(&CheckoutServiceMock{Orders: []*domain.Order{paidTestOrder()}}, &InvoiceRendererMock{}, &UserDirectoryMock{})

	recorder := httptest.NewRecorder()
	handler.ListOrders(recorder, authedRequest("GET", "/api/v1/orders", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var response []OrderResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response, 1)
}

func TestDownloadInvoice_Success(t *testing.T) {
	order := paidTestOrder()
	handler := newOrdersHandler(
		&CheckoutServiceMock{Order: order},
		&InvoiceRendererMock{PDF: []byte("%PDF-1.3 fake")},
		&UserDirectoryMock{User: &domain.User{ID: 1, Username: "alice"}},
	)

	request := withURLParam(authedRequest("GET", "/api/v1/orders/"+order.ID.String()+"/invoice", nil), "id", order.ID.String())
	recorder := httptest.NewRecorder()
	handler.DownloadInvoice(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/pdf", recorder.Header().Get("Content-Type"))
	assert.Equal(t,
		fmt.Sprintf(`attachment; filename="invoice_%s.pdf"`, order.ID),
		recorder.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 fake", recorder.Body.String())
}

func TestDownloadInvoice_PendingOrder(t *testing.T) {
	order := paidTestOrder()
	order.Status = domain.OrderStatusPending

	handler := newOrdersHandler(
		&CheckoutServiceMock{Order: order},
		&InvoiceRendererMock{Err: invoice.ErrOrderNotSettled},
		&UserDirectoryMock{User: &domain.User{ID: 1, Username: "alice"}},
	)

	request := withURLParam(authedRequest("GET", "/api/v1/orders/"+order.ID.String()+"/invoice", nil), "id", order.ID.String())
	recorder := httptest.NewRecorder()
	handler.DownloadInvoice(recorder, request)

	assert.Equal(t, http.StatusConflict, recorder.Code)
}
