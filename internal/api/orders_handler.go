package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutService interface {
	Checkout(ctx context.Context, userID int64) (*domain.Order, error)
	GetOrder(ctx context.Context, userID int64, orderID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]*domain.Order, error)
}

type InvoiceRenderer interface {
	Render(order *domain.Order, customerName string) ([]byte, error)
}

type UserDirectory interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
}

type OrdersHandler struct {
	checkouts CheckoutService
	invoices  InvoiceRenderer
	users     UserDirectory
	timeout   time.Duration
}

func NewOrdersHandler(checkouts CheckoutService, invoices InvoiceRenderer, users UserDirectory, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		checkouts: checkouts,
		invoices:  invoices,
		users:     users,
		timeout:   timeout,
	}
}

type OrderItemDTO struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type OrderResponseDTO struct {
	ID               string          `json:"id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	GatewayOrderID   string          `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string          `json:"gateway_payment_id,omitempty"`
	Items            []OrderItemDTO  `json:"items"`
	CreatedAt        string          `json:"created_at"`
}

type CheckoutFailureDTO struct {
	Order OrderResponseDTO `json:"order"`
	Error string           `json:"error"`
	Code  string           `json:"code"`
}

// POST /api/v1/checkout
func (h *OrdersHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := h.checkouts.Checkout(ctx, userID)
	if err != nil {
		if order != nil && order.Status == domain.OrderStatusFailed {
			// The order exists and is settled FAILED; the client gets both.
			respondJSON(w, http.StatusPaymentRequired, CheckoutFailureDTO{
				Order: convertOrder(order),
				Error: "payment failed",
				Code:  "payment_failed",
			})
			return
		}
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, convertOrder(order))
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.checkouts.ListOrders(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	dtos := make([]OrderResponseDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, convertOrder(o))
	}

	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/orders/{id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	order, err := h.checkouts.GetOrder(ctx, userID, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(order))
}

// GET /api/v1/orders/{id}/invoice
//
// The response headers are a fixed contract: application/pdf with an
// attachment filename of invoice_<orderId>.pdf.
func (h *OrdersHandler) DownloadInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return
	}

	order, err := h.checkouts.GetOrder(ctx, userID, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	pdf, err := h.invoices.Render(order, user.Username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice_%s.pdf"`, order.ID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		// Headers are already out, nothing left to send the client.
		log.Printf("failed to write invoice response: %v", err)
	}
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	return OrderResponseDTO{
		ID:               o.ID.String(),
		TotalAmount:      o.TotalAmount,
		Currency:         o.Currency,
		Status:           o.Status.String(),
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: o.GatewayPaymentID,
		Items:            items,
		CreatedAt:        o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
