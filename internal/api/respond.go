package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ecom-labs/storefront/internal/cart"
	"github.com/ecom-labs/storefront/internal/checkout"
	"github.com/ecom-labs/storefront/internal/invoice"
	"github.com/ecom-labs/storefront/internal/payment"
	"github.com/ecom-labs/storefront/internal/repository"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service-layer sentinels onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, repository.ErrCartItemNotFound):
		respondError(w, http.StatusNotFound, "cart_item_not_found", "item not found in cart")
	case errors.Is(err, checkout.ErrOrderNotFound), errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty, nothing to checkout")
	case errors.Is(err, cart.ErrUnknownAction):
		respondError(w, http.StatusBadRequest, "invalid_action", "action must be increase or decrease")
	case errors.Is(err, payment.ErrDeclined):
		respondError(w, http.StatusPaymentRequired, "payment_declined", err.Error())
	case errors.Is(err, invoice.ErrOrderNotSettled):
		respondError(w, http.StatusConflict, "order_not_settled", "order has not reached a terminal status")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
