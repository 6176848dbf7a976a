package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront-be/internal/checkout"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with no internals leaked.
func respondServiceError(w http.ResponseWriter, err error) {
	var shortfall *product.InsufficientStockError

	switch {
	case errors.Is(err, checkout.ErrUnauthenticated),
		errors.Is(err, user.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
	case errors.Is(err, user.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, order.ErrUnauthorized):
		respondError(w, http.StatusForbidden, "forbidden", "cannot access this resource")
	case errors.As(err, &shortfall):
		respondJSON(w, http.StatusConflict, struct {
			ErrorResponse
			ProductID string `json:"productId"`
			Requested int    `json:"requested"`
			Available int    `json:"available"`
		}{
			ErrorResponse: ErrorResponse{Error: "insufficient stock", Code: "insufficient_stock"},
			ProductID:     shortfall.ProductID,
			Requested:     shortfall.Requested,
			Available:     shortfall.Available,
		})
	case errors.Is(err, product.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	case errors.Is(err, checkout.ErrInvalidCart),
		errors.Is(err, checkout.ErrInvalidAddress):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, user.ErrEmailExists):
		respondError(w, http.StatusConflict, "email_exists", err.Error())
	case errors.Is(err, user.ErrSelfDelete):
		respondError(w, http.StatusConflict, "self_delete", err.Error())
	case errors.Is(err, user.ErrWeakPassword):
		respondError(w, http.StatusUnprocessableEntity, "weak_password", err.Error())
	case errors.Is(err, order.ErrIllegalTransition),
		errors.Is(err, order.ErrInvalidStatus):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, order.ErrStatusConflict),
		errors.Is(err, product.ErrVersionConflict):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, checkout.ErrTimeout):
		respondError(w, http.StatusGatewayTimeout, "timeout", "checkout timed out, no order was placed")
	default:
		logger.L().Error("unhandled service error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
