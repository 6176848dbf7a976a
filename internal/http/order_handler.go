package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront-be/internal/order"
)

type OrderHandler struct {
	orders order.Service
}

func NewOrderHandler(orders order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderListResponse struct {
	Orders []order.Order `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// GET /api/orders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 10)

	orders, total, err := h.orders.ListMine(r.Context(), limit, page)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orderListResponse{Orders: orders, Total: total, Page: page, Limit: limit})
}

// GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// POST /api/orders/{id}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/admin/orders
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r, 20)

	opts := order.ListOptions{Page: page, Limit: limit}
	if v := r.URL.Query().Get("status"); v != "" {
		status := order.OrderStatus(v)
		if !status.Valid() {
			respondError(w, http.StatusBadRequest, "invalid_request", "unknown order status")
			return
		}
		opts.Status = &status
	}

	orders, total, err := h.orders.ListAll(r.Context(), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orderListResponse{Orders: orders, Total: total, Page: page, Limit: limit})
}

// PUT /api/admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), order.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
