package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"storefront-be/internal/product"
	"storefront-be/internal/utils"
)

type ProductHandler struct {
	products product.Service
}

func NewProductHandler(products product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

type productListResponse struct {
	Products []product.Product `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := product.ListOptions{
		OnlyActive: true,
		SortBy:     q.Get("sortBy"),
		SortOrder:  q.Get("sortOrder"),
	}
	if v := q.Get("category"); v != "" {
		opts.Category = &v
	}
	if v := q.Get("brand"); v != "" {
		opts.Brand = &v
	}
	if v := q.Get("search"); v != "" {
		opts.Search = &v
	}
	if v := q.Get("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "minPrice must be a decimal")
			return
		}
		opts.MinPrice = &d
	}
	if v := q.Get("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "maxPrice must be a decimal")
			return
		}
		opts.MaxPrice = &d
	}
	if v := q.Get("featured"); v != "" {
		featured := v == "true"
		opts.Featured = &featured
	}

	opts.Page, opts.Limit = pagination(r, 20)

	// Admins may browse inactive products too.
	if utils.IsAdmin(r.Context()) && q.Get("includeInactive") == "true" {
		opts.OnlyActive = false
	}

	products, total, err := h.products.List(r.Context(), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, productListResponse{
		Products: products,
		Total:    total,
		Page:     opts.Page,
		Limit:    opts.Limit,
	})
}

// GET /api/products/featured
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, err := h.products.GetFeatured(r.Context(), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type productRequest struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	ComparePrice *decimal.Decimal `json:"comparePrice"`
	Category     string           `json:"category"`
	Brand        *string          `json:"brand"`
	SKU          string           `json:"sku"`
	Stock        int              `json:"stockQuantity"`
	Images       []string         `json:"images"`
	IsFeatured   bool             `json:"isFeatured"`
	IsActive     bool             `json:"isActive"`
}

// POST /api/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" || req.SKU == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name and sku are required")
		return
	}

	p, err := h.products.Create(r.Context(), product.NewProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		Category:     req.Category,
		Brand:        req.Brand,
		SKU:          req.SKU,
		Stock:        req.Stock,
		Images:       req.Images,
		IsFeatured:   req.IsFeatured,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// PUT /api/admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req product.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	p, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// DELETE /api/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/admin/products/{id}/stock
func (h *ProductHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta   int `json:"delta"`
		Version int `json:"version"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	p, err := h.products.AdjustStock(r.Context(), chi.URLParam(r, "id"), req.Delta, req.Version)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func pagination(r *http.Request, defaultLimit int) (page, limit int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}
