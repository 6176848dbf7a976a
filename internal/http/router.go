package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"storefront-be/internal/checkout"
	"storefront-be/internal/logger"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/payment/webhook"
	"storefront-be/internal/product"
	"storefront-be/internal/user"
)

type Deps struct {
	Users    user.Service
	Products product.Service
	Orders   order.Service
	Checkout checkout.Service
	Payments payment.Service

	PaymentRepo payment.Repository
	Gateway     payment.Gateway

	CheckoutTimeout time.Duration
}

func NewRouter(deps Deps) http.Handler {
	if deps.CheckoutTimeout <= 0 {
		deps.CheckoutTimeout = 30 * time.Second
	}

	authHandler := NewAuthHandler(deps.Users)
	productHandler := NewProductHandler(deps.Products)
	orderHandler := NewOrderHandler(deps.Orders)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, deps.Payments, deps.CheckoutTimeout)
	notifyHandler := webhook.NewHandler(deps.Orders, deps.PaymentRepo, deps.Gateway)

	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.Authenticate)
	r.Use(middleware.RateLimit)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(middleware.RequireAuth).Get("/me", authHandler.Profile)
			r.With(middleware.RequireAuth).Put("/me", authHandler.UpdateProfile)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/featured", productHandler.Featured)
			r.Get("/{id}", productHandler.Get)
		})

		r.With(middleware.RequireAuth).Post("/checkout", checkoutHandler.PlaceOrder)

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", orderHandler.ListMine)
			r.Get("/{id}", orderHandler.Get)
			r.Post("/{id}/cancel", orderHandler.Cancel)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/orders", orderHandler.ListAll)
			r.Put("/orders/{id}/status", orderHandler.UpdateStatus)
			r.Post("/products", productHandler.Create)
			r.Put("/products/{id}", productHandler.Update)
			r.Delete("/products/{id}", productHandler.Delete)
			r.Post("/products/{id}/stock", productHandler.AdjustStock)
			r.Get("/users", authHandler.ListUsers)
			r.Get("/users/{id}", authHandler.GetUser)
			r.Delete("/users/{id}", authHandler.DeleteUser)
		})
	})

	r.Post("/webhooks/payfast", notifyHandler.Notify)

	return r
}
