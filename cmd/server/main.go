package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"storefront-be/internal/checkout"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	httpapi "storefront-be/internal/http"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/pricing"
	"storefront-be/internal/product"
	"storefront-be/internal/user"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	policy, err := pricing.PolicyFromStrings(
		cfg.FreeShippingThreshold, cfg.FlatShippingRate, cfg.TaxRate, cfg.TaxRounding)
	if err != nil {
		log.Fatal("invalid pricing configuration", zap.Error(err))
	}

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo)

	checkoutSvc := checkout.NewService(productRepo, orderRepo, checkout.NewOrderNumbers(), policy)

	gateway := payment.NewPayfastGateway(cfg.PayfastMerchantID, cfg.PayfastMerchantKey, cfg.PayfastPassphrase)
	paymentRepo := payment.NewRepository(database)
	paymentSvc := payment.NewService(gateway, paymentRepo, orderRepo)

	router := httpapi.NewRouter(httpapi.Deps{
		Users:           userSvc,
		Products:        productSvc,
		Orders:          orderSvc,
		Checkout:        checkoutSvc,
		Payments:        paymentSvc,
		PaymentRepo:     paymentRepo,
		Gateway:         gateway,
		CheckoutTimeout: 30 * time.Second,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront server starting", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
