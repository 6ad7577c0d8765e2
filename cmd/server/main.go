package main

import (
	"log"

	"modora-be/internal/cart"
	"modora-be/internal/config"
	"modora-be/internal/db"
	"modora-be/internal/logger"
	"modora-be/internal/metrics"
	"modora-be/internal/order"
	"modora-be/internal/payment"
	"modora-be/internal/payment/webhook"
	"modora-be/internal/product"
	"modora-be/internal/transport/rest"
	"modora-be/internal/user"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	m := metrics.NewServerMetrics("api")

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartSvc)

	gateway := payment.NewCallbackGateway(cfg.PaymentCallbackToken)

	router := rest.NewRouter(cfg, rest.Handlers{
		Cart:    rest.NewCartHandler(cartSvc, m.CartsMerged),
		Order:   rest.NewOrderHandler(orderSvc, cartSvc, m.OrdersCreated),
		Product: rest.NewProductHandler(productSvc),
		User:    rest.NewUserHandler(userSvc, cfg.AppEnv),
		Webhook: webhook.NewHandler(orderSvc, gateway, m.PaymentsConfirmed),
	}, m)

	log.Printf("🚀 API server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(router.Run(":" + cfg.AppPort))
}
