package main

import (
	"fmt"

	"github.com/humamchoudhary/burgnice-backend/configs"
	"github.com/humamchoudhary/burgnice-backend/controllers"
	"github.com/humamchoudhary/burgnice-backend/payment"
	"github.com/humamchoudhary/burgnice-backend/repository"
	"github.com/humamchoudhary/burgnice-backend/routes"
	"github.com/humamchoudhary/burgnice-backend/services"
	"github.com/humamchoudhary/burgnice-backend/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configs.LoadConfig()
	logger := configs.NewLogger(cfg)

	// DB
	if err := configs.ConnectionDB(cfg); err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	if err := configs.SetupDatabase(); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}
	db := configs.DB()

	if err := configs.SeedAdmin(cfg); err != nil {
		logger.Fatal().Err(err).Msg("seed admin failed")
	}
	if err := configs.SeedCatalog(); err != nil {
		logger.Fatal().Err(err).Msg("seed catalog failed")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, logger)
	cartSvc := services.NewCartService(db, cartRepo, menuRepo, userRepo, logger)
	orderSvc := services.NewOrderService(db, orderRepo, userRepo, cartRepo, menuRepo, logger)

	payClient := payment.NewClient(cfg.PaymentAPIBase, cfg.PaymentSecretKey)
	checkoutSvc := services.NewCheckoutService(db, orderRepo, userRepo, menuRepo, payClient,
		cfg.FrontendURL, cfg.BackendURL, logger)

	// Live tracking over WebSocket
	hub := ws.NewTrackingHub(orderSvc, logger)
	go hub.Run()
	orderSvc.SetNotifier(hub)
	checkoutSvc.SetNotifier(hub)

	// HTTP
	r := gin.Default()
	r.Static("/uploads", "./uploads")

	routes.RegisterRoutes(r, routes.Controllers{
		Auth:     controllers.NewAuthController(authSvc, cartSvc),
		Cart:     controllers.NewCartController(cartSvc),
		Menu:     controllers.NewMenuController(menuRepo),
		Order:    controllers.NewOrderController(orderSvc),
		Checkout: controllers.NewCheckoutController(checkoutSvc, cfg.PaymentWebhookSecret, logger),
		Tracking: hub,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info().Str("addr", addr).Msg("server starting")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
