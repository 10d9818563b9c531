package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	apphttp "bengkelku.id/app/internal/http"
	"bengkelku.id/app/internal/config"
	"bengkelku.id/app/internal/http/handlers"
	"bengkelku.id/app/internal/modules/catalog"
	"bengkelku.id/app/internal/modules/orders"
	"bengkelku.id/app/internal/modules/payments"
	"bengkelku.id/app/internal/modules/users"
	"bengkelku.id/app/internal/storage"
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	blobs, err := storage.FromEnv(context.Background())
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	logger.Info("storage configured", "driver", blobs.Driver)

	var gateway payments.Gateway
	if cfg.Midtrans.Enabled() {
		gateway = payments.NewMidtrans(cfg.Midtrans)
	} else {
		secret := os.Getenv("MOCK_GATEWAY_SECRET")
		if secret == "" {
			secret = "mock-secret"
		}
		gateway = payments.NewMock(secret)
		logger.Warn("no gateway credentials configured, using mock gateway")
	}

	orderRepo := orders.NewRepo(db)
	catalogRepo := catalog.NewRepo(db)
	userRepo := users.NewRepo(db)
	ledger := payments.NewLedger(db)

	orderSvc := orders.NewService(orderRepo, catalogRepo, blobs.Storage, logger)
	paymentSvc := payments.NewService(
		orderRepo, ledger, gateway, userRepo, catalogRepo, blobs.Storage,
		cfg.StatusCacheTTL, logger,
	)

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:    logger,
		JWTSecret: cfg.JWTSecret,
		Users:     userRepo,

		Orders:   handlers.NewOrderHandler(orderSvc),
		Payments: handlers.NewPaymentHandler(paymentSvc, cfg.GatewayTimeout),
		Webhooks: handlers.NewWebhookHandler(logger, paymentSvc),
		Catalog:  handlers.NewCatalogHandler(catalogRepo),
	})

	logger.Info("listening", "addr", cfg.HTTPAddr, "gateway", gateway.Name())
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
