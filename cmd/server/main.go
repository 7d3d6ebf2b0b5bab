package main

import (
	"log"
	"net/http"

	"craftconnect-be/internal/artisan"
	"craftconnect-be/internal/catalog"
	"craftconnect-be/internal/config"
	"craftconnect-be/internal/db"
	"craftconnect-be/internal/logger"
	"craftconnect-be/internal/metrics"
	"craftconnect-be/internal/middleware"
	"craftconnect-be/internal/order"
	"craftconnect-be/internal/transport"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := db.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	ledger := catalog.NewLedger()
	aggregator := artisan.NewAggregator()
	orderMetrics := metrics.NewOrderMetrics()

	orderRepo := order.NewRepository(database, ledger, aggregator)
	orderSvc := order.NewService(orderRepo, orderMetrics, cfg.TaxRate, cfg.TxTimeout)

	mux := http.NewServeMux()
	transport.NewHandler(orderSvc).RegisterRoutes(mux)

	auth := middleware.NewAuthMiddleware(cfg.JWTSecret)
	handler := logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.RateLimitMiddleware(
				auth(mux),
			),
		),
	)

	logger.L().Info("🚀 server running", zap.String("port", cfg.AppPort))
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, handler))
}
