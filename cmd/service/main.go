package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/internal/gateway"
	"storefront-service/internal/producer"
	"storefront-service/internal/repository"
	"storefront-service/internal/service"
	transport "storefront-service/internal/transport/http"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	payments := gateway.New(cfg.Gateway.KeyID, cfg.Gateway.Secret)

	events := producer.NewOrderEventProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer events.Close()

	cartReader := service.NewRepoCartReader(repos.Carts)
	priceReader := service.NewRepoPriceReader(repos.Products)
	addressReader := service.NewRepoAddressReader(repos.Addresses)

	checkoutSvc := service.NewCheckoutService(repos, cartReader, priceReader, addressReader, payments, events, log)
	orderSvc := service.NewOrderService(repos, events, log)
	refundSvc := service.NewRefundService(repos, events, log)
	walletSvc := service.NewWalletService(repos, log)

	h := transport.NewHandler(checkoutSvc, orderSvc, refundSvc, walletSvc, log)
	r := transport.Router(h)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting storefront HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down storefront HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	log.Info("Storefront HTTP server stopped gracefully")
}
