package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"wyzar-be/internal/config"
	"wyzar-be/internal/db"
	"wyzar-be/internal/handlers"
	"wyzar-be/internal/logger"
	"wyzar-be/internal/mail"
	"wyzar-be/internal/middleware"
	"wyzar-be/internal/order"
	"wyzar-be/internal/payment"
	"wyzar-be/internal/payment/webhook"
	"wyzar-be/internal/product"
	"wyzar-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	mailer := mail.NewSMTPMailer(cfg)
	gateway := payment.NewPaynowGateway(cfg)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, mailer)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, gateway)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := order.NewSweeper(orderRepo, cfg.PendingOrderTTL)
	go sweeper.Run(ctx)

	mux := handlers.NewRouter(
		handlers.NewAuthHandler(userSvc),
		handlers.NewProductHandler(productSvc),
		handlers.NewOrderHandler(orderSvc),
		webhook.NewHandler(orderSvc, gateway),
	)

	var handler http.Handler = mux
	handler = middleware.RateLimitMiddleware(handler)
	handler = middleware.AuthMiddleware(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		logger.L().Info("shutting down")
		_ = srv.Shutdown(context.Background())
	}()

	logger.L().Info("server listening", zap.String("port", cfg.AppPort))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L().Fatal("server failed", zap.Error(err))
	}
}
