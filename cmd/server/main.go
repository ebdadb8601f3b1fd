package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"stratforge/platform/internal/config"
	"stratforge/platform/internal/httpserver"
	"stratforge/platform/internal/infrastructure/postgres"
	"stratforge/platform/internal/infrastructure/token"
	authusecase "stratforge/platform/internal/usecase/auth"
	productusecase "stratforge/platform/internal/usecase/product"
	userusecase "stratforge/platform/internal/usecase/user"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialise logger: %v", err)
	}
	defer logger.Sync()

	rootCtx := context.Background()
	db, err := postgres.New(rootCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Migrate(rootCtx, logger); err != nil {
		logger.Fatal("failed to run database migrations", zap.Error(err))
	}

	tokenManager := token.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry, cfg.JWTIssuer)

	userRepo := postgres.NewUserRepository(db.Pool)
	authService := authusecase.NewService(userRepo, tokenManager)
	userService := userusecase.NewService(userRepo)
	productService := productusecase.NewService(postgres.NewProductRepository(db.Pool))

	server := httpserver.NewServer(cfg, logger, authService, userService, productService)
	logger.Info("HTTP server listening", zap.String("addr", server.Addr()))

	go func() {
		if err := server.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				logger.Info("HTTP server closed")
				return
			}
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("graceful shutdown completed")
	}
}
