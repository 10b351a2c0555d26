package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/orderdesk/order-api/config"
	"github.com/orderdesk/order-api/internal/email"
	"github.com/orderdesk/order-api/internal/handler"
	authHandler "github.com/orderdesk/order-api/internal/handler/auth"
	mediaHandler "github.com/orderdesk/order-api/internal/handler/media"
	notificationHandler "github.com/orderdesk/order-api/internal/handler/notification"
	orderHandler "github.com/orderdesk/order-api/internal/handler/order"
	userHandler "github.com/orderdesk/order-api/internal/handler/user"
	"github.com/orderdesk/order-api/internal/middleware"
	"github.com/orderdesk/order-api/internal/repository/postgres"
	"github.com/orderdesk/order-api/internal/router"
	authService "github.com/orderdesk/order-api/internal/service/auth"
	mediaService "github.com/orderdesk/order-api/internal/service/media"
	notificationService "github.com/orderdesk/order-api/internal/service/notification"
	orderService "github.com/orderdesk/order-api/internal/service/order"
	userService "github.com/orderdesk/order-api/internal/service/user"
	"github.com/orderdesk/order-api/internal/storage"
	"github.com/orderdesk/order-api/pkg/auth"
	"github.com/orderdesk/order-api/pkg/logger"
	"github.com/orderdesk/order-api/pkg/messaging"
	redisbroker "github.com/orderdesk/order-api/pkg/messaging/redis"
	"github.com/orderdesk/order-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	appLogger := logger.NewLogger(&logger.Config{
		Level:  level,
		Output: os.Stdout,
		Pretty: cfg.Log.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	orderRepo := postgres.NewOrderRepository(base)
	historyRepo := postgres.NewHistoryRepository(base)
	mediaRepo := postgres.NewMediaRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)

	blobStore, err := storage.NewSupabaseStore(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize blob storage")
	}

	// Redis and SMTP are optional. Without them notifications are still
	// persisted, they just stop fanning out.
	var broker messaging.Broker = messaging.NopBroker{}
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewRedisBroker(cfg.Redis, appLogger.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	var emailSvc email.Service = email.NopService{}
	if cfg.Email.Host != "" {
		emailSvc = email.NewService(cfg.Email)
	}

	jwtSvc := auth.NewJWTService(cfg.JWT)
	hasher := security.NewBcryptHasher(0)

	authSvc := authService.NewService(userRepo, jwtSvc, hasher)
	userSvc := userService.NewService(userRepo)
	notificationSvc := notificationService.NewService(notificationRepo, userRepo, broker, emailSvc, appLogger)
	orderSvc := orderService.NewService(orderRepo, userRepo, historyRepo, mediaRepo, notificationSvc, appLogger)
	mediaSvc := mediaService.NewService(orderRepo, mediaRepo, blobStore, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	h := handler.NewHandler()

	rateLimit := rate.Limit(cfg.RateLimit.RequestsPerSecond)
	if !cfg.RateLimit.Enabled {
		rateLimit = rate.Inf
	}

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		orderHandler.NewHandler(orderSvc),
		mediaHandler.NewHandler(mediaSvc),
		notificationHandler.NewHandler(notificationSvc),
		userHandler.NewHandler(userSvc),
		h,
		router.RouterConfig{
			RateLimit:     rateLimit,
			RateBurst:     cfg.RateLimit.Burst,
			RetryAfter:    cfg.RateLimit.RetryAfterSeconds,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MaxBodyBytes:  cfg.Server.MaxBodyBytes,
			MetricsPrefix: "order_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
