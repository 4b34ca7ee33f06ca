package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	v1 "github.com/imzamam0651/IT-Services/internal/app/handler/v1"
	chiMiddleware "github.com/imzamam0651/IT-Services/internal/app/middleware"
	"github.com/imzamam0651/IT-Services/internal/app/model/api"
	"github.com/imzamam0651/IT-Services/internal/app/repo"
	"github.com/imzamam0651/IT-Services/internal/client/email"
	"github.com/imzamam0651/IT-Services/internal/client/razorpay"
	"github.com/imzamam0651/IT-Services/internal/config"
	"github.com/imzamam0651/IT-Services/internal/service"
	"github.com/imzamam0651/IT-Services/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Setup logger
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.Info("Starting IT-Services catalog service")

	// Setup database
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to setup database: %v", err)
	}
	defer db.Close()

	// Setup Redis
	redisClient, err := setupRedis(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to setup Redis: %v", err)
	}
	defer redisClient.Close()

	// Setup dependencies
	userRepo := repo.NewUserRepository(db)
	otpRepo := repo.NewOTPRepository(db)
	serviceRepo := repo.NewServiceRepository(db)
	orderRepo := repo.NewPaymentOrderRepository(db)
	sessionRepo := repo.NewSessionRepository(redisClient)

	emailClient := email.NewClient(
		cfg.Email.ServiceURL,
		time.Duration(cfg.Email.Timeout)*time.Second,
		logger,
	)

	// The gateway client is constructed once here and handed to the
	// payment service, never reached through package state.
	gateway := razorpay.NewClient(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.BaseURL,
		time.Duration(cfg.Razorpay.Timeout)*time.Second,
		logger,
	)

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)

	serviceConfig := &service.Config{
		OTPTTL:          time.Duration(cfg.App.OTPTTL) * time.Second,
		RefreshTokenTTL: time.Duration(cfg.JWT.RefreshTokenTTL) * time.Second,
	}

	authService := service.NewAuthService(
		userRepo,
		otpRepo,
		sessionRepo,
		emailClient,
		jwtManager,
		logger,
		serviceConfig,
	)
	catalogService := service.NewCatalogService(serviceRepo, logger)
	paymentService := service.NewPaymentService(
		serviceRepo,
		orderRepo,
		gateway,
		cfg.Razorpay.Currency,
		logger,
	)

	// Setup router
	router := setupRouter(authService, catalogService, paymentService, jwtManager, logger)

	// Setup HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

func setupDatabase(cfg *config.Config, logger *logrus.Logger) (*bun.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	// Add query hook for debugging in development
	if cfg.App.Environment == "development" {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connected successfully")
	return db, nil
}

func setupRedis(cfg *config.Config, logger *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connected successfully")
	return client, nil
}

func setupRouter(
	authService service.AuthService,
	catalogService service.CatalogService,
	paymentService service.PaymentService,
	jwtManager *utils.JWTManager,
	logger *logrus.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Setup middleware
	loggingMiddleware := chiMiddleware.NewChiLoggingMiddleware(logger)

	r.Use(middleware.RequestID)
	r.Use(loggingMiddleware.Logger())
	r.Use(loggingMiddleware.Recovery())
	r.Use(chiMiddleware.CORS())
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, &api.HealthResponse{
			Status:  "healthy",
			Service: "it-services",
			Version: "1.0.0",
		})
	})

	// API versioning
	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			authHandler := v1.NewAuthHandler(authService, jwtManager, logger)
			authHandler.RegisterRoutes(r)

			catalogHandler := v1.NewCatalogHandler(catalogService, paymentService, authHandler, logger)
			catalogHandler.RegisterRoutes(r)

			paymentHandler := v1.NewPaymentHandler(paymentService, logger)
			paymentHandler.RegisterRoutes(r)
		})
	})

	return r
}
