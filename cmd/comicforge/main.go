package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authapp "comicforge/internal/app/auth"
	"comicforge/internal/app/generation"
	paymentsapp "comicforge/internal/app/payments"
	"comicforge/internal/config"
	"comicforge/internal/delegate"
	"comicforge/internal/gateway/razorpay"
	auth_http "comicforge/internal/handler/http/auth"
	generation_http "comicforge/internal/handler/http/generation"
	guard_middleware "comicforge/internal/handler/http/middleware"
	payments_http "comicforge/internal/handler/http/payments"
	"comicforge/internal/infrastructure/database"
	kafka_infra "comicforge/internal/infrastructure/kafka"
	"comicforge/internal/oauth"
	"comicforge/internal/outbox"
	"comicforge/internal/profanity"
	"comicforge/internal/repository/images_repo"
	"comicforge/internal/repository/orders_repo"
	"comicforge/internal/repository/outbox_repo"
	"comicforge/internal/repository/users_repo"
	"comicforge/internal/session"
	"comicforge/internal/token"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.EncoderConfig.TimeKey = "timestamp"

	appLogger, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create zap logger: %v\n", err)
		os.Exit(1)
	}
	appLogger.Info("comicforge backend starting...")

	dbConfig := database.DBConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.Name,
		SSLMode:  cfg.DBConfig.SSLMode,
	}

	var db *sql.DB
	maxRetries := 10
	retryDelay := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = database.NewPostgresDB(dbConfig)
		if err == nil {
			appLogger.Info("Successfully connected to PostgreSQL database")
			break
		}
		appLogger.Warn(fmt.Sprintf("Failed to connect to database (attempt %d/%d): %v. Retrying in %s...", i+1, maxRetries, err, retryDelay))
		time.Sleep(retryDelay)
	}
	if db == nil {
		appLogger.Fatal("Could not connect to database after multiple retries. Exiting.", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Error closing database connection", zap.Error(err))
		}
	}()

	appLogger.Info("Running database migrations...")
	m, err := migrate.New(cfg.MigrationsPath, cfg.GetDBMigrationConnectionString())
	if err != nil {
		appLogger.Fatal("Failed to create migrate instance", zap.Error(err))
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		appLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	appLogger.Info("Database migrations completed.")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()
	sessionStore := session.NewRedisStore(redisClient, cfg.SessionTTL)

	userRepository := users_repo.NewUserRepository(db)
	orderRepository := orders_repo.NewOrderRepository(db)
	imageRepository := images_repo.NewImageRepository(db)
	outboxRepository := outbox_repo.NewOutboxRepository(db)

	tokenManager := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	googleClient := oauth.NewGoogleClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectURL)
	gatewayClient := razorpay.NewClient(cfg.GatewayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.GatewayTimeout,
		appLogger.With(zap.String("component", "RazorpayClient")))
	delegateClient := delegate.NewClient(cfg.MLPipelineURL, cfg.MLPipelineTimeout,
		appLogger.With(zap.String("component", "DelegateClient")))

	authService := authapp.NewAuthService(db, userRepository, tokenManager, sessionStore, googleClient,
		appLogger.With(zap.String("component", "AuthService")))
	paymentService := paymentsapp.NewPaymentService(db, userRepository, orderRepository, outboxRepository,
		gatewayClient, cfg.RazorpayKeySecret, cfg.GatewayConfigured(),
		appLogger.With(zap.String("component", "PaymentService")))
	generationService := generation.NewGenerationService(db, imageRepository, delegateClient, profanity.NewFilter(),
		appLogger.With(zap.String("component", "GenerationService")))

	guard := guard_middleware.NewGuard(authService, tokenManager,
		appLogger.With(zap.String("component", "AccessGuard")))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(120 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	authHandler := auth_http.NewAuthHandler(authService, googleClient, auth_http.CookieConfig{
		Domain:     cfg.CookieDomain,
		Secure:     cfg.CookieSecure,
		TokenTTL:   cfg.TokenTTL,
		SessionTTL: cfg.SessionTTL,
	}, cfg.FrontendURL, appLogger.With(zap.String("component", "AuthHTTPHandler")))

	auth_http.RegisterRoutes(router, authHandler)
	payments_http.RegisterRoutes(router, paymentService, guard, appLogger)
	generation_http.RegisterRoutes(router, generationService, guard, appLogger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	kafkaProducer := kafka_infra.NewProducer([]string{cfg.KafkaBrokerURL},
		appLogger.With(zap.String("component", "KafkaProducer")))
	defer func() {
		if err := kafkaProducer.Close(); err != nil {
			appLogger.Error("Error closing Kafka producer", zap.Error(err))
		}
	}()

	outboxProcessor := outbox.NewProcessor(
		db,
		outboxRepository,
		kafkaProducer,
		cfg.KafkaPaymentEventTopic,
		cfg.OutboxPollInterval,
		cfg.OutboxPollTimeout,
		appLogger.With(zap.String("component", "OutboxProcessor")),
	)

	ctxMain, cancelMain := context.WithCancel(context.Background())

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go outboxProcessor.Start(ctxMain)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	appLogger.Info("Shutting down application...")

	cancelMain()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		appLogger.Info("HTTP server gracefully shut down.")
	}

	appLogger.Info("Application gracefully shut down.")
}
