package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ecom-labs/storefront/internal/api"
	"github.com/ecom-labs/storefront/internal/auth"
	"github.com/ecom-labs/storefront/internal/cache"
	"github.com/ecom-labs/storefront/internal/cart"
	"github.com/ecom-labs/storefront/internal/catalog"
	"github.com/ecom-labs/storefront/internal/checkout"
	"github.com/ecom-labs/storefront/internal/invoice"
	"github.com/ecom-labs/storefront/internal/payment"
	"github.com/ecom-labs/storefront/internal/repository"
)

type Config struct {
	HTTPPort          string
	DBHost            string
	DBPort            int
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	MigrationsDirPath string
	RedisAddr         string
	RedisPassword     string
	PaymentBaseURL    string
	PaymentKeyID      string
	PaymentKeySecret  string
	PaymentTimeout    time.Duration
	SessionTTL        time.Duration
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnvInt("DB_PORT", 5432),
		DBUser:            getEnv("DB_USER", "storefront"),
		DBPassword:        getEnv("DB_PASSWORD", "storefront"),
		DBName:            getEnv("DB_NAME", "storefront"),
		DBSSLMode:         getEnv("DB_SSLMODE", "disable"),
		MigrationsDirPath: getEnv("MIGRATIONS_DIR", "migrations"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		PaymentBaseURL:    getEnv("PAYMENT_BASE_URL", "https://api.razorpay.com"),
		PaymentKeyID:      getEnv("PAYMENT_KEY_ID", ""),
		PaymentKeySecret:  getEnv("PAYMENT_KEY_SECRET", ""),
		PaymentTimeout:    15 * time.Second,
		SessionTTL:        24 * time.Hour,
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("invalid %s=%q, using %d", key, os.Getenv(key), defaultValue)
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	db, err := repository.NewDB(&repository.Credentials{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := repository.RunMigrations(db, cfg.MigrationsDirPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db, cartRepo)
	userRepo := repository.NewUserRepository(db)

	productCache := cache.NewRedisCache(redisClient)
	sessions := auth.NewSessions(redisClient, cfg.SessionTTL)

	gateway := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentKeyID, cfg.PaymentKeySecret, cfg.PaymentTimeout)

	catalogSvc := catalog.NewService(productRepo, productCache)
	cartSvc := cart.NewService(cartRepo)
	checkoutSvc := checkout.NewService(orderRepo, gateway, cfg.PaymentTimeout)
	authSvc := auth.NewService(userRepo)
	renderer := invoice.NewRenderer()

	router := api.NewRouter(
		api.RouterConfig{RequestTimeout: cfg.RequestTimeout},
		sessions,
		api.NewAuthHandler(authSvc, sessions, cfg.RequestTimeout),
		api.NewProductHandler(catalogSvc, cfg.RequestTimeout),
		api.NewCartHandler(cartSvc, cfg.RequestTimeout),
		api.NewOrdersHandler(checkoutSvc, renderer, userRepo, cfg.RequestTimeout),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
