package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/lnanh2k4/zentrix-sub001/internal/availability"
	"github.com/lnanh2k4/zentrix-sub001/internal/b2b"
	"github.com/lnanh2k4/zentrix-sub001/internal/cache"
	"github.com/lnanh2k4/zentrix-sub001/internal/cart"
	"github.com/lnanh2k4/zentrix-sub001/internal/checkout"
	"github.com/lnanh2k4/zentrix-sub001/internal/httpapi"
	"github.com/lnanh2k4/zentrix-sub001/internal/outbox"
	"github.com/lnanh2k4/zentrix-sub001/internal/payment"
	"github.com/lnanh2k4/zentrix-sub001/internal/platform"
	"github.com/lnanh2k4/zentrix-sub001/internal/promotion"
	"github.com/lnanh2k4/zentrix-sub001/internal/session"
)

type Config struct {
	HTTPPort        string
	PlatformAPIURL  string
	PlatformTimeout time.Duration
	RedisAddr       string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsDir   string
	MongoURI        string
	MongoDB         string
	KafkaBrokers    []string
	ReturnURL       string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		PlatformAPIURL:  getEnv("PLATFORM_API_URL", "http://localhost:9090"),
		PlatformTimeout: 10 * time.Second,
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:      getEnv("POSTGRES_DB", "storefront"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "internal/checkout/migrations"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "storefront"),
		KafkaBrokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		ReturnURL:       getEnv("PAYMENT_RETURN_URL", "http://localhost:8080/api/v1/payments"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
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
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	cred := &checkout.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPass,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsDir,
	}
	attemptStore, err := checkout.NewPostgresStore(cred)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer attemptStore.Close()
	if err := attemptStore.RunMigrations(cred); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 15*time.Second)
	mongoDB, err := b2b.ConnectMongoDB(mongoCtx, cfg.MongoURI, cfg.MongoDB)
	mongoCancel()
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoDB.Client().Disconnect(ctx); err != nil {
			log.Printf("mongodb disconnect: %v", err)
		}
	}()

	platformClient := platform.NewClient(cfg.PlatformAPIURL, cfg.PlatformTimeout)

	sessionStore := session.NewRedisStore(redisClient)
	viewCache := cache.NewRedisCache(redisClient)

	resolver := availability.NewResolver(platformClient)
	cartService := cart.NewService(platformClient, resolver, viewCache)
	promotionService := promotion.NewService(platformClient)

	orchestrator := checkout.NewOrchestrator(platformClient, attemptStore)
	reconciler := payment.NewReconciler(platformClient, orchestrator, sessionStore, cfg.ReturnURL)

	salesWriter := b2b.NewSalesWriter(cfg.KafkaBrokers...)
	defer salesWriter.Close()
	b2bService := b2b.NewService(b2b.NewMongoRepository(mongoDB), salesWriter)

	poller := outbox.NewPoller(attemptStore, cfg.KafkaBrokers...)
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	go poller.Run(pollerCtx)

	cartHandler := httpapi.NewCartHandler(cartService, sessionStore, cfg.RequestTimeout)
	checkoutHandler := httpapi.NewCheckoutHandler(cartService, orchestrator, reconciler, promotionService, sessionStore, cfg.RequestTimeout)
	paymentHandler := httpapi.NewPaymentHandler(reconciler, cfg.RequestTimeout)
	promotionHandler := httpapi.NewPromotionHandler(promotionService, cfg.RequestTimeout)
	ordersHandler := httpapi.NewOrdersHandler(platformClient, cfg.RequestTimeout)
	b2bHandler := httpapi.NewB2BHandler(b2bService, cfg.RequestTimeout)
	branchHandler := httpapi.NewBranchHandler(platformClient, sessionStore, cfg.RequestTimeout)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httpapi.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(httpapi.SessionAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/branches", func(r chi.Router) {
			r.Get("/", branchHandler.ListBranches)
			r.Put("/selected", branchHandler.SelectBranch)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Put("/groups/{group_key}/quantity", cartHandler.UpdateQuantity)
			r.Delete("/groups/{group_key}", cartHandler.RemoveGroup)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", checkoutHandler.Checkout)
			r.Post("/preview", checkoutHandler.Preview)
		})
		r.Get("/payments/{gateway}/return", paymentHandler.Callback)
		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", promotionHandler.ListUsable)
			r.Post("/claims", promotionHandler.Claim)
		})
		r.Get("/orders", ordersHandler.ListOrders)
		r.Route("/b2b-requests", func(r chi.Router) {
			r.Post("/", b2bHandler.SubmitRequest)
			r.Get("/", b2bHandler.History)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
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
	pollerCancel()
	poller.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
