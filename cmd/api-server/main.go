package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shelfswap/shelfswap/internal/auth"
	"github.com/shelfswap/shelfswap/internal/cache"
	"github.com/shelfswap/shelfswap/internal/clickhouse"
	"github.com/shelfswap/shelfswap/internal/config"
	"github.com/shelfswap/shelfswap/internal/database"
	"github.com/shelfswap/shelfswap/internal/events"
	"github.com/shelfswap/shelfswap/internal/handlers"
	"github.com/shelfswap/shelfswap/internal/logger"
	"github.com/shelfswap/shelfswap/internal/middleware"
	usermodel "github.com/shelfswap/shelfswap/internal/models/user"
	redisclient "github.com/shelfswap/shelfswap/internal/redis"
	"github.com/shelfswap/shelfswap/internal/service"
	"github.com/shelfswap/shelfswap/internal/storage"
)

func main() {
	log := logger.New("api-server")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	dbManager, err := database.NewDBManager(ctx, database.Config{
		PrimaryDSN:      cfg.Database.PrimaryDSN,
		ReplicaDSNs:     cfg.Database.ReplicaDSNs,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()

	redisClient, err := redisclient.NewRedisClient(ctx, redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	analytics, err := clickhouse.NewClient(cfg.ClickHouse)
	if err != nil {
		log.Warn("ClickHouse unavailable, stats endpoint disabled: %v", err)
		analytics = nil
	} else {
		defer analytics.Close()
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userStore := storage.NewPostgresUserStore(dbManager)
	bookStore := storage.NewPostgresBookStore(dbManager)

	bookCache := cache.NewMultiTierCache(cfg.Cache.L1Capacity, redisClient.GetClient(), cfg.Cache.L2TTL)
	viewProducer := events.NewViewProducer(redisClient.GetClient(), cfg.Redis.StreamName)

	authService := service.NewAuthService(userStore, jwtManager)
	bookService := service.NewBookService(bookStore, bookCache, viewProducer)

	authHandler := handlers.NewAuthHandler(authService)
	bookHandler := handlers.NewBookHandler(bookService, analytics, cfg.Server.BaseURL)
	healthHandler := handlers.NewHealthHandler(dbManager, redisClient)

	authMW := middleware.NewAuthMiddleware(jwtManager)
	limiter := middleware.NewRateLimiter(redisClient.GetClient(), cfg.RateLimit.Requests, cfg.RateLimit.Window)

	createBook := authMW.RequireAuth(authMW.RequireRole(usermodel.RoleOwner, bookHandler.Create))
	updateBook := authMW.RequireAuth(bookHandler.UpdateStatus)
	bookStats := authMW.RequireAuth(bookHandler.Stats)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/api/auth/register", limiter.Middleware(authHandler.Register))
	mux.HandleFunc("/api/auth/login", limiter.Middleware(authHandler.Login))
	mux.HandleFunc("/api/auth/me", authMW.RequireAuth(authHandler.Me))

	mux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createBook(w, r)
		case http.MethodGet:
			bookHandler.List(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/books/", func(w http.ResponseWriter, r *http.Request) {
		_, sub := handlers.SplitBookPath(r.URL.Path)
		switch {
		case sub == "" && r.Method == http.MethodGet:
			bookHandler.Get(w, r)
		case sub == "" && r.Method == http.MethodPut:
			updateBook(w, r)
		case sub == "qr" && r.Method == http.MethodGet:
			bookHandler.ShareQR(w, r)
		case sub == "stats" && r.Method == http.MethodGet:
			bookStats(w, r)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: mux,
	}

	go func() {
		log.Info("Listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down api server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error: %v", err)
	}
	log.Info("Api server stopped")
}
