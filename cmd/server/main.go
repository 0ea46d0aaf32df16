package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nasiyahub/ledger-engine/internal/config"
	"github.com/nasiyahub/ledger-engine/internal/handler"
	"github.com/nasiyahub/ledger-engine/internal/repository"
	"github.com/nasiyahub/ledger-engine/internal/service"
	"github.com/nasiyahub/ledger-engine/internal/storage"
	"github.com/nasiyahub/ledger-engine/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := newLogger(cfg)

	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	imageStore, err := storage.NewMinioStore(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := imageStore.EnsureBucket(context.Background()); err != nil {
		log.Warnf("Could not ensure storage bucket: %v", err)
	}

	// Repositories
	debtRepo := repository.NewDebtRepository(db)
	debtorRepo := repository.NewDebtorRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	imageRepo := repository.NewDebtImageRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	atomic := repository.NewAtomicRunner(db)

	// Services
	statsCache := service.NewRedisStatsCache(redisClient, cfg.Business.StatsCacheTTL, log)
	ledgerService := service.NewLedgerService(debtRepo, debtorRepo, paymentRepo, imageRepo, storeRepo, atomic, imageStore, statsCache, log)
	statsService := service.NewStatisticsService(storeRepo, debtorRepo, debtRepo, paymentRepo, statsCache, log,
		cfg.Business.LateBlockDays, cfg.Business.ReminderWindowDays)
	authService := service.NewAuthService(storeRepo, cfg.JWT.Secret, cfg.JWT.TTL, log)

	// Handlers
	debtHandler := handler.NewDebtHandler(ledgerService, log)
	paymentHandler := handler.NewPaymentHandler(ledgerService, log)
	debtorHandler := handler.NewDebtorHandler(ledgerService, log)
	statsHandler := handler.NewStatisticsHandler(statsService, log)
	authHandler := handler.NewAuthHandler(authService, log)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(cfg, log, debtHandler, paymentHandler, debtorHandler, statsHandler, authHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	cfg *config.Config,
	log *logrus.Logger,
	debtHandler *handler.DebtHandler,
	paymentHandler *handler.PaymentHandler,
	debtorHandler *handler.DebtorHandler,
	statsHandler *handler.StatisticsHandler,
	authHandler *handler.AuthHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.CORSMiddleware)
	router.Use(response.LoggingMiddleware(log))

	// Public routes
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")
	router.HandleFunc("/auth/sign-in", authHandler.SignIn).Methods("POST")

	// API routes behind bearer-token auth
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(handler.JWTAuth(cfg.JWT.Secret))

	api.HandleFunc("/debt", debtHandler.Create).Methods("POST")
	api.HandleFunc("/debt/find-pagination", debtHandler.FindPagination).Methods("GET")
	api.HandleFunc("/debt/image/{id}", debtHandler.AttachImage).Methods("POST")
	api.HandleFunc("/debt/image/{id}", debtHandler.DeleteImage).Methods("DELETE")
	api.HandleFunc("/debt/images/{id}", debtHandler.ListImages).Methods("GET")
	api.HandleFunc("/debt/{id}", debtHandler.Get).Methods("GET")
	api.HandleFunc("/debt/{id}", debtHandler.Update).Methods("PATCH")
	api.HandleFunc("/debt/{id}", debtHandler.Delete).Methods("DELETE")

	api.HandleFunc("/payments", paymentHandler.Create).Methods("POST")
	api.HandleFunc("/payments/debt/{debtId}", paymentHandler.ListByDebt).Methods("GET")

	api.HandleFunc("/debtor", debtorHandler.Create).Methods("POST")
	api.HandleFunc("/debtor/{id}", debtorHandler.Get).Methods("GET")
	api.HandleFunc("/debtor/{id}/phones", debtorHandler.AddPhone).Methods("POST")

	api.HandleFunc("/store-statistics/daily", statsHandler.Daily).Methods("GET")
	api.HandleFunc("/store-statistics/late-payments", statsHandler.LatePayments).Methods("GET")
	api.HandleFunc("/store-statistics/{storeId}/monthly", statsHandler.Monthly).Methods("GET")
	api.HandleFunc("/store-statistics/{storeId}/debtors", statsHandler.Debtors).Methods("GET")
	api.HandleFunc("/store-statistics/{storeId}/update-stats", statsHandler.UpdateStats).Methods("GET")
	api.HandleFunc("/store-statistics/{storeId}/dashboard", statsHandler.Dashboard).Methods("GET")

	api.HandleFunc("/statistics/totalDept", statsHandler.TotalDebt).Methods("GET")

	return router
}
