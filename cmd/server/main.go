package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sweetshop/api/internal/config"
	"github.com/sweetshop/api/internal/httpserver"
	"github.com/sweetshop/api/internal/models"
	"github.com/sweetshop/api/internal/repo"
	"github.com/sweetshop/api/internal/search"
	"github.com/sweetshop/api/internal/service"
	pkgdb "github.com/sweetshop/api/pkg/db"
	"github.com/sweetshop/api/pkg/events"
	"github.com/sweetshop/api/pkg/logging"
	loggingmw "github.com/sweetshop/api/pkg/middleware/logging"
	"github.com/sweetshop/api/pkg/tokens"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Sweet{}, &models.Order{}, &models.OrderItem{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	tokenCfg := tokens.Config{Secret: cfg.JWTSecret, Expiry: cfg.JWTExpiry}

	producer := events.NewProducer(cfg.KafkaBrokers, events.TopicShopEvents)
	if producer == nil {
		logger.Warn("kafka disabled, no brokers configured")
	}

	index, err := search.New(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search falls back to SQL", "error", err)
		index = nil
	}

	gormRepo := &repo.GormRepo{DB: db}

	deps := &httpserver.Deps{
		AuthHandler:  &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: gormRepo, Tokens: tokenCfg, Events: producer}},
		SweetHandler: &httpserver.SweetHTTP{Svc: &service.CatalogService{Repo: gormRepo, Index: index, Events: producer}},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: gormRepo, Events: producer}},
		UserHandler:  &httpserver.UserHTTP{Svc: &service.UserService{Repo: gormRepo}},
		Tokens:       tokenCfg,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("sweetshop listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		_ = producer.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("sweetshop stopped")
}
