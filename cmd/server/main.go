package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/restbuck/coffeeshop/internal/config"
	"github.com/restbuck/coffeeshop/internal/events"
	"github.com/restbuck/coffeeshop/internal/handlers"
	"github.com/restbuck/coffeeshop/internal/logging"
	authmw "github.com/restbuck/coffeeshop/internal/middleware/auth"
	loggingmw "github.com/restbuck/coffeeshop/internal/middleware/logging"
	"github.com/restbuck/coffeeshop/internal/middleware/ratelimit"
	"github.com/restbuck/coffeeshop/internal/notify"
	"github.com/restbuck/coffeeshop/internal/repo"
	"github.com/restbuck/coffeeshop/internal/service"
	httpserver "github.com/restbuck/coffeeshop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	brokers := []string{configuration.KAFKA_ADDRESS}
	prod, err := events.NewProducer(brokers, []string{configuration.ORDER_EVENT_TOPIC})
	if err != nil {
		log.Fatal(err)
	}

	gormRepo := &repo.GormRepo{DB: db}
	notifier := &notify.KafkaNotifier{
		Producer: prod,
		Topic:    configuration.ORDER_EVENT_TOPIC,
		Log:      logger,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	limiter := ratelimit.New()
	deps := httpserver.Deps{
		MenuHandler:  &handlers.MenuHandler{Svc: &service.CatalogService{Repo: gormRepo}},
		OrderHandler: &handlers.OrderHandler{Svc: &service.OrderService{Repo: gormRepo, Notifier: notifier}},
		Auth:         &authmw.RequireAuth{JWTSecret: []byte(configuration.JWT_SECRET)},
		Limiter:      limiter,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.HTTP_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	limiter.Close()

	log.Println("shutdown complete")
}
