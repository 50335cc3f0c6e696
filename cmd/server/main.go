package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/storedesk/storesapi/internal/apperror"
	"github.com/storedesk/storesapi/internal/blocklist"
	"github.com/storedesk/storesapi/internal/config"
	"github.com/storedesk/storesapi/internal/db"
	"github.com/storedesk/storesapi/internal/events"
	"github.com/storedesk/storesapi/internal/handlers"
	"github.com/storedesk/storesapi/internal/logging"
	"github.com/storedesk/storesapi/internal/middleware"
	"github.com/storedesk/storesapi/internal/repo"
	"github.com/storedesk/storesapi/internal/search"
	"github.com/storedesk/storesapi/internal/tokens"
	httpserver "github.com/storedesk/storesapi/internal/transport/http"
	"github.com/storedesk/storesapi/internal/validate"
)

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET_KEY")

	logger := logging.New(cfg.LogLevel)

	gormDB, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("database migrate error: %v", err)
	}

	issuer, err := tokens.NewIssuer(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("token issuer error: %v", err)
	}

	bl := blocklist.New()

	producer := events.NewProducer(cfg.KafkaBrokers)

	searchClient, err := search.New(search.Config{
		URL:      cfg.ES_URL,
		User:     cfg.ES_USER,
		Password: cfg.ES_PASSWORD,
		Index:    "items",
	})
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}

	r := &repo.GormRepo{DB: gormDB}
	auth := middleware.NewAuth(issuer, bl)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperror.EchoErrorHandler
	e.Validator = validate.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	deps := httpserver.Deps{
		Auth:         auth,
		AuthHandler:  &handlers.AuthHandler{Repo: r, Issuer: issuer, Blocklist: bl, Producer: producer},
		StoreHandler: &handlers.StoreHandler{Repo: r, Producer: producer},
		ItemHandler:  &handlers.ItemHandler{Repo: r, Producer: producer, Search: searchClient},
		TagHandler:   &handlers.TagHandler{Repo: r, Producer: producer},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
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
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
