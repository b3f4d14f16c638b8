package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/divaskloset/storefront/internal/config"
	"github.com/divaskloset/storefront/internal/events"
	"github.com/divaskloset/storefront/internal/httpserver"
	"github.com/divaskloset/storefront/internal/logging"
	"github.com/divaskloset/storefront/internal/mailer"
	"github.com/divaskloset/storefront/internal/repo"
	authsvc "github.com/divaskloset/storefront/internal/service/auth"
	ordersvc "github.com/divaskloset/storefront/internal/service/order"
	productsvc "github.com/divaskloset/storefront/internal/service/product"
	searchsvc "github.com/divaskloset/storefront/internal/service/search"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	store := repo.New(db)
	mail := mailer.NewSMTP(configuration)

	var producer events.Publisher
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewKafkaPublisher([]string{configuration.KAFKA_ADDRESS})
	}

	jwtSecret := []byte(configuration.JWT_SECRET)

	auth := &authsvc.Service{
		Store:     store,
		Mailer:    mail,
		Events:    producer,
		JWTSecret: jwtSecret,
		PublicURL: configuration.PUBLIC_URL,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), httpserver.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: auth, Production: configuration.Production()},
		ProductHandler: &httpserver.ProductHTTP{Svc: &productsvc.Service{Store: store, Events: producer}},
		SearchHandler:  &httpserver.SearchHTTP{Svc: &searchsvc.Service{Store: store}},
		OrderHandler:   &httpserver.OrderHTTP{Svc: &ordersvc.Service{Store: store, Events: producer}},
		UserHandler:    &httpserver.UserHTTP{Repo: store},
		JWTSecret:      jwtSecret,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
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

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
