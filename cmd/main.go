/**
 * @description
 * This is the main entry point for the cancellation-service.
 * It initializes and wires together all the components of the application,
 * including configuration, the CRM and Stripe API clients, the optional
 * RabbitMQ event producer, the orchestration service, and the HTTP router.
 * Finally, it starts the HTTP server to listen for incoming webhooks.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/accessgate/cancellation-service/internal/api"
	"github.com/accessgate/cancellation-service/internal/app"
	"github.com/accessgate/cancellation-service/internal/config"
	"github.com/accessgate/cancellation-service/pkg/crmclient"
	"github.com/accessgate/cancellation-service/pkg/rabbitmq"
	"github.com/accessgate/cancellation-service/pkg/stripeclient"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load application configuration from environment variables
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up channel to listen for OS signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Construct the outbound API clients
	crm := crmclient.NewClient(cfg.CRMAPIBaseURL, cfg.CRMAPIKey, cfg.CRMLocationID)
	billing := stripeclient.NewClient(cfg.StripeSecretKey)

	// The event producer is optional: without a broker URL the service still
	// relays cancellations, it just publishes no events.
	var events app.EventPublisher
	if cfg.RabbitMQURL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("failed to connect to RabbitMQ, continuing without event publishing", "error", err)
		} else {
			defer producer.Close()
			events = producer
			logger.Info("event producer connected", "exchange", cfg.CancelEventExchange)
		}
	}

	// Initialize application layers
	service := app.NewService(crm, billing, events, cfg.CancelEventExchange, logger)
	handler := api.NewHandler(service, cfg.CRMAPIKey != "", cfg.StripeSecretKey != "")
	router := api.NewRouter(handler)

	// Configure and start the HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for an OS signal
	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	// Create a context with a timeout for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Attempt to gracefully shut down the server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	logger.Info("server stopped")
}
