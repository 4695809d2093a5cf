package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"book-reader/internal/config"
	"book-reader/internal/handler"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Wiring
	container, err := config.NewContainer()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	// Router
	router := handler.NewRouter(container)

	server := &http.Server{
		Addr:    ":" + container.Config.GetGatewayPort(),
		Handler: router,
	}

	// Run server
	go func() {
		container.Logger.Info("Reader gateway listening", "address", server.Addr, "library", container.Config.GetServiceBaseURL())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Gateway failed to start", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down gateway...")
	_ = server.Close()

	// Let queued progress saves drain before the process exits.
	container.ProgressSync.Stop()

	container.Logger.Info("Gateway exited")
}
