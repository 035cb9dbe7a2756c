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

	"brawler.dev/levelgen/internal/config"
	"brawler.dev/levelgen/internal/handlers"
	"brawler.dev/levelgen/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	storage, err := store.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer storage.Close()

	router, err := handlers.SetupRoutes(cfg, storage)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Level server listening on %s (%s, %s storage)", cfg.Server.Addr, cfg.Server.Environment, cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
