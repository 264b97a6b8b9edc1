package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookcook/bookcook/internal/database"
	"github.com/bookcook/bookcook/internal/logging"
	"github.com/bookcook/bookcook/internal/server"
)

func main() {
	port := os.Getenv("BOOKCOOK_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("BOOKCOOK_DB_PATH")
	if dbPath == "" {
		dbPath = "bookcook.db"
	}

	logger := logging.Setup(os.Getenv("BOOKCOOK_LOG_LEVEL"), os.Getenv("BOOKCOOK_LOG_FORMAT"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := server.New(db, logger)

	// Hourly sweep of expired sessions and stale rate-limit windows.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup failed", "error", err)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupDone:
				return
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Book Cook running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	close(cleanupDone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
