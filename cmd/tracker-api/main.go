package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/applicationtracker/internal/gcp"
	"github.com/Lllllllleong/applicationtracker/internal/handlers"
	"github.com/Lllllllleong/applicationtracker/internal/services"
	"github.com/joho/godotenv"
)

const functionTarget = "HandleTracker"

var (
	router  http.Handler
	once    sync.Once
	initErr error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP(functionTarget, handleTracker)
}

// main serves the function locally. Deployed functions never reach it.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded", "error", err)
	}
	if os.Getenv("FUNCTION_TARGET") == "" {
		os.Setenv("FUNCTION_TARGET", functionTarget)
	}

	port := gcp.GetEnv("PORT", "8080")
	slog.Info("Starting tracker API", "port", port)
	if err := funcframework.Start(port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

// handleTracker is the HTTP entry point; it routes to every tracker endpoint.
func handleTracker(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		var backend *services.Backend
		backend, initErr = services.NewBackend(context.Background())
		if initErr != nil {
			return
		}
		if !backend.GmailConfigured() {
			slog.Warn("GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET is not set; Gmail connect will fail.")
		}
		router = handlers.NewFromBackend(backend).Routes()
	})
	if initErr != nil {
		slog.Error("Critical: tracker initialization failed", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	router.ServeHTTP(w, r)
}
