package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/applicationtracker/internal/gcp"
	"github.com/Lllllllleong/applicationtracker/internal/services"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/joho/godotenv"
)

const functionTarget = "SweepStaleApplications"

var (
	sweeper *services.Sweeper
	once    sync.Once
	initErr error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Triggered by Cloud Scheduler through a Pub/Sub topic.
	functions.CloudEvent(functionTarget, sweepStaleApplications)
}

// main serves the function locally. Deployed functions never reach it.
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file loaded", "error", err)
	}
	if os.Getenv("FUNCTION_TARGET") == "" {
		os.Setenv("FUNCTION_TARGET", functionTarget)
	}

	port := gcp.GetEnv("PORT", "8081")
	if err := funcframework.Start(port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

// sweepStaleApplications ghosts every applied record past the staleness
// window, so records age even when nobody opens the tracker.
func sweepStaleApplications(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		var backend *services.Backend
		backend, initErr = services.NewBackend(context.Background())
		if initErr == nil {
			sweeper = backend.Sweeper
		}
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	logCtx := slog.With("eventId", e.ID(), "eventSource", e.Source(), "eventType", e.Type())
	logCtx.Info("Scheduled sweep started.")

	ghosted, err := sweeper.SweepAll(ctx)
	if err != nil {
		logCtx.Error("Scheduled sweep failed", "error", err)
		return err
	}

	logCtx.Info("Scheduled sweep complete.", "ghosted", ghosted)
	return nil
}
