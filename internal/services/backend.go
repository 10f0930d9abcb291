package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/applicationtracker/internal/gcp"
	"github.com/Lllllllleong/applicationtracker/internal/mailbox"
	"github.com/Lllllllleong/applicationtracker/internal/repository"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// Backend holds the process-wide clients and the services built on them.
type Backend struct {
	Config  TrackerConfig
	OAuth   *oauth2.Config
	Tracker *Tracker
	Sweeper *Sweeper
	Sync    *SyncFunction

	firestoreClient *firestore.Client
	storageClient   *storage.Client
	vertexClient    *gcp.VertexClient
}

// NewBackend loads configuration and creates every client the configuration
// asks for. Clients are created concurrently to shorten cold starts.
func NewBackend(ctx context.Context) (*Backend, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	b := &Backend{Config: *config}
	eg, gctx := errgroup.WithContext(ctx)
	if config.StoreBackend == StoreFirestore {
		eg.Go(func() error {
			client, err := gcp.NewFirestoreClient(gctx, config.ProjectID)
			if err != nil {
				return err
			}
			b.firestoreClient = client
			return nil
		})
	}
	if config.SyncReportBucket != "" {
		eg.Go(func() error {
			client, err := storage.NewClient(gctx)
			if err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
			b.storageClient = client
			return nil
		})
	}
	if config.PositionEnrichment {
		eg.Go(func() error {
			client, err := gcp.NewVertexClient(gctx, config.ProjectID, config.VertexAIRegion)
			if err != nil {
				return fmt.Errorf("failed to create vertex client: %w", err)
			}
			b.vertexClient = client
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		_ = b.Close()
		return nil, err
	}

	var repo repository.Repository
	if b.firestoreClient != nil {
		repo = repository.NewFirestoreRepository(b.firestoreClient, config.CollectionName)
	} else {
		slog.Warn("Using in-memory store; records are lost on restart.")
		repo = repository.NewMemoryRepository()
	}

	var reports ReportWriter
	if b.storageClient != nil {
		reports = NewGCSReportWriter(b.storageClient, config.SyncReportBucket)
	}
	var positions PositionExtractor
	if b.vertexClient != nil {
		positions = b.vertexClient
	}
	b.OAuth = mailbox.NewOAuthConfig(config.OAuth)
	b.Sweeper = NewSweeper(repo)
	b.Tracker = NewTracker(repo, b.Sweeper)
	b.Sync = NewSyncFunction(repo, GmailSourceFactory(b.OAuth), positions, reports)

	slog.Info("Tracker backend initialized.",
		"storeBackend", config.StoreBackend,
		"collection", config.CollectionName,
		"positionEnrichment", config.PositionEnrichment,
		"syncReportBucket", config.SyncReportBucket,
	)
	return b, nil
}

// GmailConfigured reports whether OAuth client credentials were supplied.
func (b *Backend) GmailConfigured() bool {
	return b.Config.OAuth.ClientID != "" && b.Config.OAuth.ClientSecret != ""
}

// Close releases every client that was created.
func (b *Backend) Close() error {
	var errs []error
	if b.firestoreClient != nil {
		errs = append(errs, b.firestoreClient.Close())
	}
	if b.storageClient != nil {
		errs = append(errs, b.storageClient.Close())
	}
	if b.vertexClient != nil {
		errs = append(errs, b.vertexClient.Close())
	}
	return errors.Join(errs...)
}
