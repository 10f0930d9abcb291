package services

import (
	"fmt"

	"github.com/Lllllllleong/applicationtracker/internal/gcp"
	"github.com/Lllllllleong/applicationtracker/internal/mailbox"
)

const (
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

// TrackerConfig holds all configuration for the tracker backend.
type TrackerConfig struct {
	ProjectID          string
	CollectionName     string
	StoreBackend       string
	VertexAIRegion     string
	PositionEnrichment bool
	SyncReportBucket   string
	CookieSecure       bool
	OAuth              mailbox.OAuthConfig
}

// loadConfig loads and validates all necessary environment variables.
func loadConfig() (*TrackerConfig, error) {
	config := &TrackerConfig{
		ProjectID:          gcp.GetEnv("PROJECT_ID", ""),
		CollectionName:     gcp.GetEnv("FIRESTORE_COLLECTION", "applications"),
		StoreBackend:       gcp.GetEnv("STORE_BACKEND", StoreFirestore),
		VertexAIRegion:     gcp.GetEnv("VERTEX_AI_REGION", "us-central1"),
		PositionEnrichment: gcp.GetEnvBool("POSITION_ENRICHMENT", false),
		SyncReportBucket:   gcp.GetEnv("SYNC_REPORT_BUCKET", ""),
		CookieSecure:       gcp.GetEnvBool("COOKIE_SECURE", false),
		OAuth: mailbox.OAuthConfig{
			ClientID:     gcp.GetEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: gcp.GetEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  gcp.GetEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/gmail/callback"),
		},
	}

	switch config.StoreBackend {
	case StoreFirestore, StoreMemory:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreFirestore, StoreMemory, config.StoreBackend)
	}
	if config.StoreBackend == StoreFirestore && config.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set for the firestore backend")
	}
	if config.PositionEnrichment && config.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set when POSITION_ENRICHMENT is enabled")
	}
	return config, nil
}
