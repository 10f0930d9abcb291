package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
)

// NewFirestoreClient opens the client behind the applications repository.
// Local runs and the repository tests point it at the emulator through
// FIRESTORE_EMULATOR_HOST, which the client library picks up on its own.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("NewFirestoreClient: projectID cannot be empty")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClient(%s): %w", projectID, err)
	}
	return client, nil
}
