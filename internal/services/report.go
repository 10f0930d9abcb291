package services

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/Lllllllleong/applicationtracker/internal/gcp"
	"github.com/Lllllllleong/applicationtracker/internal/models"
)

// GCSReportWriter stores each sync report as a JSON object in a bucket.
type GCSReportWriter struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewGCSReportWriter(client *storage.Client, bucketName string) *GCSReportWriter {
	return &GCSReportWriter{bucket: client.Bucket(bucketName), bucketName: bucketName}
}

// ReportObjectName is the object a report is stored under.
func ReportObjectName(report *models.SyncReport) string {
	return fmt.Sprintf("sync-reports/%s-%s.json", report.StartedAt.UTC().Format("20060102T150405Z"), report.SyncID)
}

func (w *GCSReportWriter) WriteReport(ctx context.Context, report *models.SyncReport) error {
	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sync report: %w", err)
	}
	objectName := ReportObjectName(report)
	if err := gcp.SaveToGCSAtomically(ctx, w.bucket, objectName, "application/json", content); err != nil {
		return err
	}
	return nil
}
