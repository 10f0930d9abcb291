package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/Lllllllleong/applicationtracker/internal/classifier"
	"github.com/Lllllllleong/applicationtracker/internal/mailbox"
	"github.com/Lllllllleong/applicationtracker/internal/models"
	"github.com/Lllllllleong/applicationtracker/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	// SyncQuery restricts a sync pass to the last 30 days of mail.
	SyncQuery = "newer_than:30d"
	// MaxSyncMessages caps how many messages one pass will scan.
	MaxSyncMessages = 1000
)

// SourceFactory opens a mailbox for a caller-held token pair.
type SourceFactory func(ctx context.Context, tok *oauth2.Token) (mailbox.Source, error)

// PositionExtractor refines a position title the heuristic could not find.
type PositionExtractor interface {
	ExtractPosition(ctx context.Context, subject string) (string, error)
}

// ReportWriter archives the outcome of a sync pass.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *models.SyncReport) error
}

// SyncFunction scans the inbox and creates records for detected applications.
type SyncFunction struct {
	repo      repository.Repository
	newSource SourceFactory
	positions PositionExtractor
	reports   ReportWriter
	now       func() time.Time
}

// NewSyncFunction wires a sync pass. positions and reports may be nil.
func NewSyncFunction(repo repository.Repository, newSource SourceFactory, positions PositionExtractor, reports ReportWriter) *SyncFunction {
	return &SyncFunction{
		repo:      repo,
		newSource: newSource,
		positions: positions,
		reports:   reports,
		now:       time.Now,
	}
}

// GmailSourceFactory returns a SourceFactory backed by the Gmail API.
func GmailSourceFactory(cfg *oauth2.Config) SourceFactory {
	return func(ctx context.Context, tok *oauth2.Token) (mailbox.Source, error) {
		return mailbox.NewGmailSource(ctx, cfg, tok)
	}
}

// Process runs one sync pass. Messages that fail to fetch or decode are logged
// and skipped; only a missing connection or a failed listing aborts the pass.
func (f *SyncFunction) Process(ctx context.Context, tok *oauth2.Token) (*models.SyncResponse, error) {
	if tok == nil || tok.AccessToken == "" {
		return nil, ErrNotConnected
	}

	report := &models.SyncReport{SyncID: uuid.NewString(), StartedAt: f.now()}
	logCtx := slog.With("syncId", report.SyncID)
	logCtx.Info("Starting Gmail sync.")

	source, err := f.newSource(ctx, tok)
	if err != nil {
		logCtx.Error("Failed to open mailbox", "error", err)
		return nil, err
	}

	ids, err := listMessageIDs(ctx, source)
	if err != nil {
		if mailbox.IsUnauthorized(err) {
			logCtx.Warn("Gmail rejected the stored tokens", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
		logCtx.Error("Failed to list messages", "error", err)
		return nil, err
	}
	report.TotalMessages = len(ids)
	logCtx.Info("Listed messages.", "messageCount", len(ids))

	for _, id := range ids {
		createdID, err := f.processMessage(ctx, source, id)
		if err != nil {
			report.FailedMessages++
			logCtx.Error("Error processing message", "messageId", id, "error", err)
			continue
		}
		if createdID != "" {
			report.NewApplications++
			report.CreatedIDs = append(report.CreatedIDs, createdID)
		}
	}
	report.FinishedAt = f.now()

	if f.reports != nil {
		if err := f.reports.WriteReport(ctx, report); err != nil {
			logCtx.Warn("Failed to archive sync report", "error", err)
		}
	}

	logCtx.Info("Gmail sync complete.",
		"totalMessages", report.TotalMessages,
		"newApplications", report.NewApplications,
		"failedMessages", report.FailedMessages,
	)
	return &models.SyncResponse{
		Success:         true,
		NewApplications: report.NewApplications,
		TotalMessages:   report.TotalMessages,
	}, nil
}

// listMessageIDs pages through the query results until the source is
// exhausted or MaxSyncMessages ids have been collected.
func listMessageIDs(ctx context.Context, source mailbox.Source) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		page, next, err := source.ListMessageIDs(ctx, SyncQuery, pageToken)
		if err != nil {
			return nil, err
		}
		ids = append(ids, page...)
		if len(ids) >= MaxSyncMessages {
			return ids[:MaxSyncMessages], nil
		}
		if next == "" {
			return ids, nil
		}
		pageToken = next
	}
}

// processMessage classifies one message and creates a record for it when it is
// an application not seen before. It returns the new record's ID, or "".
func (f *SyncFunction) processMessage(ctx context.Context, source mailbox.Source, id string) (string, error) {
	msg, err := source.GetMessage(ctx, id)
	if err != nil {
		return "", err
	}
	if msg == nil || msg.Payload == nil {
		return "", errors.New("message has no payload")
	}

	subject := mailbox.Header(msg, "Subject")
	from := mailbox.Header(msg, "From")
	body, err := mailbox.CollectText(msg.Payload)
	if err != nil {
		return "", err
	}

	result := classifier.Classify(subject, body, from)
	if !result.IsApplication {
		return "", nil
	}

	existing, err := f.repo.FindByEmailID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to look up email %s: %w", id, err)
	}
	if len(existing) > 0 {
		return "", nil
	}

	position := result.Position
	if position == classifier.UnknownPosition && f.positions != nil {
		if p, err := f.positions.ExtractPosition(ctx, subject); err != nil {
			slog.Warn("Position extraction failed, keeping heuristic value", "messageId", id, "error", err)
		} else if p != "" {
			position = p
		}
	}

	now := f.now()
	app := models.Application{
		Company:         result.Company,
		Position:        position,
		ApplicationDate: messageDate(mailbox.Header(msg, "Date"), now),
		Status:          result.Status,
		LastUpdate:      now,
		EmailID:         id,
		Notes:           "Auto-detected from email: " + subject,
		CreatedAt:       now,
	}
	createdID, err := f.repo.Create(ctx, app)
	if err != nil {
		return "", err
	}
	slog.Info("Application detected from email.", "messageId", id, "applicationId", createdID, "status", app.Status)
	return createdID, nil
}

// messageDate parses an RFC 5322 Date header, falling back to now.
func messageDate(header string, now time.Time) time.Time {
	if header == "" {
		return now
	}
	t, err := mail.ParseDate(header)
	if err != nil {
		return now
	}
	return t.UTC()
}
