// Package mailbox reads messages from a Gmail inbox.
package mailbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// PageSize is the number of message ids requested per list call.
const PageSize = 200

// Source lists and fetches messages from one mailbox.
type Source interface {
	ListMessageIDs(ctx context.Context, query, pageToken string) (ids []string, nextPageToken string, err error)
	GetMessage(ctx context.Context, id string) (*gmail.Message, error)
}

// GmailSource reads the authenticated user's mailbox through the Gmail API.
type GmailSource struct {
	svc *gmail.Service
}

// NewGmailSource builds a Gmail client from a caller-held token pair. The
// oauth2 token source refreshes the access token when a refresh token is present.
func NewGmailSource(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) (*GmailSource, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(cfg.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &GmailSource{svc: svc}, nil
}

func (s *GmailSource) ListMessageIDs(ctx context.Context, query, pageToken string) ([]string, string, error) {
	call := s.svc.Users.Messages.List("me").Q(query).MaxResults(PageSize).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list messages: %w", err)
	}
	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		if m != nil && m.Id != "" {
			ids = append(ids, m.Id)
		}
	}
	return ids, resp.NextPageToken, nil
}

func (s *GmailSource) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	msg, err := s.svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	return msg, nil
}

// IsUnauthorized reports whether err means the stored tokens are no longer accepted.
func IsUnauthorized(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusUnauthorized
	}
	var rerr *oauth2.RetrieveError
	return errors.As(err, &rerr)
}
