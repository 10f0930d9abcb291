package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// --- Position Extractor Model Prompts ---
const PositionSystemPrompt = "You extract job titles from recruiting email subject lines. You answer with the job title only."
const PositionUserPrompt = `The following is the subject line of an email sent by a company's recruiting system after a job application.

Return ONLY the job title the candidate applied for, exactly as written in the subject, without the company name, quotes or punctuation.
If the subject does not name a job title, return the single word NONE.

Subject: %s`

// VertexClient holds the pre-configured generative models used by the tracker.
type VertexClient struct {
	PositionModel *genai.GenerativeModel
	baseClient    *genai.Client
}

// NewVertexClient creates a new client holding all necessary models.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	positionModel := baseClient.GenerativeModel("gemini-1.5-flash")
	positionModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(PositionSystemPrompt)},
	}
	positionModel.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr[float32](0.0),
		MaxOutputTokens: genai.Ptr[int32](32),
	}

	return &VertexClient{
		PositionModel: positionModel,
		baseClient:    baseClient,
	}, nil
}

// ExtractPosition asks the position model for the job title named in subject.
// It returns "" when the model finds none.
func (c *VertexClient) ExtractPosition(ctx context.Context, subject string) (string, error) {
	resp, err := c.PositionModel.GenerateContent(ctx, genai.Text(fmt.Sprintf(PositionUserPrompt, subject)))
	if err != nil {
		return "", fmt.Errorf("failed to generate position from gemini: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	title := strings.Trim(strings.TrimSpace(b.String()), "\"'`.")
	if title == "" || strings.EqualFold(title, "none") {
		return "", nil
	}
	return title, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
