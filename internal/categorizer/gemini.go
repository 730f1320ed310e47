package categorizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"pankki-csv/internal/logging"
	"pankki-csv/internal/models"
)

// GeminiResolver is a headless Resolver backed by the Google Gemini API.
// It replaces the interactive console prompt for batch runs: the model is
// shown the same category listing and transaction context a human would see
// and must answer with one of the offered ids. The Categorizer still
// validates the reply, so a hallucinated id fails the row instead of
// corrupting the store.
type GeminiResolver struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    logging.Logger
}

// NewGeminiResolver creates a resolver using the given API key and model
// name.
func NewGeminiResolver(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*GeminiResolver, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiResolver{
		client: client,
		model:  client.GenerativeModel(modelName),
		log:    logger,
	}, nil
}

// Close releases the underlying API client.
func (r *GeminiResolver) Close() error {
	return r.client.Close()
}

// Resolve asks the model for a category id.
func (r *GeminiResolver) Resolve(ctx context.Context, dir models.Direction, categories []models.Category, tx models.Transaction) (string, error) {
	var listing strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&listing, "%d: %s\n", c.ID, c.Name)
	}

	prompt := fmt.Sprintf(`Categorize the following bank transaction (%s):
Maksupäivä (date): %s
Summa (amount): %s
Tapahtumalaji (type): %s
Maksaja (payer): %s
Saajan nimi (counterparty): %s
Viesti (message): %s

Assign it to exactly one of the following categories:
%s
Respond in this format:
Category ID: [numeric id from the list above]`,
		dir, tx.Date, tx.Amount, tx.Type, tx.Payer, tx.Description, tx.Message,
		listing.String())

	resp, err := r.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	reply := extractCategoryID(responseText)

	r.log.Debug("Gemini categorization reply",
		logging.Field{Key: "description", Value: tx.Description},
		logging.Field{Key: "reply", Value: reply})
	return reply, nil
}

// extractCategoryID pulls the id out of a "Category ID: N" response line.
// If the model ignored the format, the raw response is returned and left to
// selection validation.
func extractCategoryID(response string) string {
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Category ID:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "Category ID:"))
		}
	}
	return strings.TrimSpace(response)
}
