package pkg

import (
	"context"

	"google.golang.org/genai"

	"chathub-backend/errs"
	"chathub-backend/models"
)

// Turn is one role-tagged unit of conversational history sent to the provider.
type Turn struct {
	Role    string
	Content string
}

// GeminiClient wraps the Gemini API for transcript completions.
type GeminiClient struct {
	client          *genai.Client
	maxOutputTokens int32
}

// NewGeminiClient builds a Gemini-backed completion client. A missing API key
// is an upstream configuration failure, not a validation one: the caller's
// input is fine, the provider is unusable.
func NewGeminiClient(ctx context.Context, apiKey string, maxOutputTokens int32) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errs.New(errs.Upstream, "gemini api key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, errs.Wrap(errs.Upstream, err, "create gemini client")
	}
	return &GeminiClient{client: client, maxOutputTokens: maxOutputTokens}, nil
}

// Complete sends the prior turns followed by the current input and returns the
// generated text. The provider sees the conversation exactly as it happened,
// oldest first; the input is always the final user-role content. One attempt,
// no retries.
func (c *GeminiClient) Complete(ctx context.Context, prior []Turn, input, model string) (string, error) {
	contents := make([]*genai.Content, 0, len(prior)+1)
	for _, t := range prior {
		var role genai.Role = genai.RoleUser
		if t.Role == models.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(input, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{}
	if c.maxOutputTokens > 0 {
		cfg.MaxOutputTokens = c.maxOutputTokens
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", errs.Wrap(errs.Upstream, err, "gemini completion failed")
	}
	text := resp.Text()
	if text == "" {
		return "", errs.New(errs.Upstream, "gemini returned an empty completion")
	}
	return text, nil
}
