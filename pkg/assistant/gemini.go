package assistant

import (
	"context"
	"strings"

	"google.golang.org/genai"

	perrors "github.com/123Haben/parking-place/internal/errors"
)

// Gemini answers with a Gemini model.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini model client.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, perrors.New(perrors.CodeAssistantFailure).
			WithDetail("no API key configured").
			WithSuggestion("Set PARKDASH_ASSISTANT_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, perrors.New(perrors.CodeAssistantFailure).
			WithDetail("create client").Wrap(err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Reply implements Model.
func (g *Gemini) Reply(ctx context.Context, system, question string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(question), cfg)
	if err != nil {
		return "", perrors.New(perrors.CodeAssistantFailure).
			WithDetailf("generate with %s", g.model).Wrap(err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", perrors.New(perrors.CodeAssistantFailure).
			WithDetail("empty response")
	}
	return text, nil
}
