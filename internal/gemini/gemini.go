package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/visionary/internal/config"
	"github.com/lehigh-university-libraries/visionary/internal/imageref"
	"github.com/lehigh-university-libraries/visionary/internal/models"
	"github.com/lehigh-university-libraries/visionary/internal/providers"
	"google.golang.org/genai"
)

// modelsAPI is the slice of genai.Models used for generation
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// New returns the generator for the named provider ("genai" or "legacy").
func New(provider, model string) (providers.Generator, error) {
	switch provider {
	case "", "genai":
		return NewGenAI(model), nil
	case "legacy":
		return NewLegacy(model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// GenAI is a provider for Gemini image models on google.golang.org/genai
type GenAI struct {
	model     string
	apiKey    func() string
	newModels func(ctx context.Context, apiKey string) (modelsAPI, error)
}

// NewGenAI returns a new GenAI provider
func NewGenAI(model string) *GenAI {
	if model == "" {
		model = config.DefaultImageModel
	}
	return &GenAI{
		model:     model,
		apiKey:    config.APIKey,
		newModels: newGenAIModels,
	}
}

func newGenAIModels(ctx context.Context, apiKey string) (modelsAPI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return client.Models, nil
}

// Generate sends the prompt with the requested aspect ratio and returns the
// first inline image of the response as a data URI.
func (g *GenAI) Generate(ctx context.Context, prompt string, cfg models.GenerationConfig) (string, error) {
	apiKey := g.apiKey()
	if apiKey == "" {
		return "", providers.ErrMissingCredential
	}

	client, err := g.newModels(ctx, apiKey)
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}

	resp, err := client.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(cfg.AspectRatio),
		},
	})
	if err != nil {
		slog.Error("Gemini API error", "model", g.model, "err", err)
		return "", err
	}

	return firstInlineImage(resp)
}

// firstInlineImage scans the first candidate's parts in order; the first part
// carrying image bytes wins.
func firstInlineImage(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", providers.ErrNoImage
	}

	candidate := resp.Candidates[0]
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return imageref.Encode(part.InlineData.MIMEType, part.InlineData.Data), nil
			}
		}
	}

	// safety blocks and similar stops come back without parts
	switch candidate.FinishReason {
	case "", genai.FinishReasonUnspecified, genai.FinishReasonStop:
	default:
		return "", fmt.Errorf("%w (finish reason: %s)", providers.ErrNoImage, candidate.FinishReason)
	}
	return "", providers.ErrNoImage
}
