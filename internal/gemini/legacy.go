package gemini

import (
	"context"
	"fmt"
	"log/slog"

	legacy "github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/visionary/internal/config"
	"github.com/lehigh-university-libraries/visionary/internal/imageref"
	"github.com/lehigh-university-libraries/visionary/internal/models"
	"github.com/lehigh-university-libraries/visionary/internal/providers"
	"google.golang.org/api/option"
)

type legacyModel interface {
	GenerateContent(ctx context.Context, parts ...legacy.Part) (*legacy.GenerateContentResponse, error)
}

// Legacy is a provider on the older generative-ai-go SDK. That SDK has no
// image config, so the aspect ratio travels as an instruction part.
type Legacy struct {
	model    string
	apiKey   func() string
	newModel func(ctx context.Context, apiKey, model string) (legacyModel, func() error, error)
}

// NewLegacy returns a new Legacy provider
func NewLegacy(model string) *Legacy {
	if model == "" {
		model = config.DefaultImageModel
	}
	return &Legacy{
		model:    model,
		apiKey:   config.APIKey,
		newModel: newLegacyModel,
	}
}

func newLegacyModel(ctx context.Context, apiKey, model string) (legacyModel, func() error, error) {
	client, err := legacy.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, err
	}
	return client.GenerativeModel(model), client.Close, nil
}

// Generate implements providers.Generator
func (l *Legacy) Generate(ctx context.Context, prompt string, cfg models.GenerationConfig) (string, error) {
	apiKey := l.apiKey()
	if apiKey == "" {
		return "", providers.ErrMissingCredential
	}

	model, closeFn, err := l.newModel(ctx, apiKey, l.model)
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer closeFn()

	resp, err := model.GenerateContent(ctx,
		legacy.Text(prompt),
		legacy.Text("Aspect ratio: "+string(cfg.AspectRatio)),
	)
	if err != nil {
		slog.Error("Gemini API error", "model", l.model, "err", err)
		return "", err
	}

	return firstLegacyBlob(resp)
}

func firstLegacyBlob(resp *legacy.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return "", providers.ErrNoImage
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case legacy.Blob:
			if len(p.Data) > 0 {
				return imageref.Encode(p.MIMEType, p.Data), nil
			}
		case *legacy.Blob:
			if p != nil && len(p.Data) > 0 {
				return imageref.Encode(p.MIMEType, p.Data), nil
			}
		}
	}

	return "", providers.ErrNoImage
}
