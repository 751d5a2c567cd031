package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/lehigh-university-libraries/visionary/internal/models"
	"github.com/lehigh-university-libraries/visionary/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  bool
	}{
		{"", false},
		{"genai", false},
		{"legacy", false},
		{"openai", true},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			gen, err := New(tt.provider, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, gen)
		})
	}
}

func TestGenAI_Generate(t *testing.T) {
	ctx := context.Background()
	cfg := models.GenerationConfig{AspectRatio: models.AspectWide}

	t.Run("returns a data URI for the first inline image", func(t *testing.T) {
		m := &mockModels{resp: imageResponse(
			&genai.Part{Text: "here you go"},
			&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("first")}},
			&genai.Part{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: []byte("second")}},
		)}
		g, _ := newTestGenAI("key", m)

		ref, err := g.Generate(ctx, "a red cube", cfg)
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,Zmlyc3Q=", ref)
		assert.Equal(t, 1, m.calls)
		assert.Equal(t, "gemini-2.5-flash-image", m.lastModel)
	})

	t.Run("sends prompt text and aspect ratio", func(t *testing.T) {
		m := &mockModels{resp: imageResponse(&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("x")}})}
		g, _ := newTestGenAI("key", m)

		_, err := g.Generate(ctx, "  a red cube ", cfg)
		require.NoError(t, err)
		require.Len(t, m.lastContents, 1)
		require.Len(t, m.lastContents[0].Parts, 1)
		assert.Equal(t, "  a red cube ", m.lastContents[0].Parts[0].Text)
		require.NotNil(t, m.lastConfig)
		require.NotNil(t, m.lastConfig.ImageConfig)
		assert.Equal(t, "16:9", m.lastConfig.ImageConfig.AspectRatio)
	})

	t.Run("missing credential fails before any client is created", func(t *testing.T) {
		m := &mockModels{}
		g, created := newTestGenAI("", m)

		_, err := g.Generate(ctx, "a red cube", cfg)
		assert.ErrorIs(t, err, providers.ErrMissingCredential)
		assert.Equal(t, 0, *created)
		assert.Equal(t, 0, m.calls)
	})

	t.Run("remote errors are returned verbatim", func(t *testing.T) {
		remoteErr := errors.New("googleapi: Error 403: API key not valid")
		m := &mockModels{err: remoteErr}
		g, _ := newTestGenAI("key", m)

		_, err := g.Generate(ctx, "a red cube", cfg)
		assert.Same(t, remoteErr, err)
		assert.Equal(t, providers.KindService, providers.Classify(err))
	})

	t.Run("text-only response is an empty result", func(t *testing.T) {
		m := &mockModels{resp: imageResponse(&genai.Part{Text: "I cannot draw that"})}
		g, _ := newTestGenAI("key", m)

		_, err := g.Generate(ctx, "a red cube", cfg)
		assert.ErrorIs(t, err, providers.ErrNoImage)
	})

	t.Run("client construction failure is wrapped", func(t *testing.T) {
		g := &GenAI{
			model:  "m",
			apiKey: func() string { return "key" },
			newModels: func(ctx context.Context, apiKey string) (modelsAPI, error) {
				return nil, errors.New("bad backend")
			},
		}
		_, err := g.Generate(ctx, "a red cube", cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create gemini client")
	})
}

func TestFirstInlineImage(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: true,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: true,
		},
		{
			name:    "candidate without content",
			resp:    &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			wantErr: true,
		},
		{
			name: "skips inline data without bytes",
			resp: imageResponse(
				&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png"}},
				&genai.Part{InlineData: &genai.Blob{MIMEType: "image/webp", Data: []byte("abc")}},
			),
			want: "data:image/webp;base64,YWJj",
		},
		{
			name: "only the first candidate is considered",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []*genai.Part{{Text: "no"}}}},
				{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("x")}}}}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := firstInlineImage(tt.resp)
			if tt.wantErr {
				assert.ErrorIs(t, err, providers.ErrNoImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstInlineImage_FinishReason(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}

	_, err := firstInlineImage(resp)
	require.ErrorIs(t, err, providers.ErrNoImage)
	assert.Contains(t, err.Error(), "SAFETY")
}
