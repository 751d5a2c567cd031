package gemini

import (
	"context"

	legacy "github.com/google/generative-ai-go/genai"
	"google.golang.org/genai"
)

// mockModels stands in for genai.Models
type mockModels struct {
	calls        int
	lastModel    string
	lastContents []*genai.Content
	lastConfig   *genai.GenerateContentConfig
	resp         *genai.GenerateContentResponse
	err          error
}

func (m *mockModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastContents = contents
	m.lastConfig = config
	return m.resp, m.err
}

type mockLegacyModel struct {
	calls     int
	lastParts []legacy.Part
	resp      *legacy.GenerateContentResponse
	err       error
}

func (m *mockLegacyModel) GenerateContent(ctx context.Context, parts ...legacy.Part) (*legacy.GenerateContentResponse, error) {
	m.calls++
	m.lastParts = parts
	return m.resp, m.err
}

func newTestGenAI(key string, m *mockModels) (*GenAI, *int) {
	created := 0
	g := &GenAI{
		model:  "gemini-2.5-flash-image",
		apiKey: func() string { return key },
		newModels: func(ctx context.Context, apiKey string) (modelsAPI, error) {
			created++
			return m, nil
		},
	}
	return g, &created
}

func newTestLegacy(key string, m *mockLegacyModel) (*Legacy, *bool) {
	closed := false
	l := &Legacy{
		model:  "gemini-2.5-flash-image",
		apiKey: func() string { return key },
		newModel: func(ctx context.Context, apiKey, model string) (legacyModel, func() error, error) {
			return m, func() error { closed = true; return nil }, nil
		},
	}
	return l, &closed
}

func imageResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: parts},
		}},
	}
}
