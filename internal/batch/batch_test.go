package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/visionary/internal/imageref"
	"github.com/lehigh-university-libraries/visionary/internal/models"
	"github.com/lehigh-university-libraries/visionary/internal/providers"
	"github.com/lehigh-university-libraries/visionary/internal/studio"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type scriptedGenerator struct {
	fail map[string]error
	seen []models.GenerationConfig
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string, cfg models.GenerationConfig) (string, error) {
	g.seen = append(g.seen, cfg)
	if err, ok := g.fail[prompt]; ok {
		return "", err
	}
	return imageref.Encode("image/png", []byte(prompt)), nil
}

func TestLoadPromptsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	content := `
- prompt: a red cube
  aspect_ratio: "16:9"
- prompt: a lighthouse at dusk
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	prompts, err := LoadPrompts(path)
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	assert.Equal(t, "a red cube", prompts[0].Prompt)

	ratio, err := prompts[1].Ratio()
	require.NoError(t, err)
	assert.Equal(t, models.AspectSquare, ratio)
}

func TestLoadPromptsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.parquet")
	rows := []Prompt{
		{Prompt: "a red cube", AspectRatio: "9:16"},
		{Prompt: "a blue sphere"},
		{Prompt: "a green cone", AspectRatio: "4:3"},
	}
	require.NoError(t, parquet.WriteFile(path, rows))

	prompts, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, rows, prompts)
}

func TestLoadPromptsErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- prompt: x\n  aspect_ratio: \"2:1\"\n"), 0644))

	tests := []struct {
		name string
		path string
	}{
		{"unsupported extension", filepath.Join(dir, "prompts.csv")},
		{"missing file", filepath.Join(dir, "missing.yaml")},
		{"invalid aspect ratio", bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPrompts(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestRunCollectsFailures(t *testing.T) {
	gen := &scriptedGenerator{fail: map[string]error{
		"blocked": errors.New("prompt was blocked"),
		"blank":   providers.ErrNoImage,
	}}
	ctrl := studio.New(gen, studio.WithThumbnailer(nil))

	prompts := []Prompt{
		{Prompt: "first", AspectRatio: "16:9"},
		{Prompt: "blocked"},
		{Prompt: "   "},
		{Prompt: "blank"},
		{Prompt: "last", AspectRatio: "3:4"},
	}
	failures, err := Run(context.Background(), ctrl, prompts)
	require.NoError(t, err)

	require.Len(t, failures, 3)
	assert.Equal(t, 2, failures[0].Index)
	assert.Equal(t, providers.KindService, failures[0].Kind)
	assert.Equal(t, 3, failures[1].Index)
	assert.Equal(t, studio.ErrEmptyPrompt.Error(), failures[1].Error)
	assert.Equal(t, providers.KindEmptyResult, failures[2].Kind)

	records := ctrl.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "last", records[0].Prompt)
	assert.Equal(t, "first", records[1].Prompt)

	// blank prompt never reached the generator
	require.Len(t, gen.seen, 4)
	assert.Equal(t, models.AspectWide, gen.seen[0].AspectRatio)
	assert.Equal(t, models.AspectPortrait, gen.seen[3].AspectRatio)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &scriptedGenerator{}
	_, err := Run(ctx, studio.New(gen, studio.WithThumbnailer(nil)), []Prompt{{Prompt: "a red cube"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gen.seen)
}

func TestExport(t *testing.T) {
	ctrl := studio.New(&scriptedGenerator{}, studio.WithThumbnailer(nil))
	_, err := Run(context.Background(), ctrl, []Prompt{{Prompt: "one"}, {Prompt: "two"}})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	failures := []Failure{{Index: 3, Prompt: "three", Error: "boom", Kind: providers.KindService}}
	manifestPath, err := Export(dir, ctrl.Records(), failures)
	require.NoError(t, err)

	data, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	var manifest Manifest
	require.NoError(t, yaml.Unmarshal(data, &manifest))

	require.Len(t, manifest.Images, 2)
	assert.Equal(t, "two", manifest.Images[0].Prompt)
	assert.Equal(t, imageref.DownloadName(manifest.Images[0].ID), manifest.Images[0].File)
	assert.Equal(t, failures, manifest.Failures)

	img, err := os.ReadFile(filepath.Join(dir, manifest.Images[1].File))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), img)
}
