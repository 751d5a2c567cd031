package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/visionary/internal/imageref"
	"github.com/lehigh-university-libraries/visionary/internal/models"
	"github.com/lehigh-university-libraries/visionary/internal/providers"
	"github.com/lehigh-university-libraries/visionary/internal/studio"
	"gopkg.in/yaml.v3"
)

// Failure records a prompt that produced no image.
type Failure struct {
	Index  int                 `yaml:"index"`
	Prompt string              `yaml:"prompt"`
	Kind   providers.ErrorKind `yaml:"kind,omitempty"`
	Error  string              `yaml:"error"`
}

// Run submits each prompt in order. Failures are collected rather than
// stopping the run; only a cancelled context ends it early.
func Run(ctx context.Context, ctrl *studio.Controller, prompts []Prompt) ([]Failure, error) {
	var failures []Failure
	for i, p := range prompts {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		ratio, err := p.Ratio()
		if err != nil {
			return failures, fmt.Errorf("entry %d: %w", i+1, err)
		}

		slog.Info("Generating", "entry", i+1, "of", len(prompts), "aspect_ratio", ratio)
		img, err := ctrl.Generate(ctx, p.Prompt, ratio)
		if err != nil {
			f := Failure{Index: i + 1, Prompt: p.Prompt, Error: err.Error()}
			if !errors.Is(err, studio.ErrEmptyPrompt) {
				f.Kind = providers.Classify(err)
			}
			slog.Warn("Generation failed", "entry", i+1, "err", err)
			failures = append(failures, f)
			continue
		}
		slog.Info("Generated", "entry", i+1, "id", img.ID)
	}
	return failures, nil
}

// WriteImage decodes a record's image into dir using the download name.
func WriteImage(dir string, img models.GeneratedImage) (string, error) {
	_, data, err := imageref.Decode(img.ImageRef)
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %w", img.ID, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, imageref.DownloadName(img.ID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}

// Manifest describes one exported batch, newest image first.
type Manifest struct {
	GeneratedAt time.Time       `yaml:"generated_at"`
	Images      []ManifestImage `yaml:"images"`
	Failures    []Failure       `yaml:"failures,omitempty"`
}

type ManifestImage struct {
	ID        string    `yaml:"id"`
	File      string    `yaml:"file"`
	Prompt    string    `yaml:"prompt"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Export writes every record's image and a manifest.yaml into dir.
func Export(dir string, records []models.GeneratedImage, failures []Failure) (string, error) {
	manifest := Manifest{GeneratedAt: time.Now(), Failures: failures}
	for _, img := range records {
		path, err := WriteImage(dir, img)
		if err != nil {
			return "", err
		}
		manifest.Images = append(manifest.Images, ManifestImage{
			ID:        img.ID,
			File:      filepath.Base(path),
			Prompt:    img.Prompt,
			CreatedAt: img.CreatedAt,
		})
	}
	path := filepath.Join(dir, "manifest.yaml")
	if err := WriteManifest(path, manifest); err != nil {
		return "", err
	}
	return path, nil
}

func WriteManifest(path string, manifest Manifest) error {
	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
