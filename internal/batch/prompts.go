// Package batch runs prompt lists through a studio controller and exports
// the resulting gallery.
package batch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/visionary/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Prompt is one entry of a prompt file. An empty aspect ratio means 1:1.
type Prompt struct {
	Prompt      string `yaml:"prompt" parquet:"prompt"`
	AspectRatio string `yaml:"aspect_ratio,omitempty" parquet:"aspect_ratio,optional"`
}

// Ratio returns the entry's validated aspect ratio.
func (p Prompt) Ratio() (models.AspectRatio, error) {
	if strings.TrimSpace(p.AspectRatio) == "" {
		return models.DefaultAspectRatio, nil
	}
	return models.ParseAspectRatio(p.AspectRatio)
}

// LoadPrompts reads a prompt list from YAML or Parquet and validates every
// aspect ratio up front.
func LoadPrompts(path string) ([]Prompt, error) {
	var (
		prompts []Prompt
		err     error
	)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		prompts, err = loadYAML(path)
	case ".parquet":
		prompts, err = loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .yaml, .yml, .parquet)", ext)
	}
	if err != nil {
		return nil, err
	}

	for i, p := range prompts {
		if _, err := p.Ratio(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	slog.Debug("Loaded prompts", "path", path, "count", len(prompts))
	return prompts, nil
}

func loadYAML(path string) ([]Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}
	var prompts []Prompt
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return prompts, nil
}

func loadParquet(path string) ([]Prompt, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Prompt](pf)
	defer reader.Close()

	var prompts []Prompt
	rows := make([]Prompt, 128)
	for {
		n, err := reader.Read(rows)
		prompts = append(prompts, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return prompts, nil
}
