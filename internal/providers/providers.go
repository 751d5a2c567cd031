package providers

import (
	"context"
	"errors"

	"github.com/lehigh-university-libraries/visionary/internal/models"
)

var (
	// ErrMissingCredential is returned before any network call when no API key is configured.
	ErrMissingCredential = errors.New("API key not found in environment")

	// ErrNoImage is returned when a well-formed response carries no inline image data.
	ErrNoImage = errors.New("no image data found in response")
)

// Generator defines the interface for an image generation provider
type Generator interface {
	// Generate issues exactly one request and returns a data URI for the first inline image.
	Generate(ctx context.Context, prompt string, config models.GenerationConfig) (string, error)
}

// ErrorKind groups generation failures for presentation
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindService       ErrorKind = "service"
	KindEmptyResult   ErrorKind = "empty_result"
)

// Classify maps a generation error to its kind. Anything that is not a
// configuration or empty-result failure came from the remote call.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return KindConfiguration
	case errors.Is(err, ErrNoImage):
		return KindEmptyResult
	default:
		return KindService
	}
}
