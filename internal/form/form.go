package form

import (
	"errors"
	"strings"

	"github.com/lehigh-university-libraries/visionary/internal/models"
)

// ErrLocked is returned when the prompt is edited while a request is in flight.
var ErrLocked = errors.New("prompt input is disabled while generating")

// Form holds the prompt text and aspect ratio choice.
type Form struct {
	prompt      string
	aspectRatio models.AspectRatio
}

func New() *Form {
	return &Form{aspectRatio: models.DefaultAspectRatio}
}

func (f *Form) Prompt() string {
	return f.prompt
}

func (f *Form) AspectRatio() models.AspectRatio {
	return f.aspectRatio
}

// SetPrompt replaces the prompt text unless the form is loading.
func (f *Form) SetPrompt(text string, loading bool) error {
	if loading {
		return ErrLocked
	}
	f.prompt = text
	return nil
}

// ClearPrompt empties the text and leaves the aspect ratio alone.
func (f *Form) ClearPrompt(loading bool) error {
	return f.SetPrompt("", loading)
}

func (f *Form) SetAspectRatio(r models.AspectRatio) error {
	parsed, err := models.ParseAspectRatio(string(r))
	if err != nil {
		return err
	}
	f.aspectRatio = parsed
	return nil
}

// CanSubmit is derived, never stored: not loading and a non-blank prompt.
func (f *Form) CanSubmit(loading bool) bool {
	return CanSubmit(f.prompt, loading)
}

func CanSubmit(prompt string, loading bool) bool {
	return !loading && strings.TrimSpace(prompt) != ""
}
