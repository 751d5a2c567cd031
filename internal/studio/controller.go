// Package studio is the app controller: it owns the prompt form, the
// session gallery, the image viewer and the loading/error banner state, and
// exposes one method per user action.
package studio

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/visionary/internal/form"
	"github.com/lehigh-university-libraries/visionary/internal/gallery"
	"github.com/lehigh-university-libraries/visionary/internal/models"
	"github.com/lehigh-university-libraries/visionary/internal/providers"
	"github.com/lehigh-university-libraries/visionary/internal/thumbnail"
	"github.com/lehigh-university-libraries/visionary/internal/viewer"
)

var (
	// ErrBusy is returned when a submission arrives while one is in flight.
	ErrBusy = errors.New("a generation is already in progress")
	// ErrEmptyPrompt is returned when the prompt is blank after trimming.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// FallbackErrorMessage is shown when a failure carries no message of its own.
const FallbackErrorMessage = "Failed to generate image. Please try again."

// Section identifies which part of the state changed.
type Section uint8

const (
	SectionStatus Section = 1 << iota
	SectionGallery
	SectionViewer
)

// Has reports whether s includes other.
func (s Section) Has(other Section) bool {
	return s&other != 0
}

// Controller serializes every mutation behind one mutex. The remote call runs
// outside the lock so reads and viewer actions stay responsive while it is
// pending.
type Controller struct {
	mu sync.Mutex

	generator providers.Generator
	form      *form.Form
	gallery   *gallery.Gallery
	viewer    *viewer.Viewer

	loading bool
	errMsg  string
	errKind providers.ErrorKind

	now      func() time.Time
	newID    func() string
	thumb    func(ref string) (string, error)
	observer func(Section)
	loc      *time.Location
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithThumbnailer replaces the tile thumbnail builder; nil disables thumbnails.
func WithThumbnailer(fn func(ref string) (string, error)) Option {
	return func(c *Controller) { c.thumb = fn }
}

// WithObserver registers a callback run after every state change, outside the lock.
func WithObserver(fn func(Section)) Option {
	return func(c *Controller) { c.observer = fn }
}

// WithLocation sets the zone used for gallery time labels.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) { c.loc = loc }
}

func New(generator providers.Generator, opts ...Option) *Controller {
	c := &Controller{
		generator: generator,
		form:      form.New(),
		gallery:   gallery.New(),
		viewer:    viewer.New(),
		now:       time.Now,
		newID:     uuid.NewString,
		thumb: func(ref string) (string, error) {
			return thumbnail.Make(ref, thumbnail.DefaultMaxEdge)
		},
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetObserver swaps the change callback after construction.
func (c *Controller) SetObserver(fn func(Section)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = fn
}

func (c *Controller) notify(s Section) {
	c.mu.Lock()
	fn := c.observer
	c.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}

// SetPrompt edits the prompt text; rejected with form.ErrLocked while loading.
func (c *Controller) SetPrompt(text string) error {
	c.mu.Lock()
	err := c.form.SetPrompt(text, c.loading)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(SectionStatus)
	return nil
}

// ClearPrompt empties the prompt text, leaving the aspect ratio.
func (c *Controller) ClearPrompt() error {
	c.mu.Lock()
	err := c.form.ClearPrompt(c.loading)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(SectionStatus)
	return nil
}

func (c *Controller) SetAspectRatio(r models.AspectRatio) error {
	c.mu.Lock()
	err := c.form.SetAspectRatio(r)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(SectionStatus)
	return nil
}

// Generate fills the form and submits it in one step.
func (c *Controller) Generate(ctx context.Context, prompt string, ratio models.AspectRatio) (models.GeneratedImage, error) {
	p, cfg, err := c.begin(func() error {
		if err := c.form.SetAspectRatio(ratio); err != nil {
			return err
		}
		return c.form.SetPrompt(prompt, false)
	})
	if err != nil {
		return models.GeneratedImage{}, err
	}
	return c.run(ctx, p, cfg)
}

// Submit sends the current form to the generator. A blank prompt or a
// pending request returns an error without calling the generator. On
// success the new record is prepended to the gallery; on failure the banner
// carries the error and the gallery is untouched.
func (c *Controller) Submit(ctx context.Context) (models.GeneratedImage, error) {
	prompt, cfg, err := c.begin(nil)
	if err != nil {
		return models.GeneratedImage{}, err
	}
	return c.run(ctx, prompt, cfg)
}

// begin applies fill and flips the loading flag in one critical section.
func (c *Controller) begin(fill func() error) (string, models.GenerationConfig, error) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return "", models.GenerationConfig{}, ErrBusy
	}
	if fill != nil {
		if err := fill(); err != nil {
			c.mu.Unlock()
			return "", models.GenerationConfig{}, err
		}
	}
	prompt := c.form.Prompt()
	if !form.CanSubmit(prompt, false) {
		c.mu.Unlock()
		return "", models.GenerationConfig{}, ErrEmptyPrompt
	}
	cfg := models.GenerationConfig{AspectRatio: c.form.AspectRatio()}
	c.loading = true
	c.errMsg = ""
	c.errKind = ""
	c.mu.Unlock()

	c.notify(SectionStatus)
	return prompt, cfg, nil
}

func (c *Controller) run(ctx context.Context, prompt string, cfg models.GenerationConfig) (models.GeneratedImage, error) {
	slog.Info("Generating image", "aspect_ratio", cfg.AspectRatio, "prompt_length", len(prompt))
	ref, err := c.generator.Generate(ctx, prompt, cfg)
	if err != nil {
		kind := providers.Classify(err)
		slog.Error("Image generation failed", "kind", kind, "err", err)

		c.mu.Lock()
		c.loading = false
		c.errMsg = bannerMessage(err)
		c.errKind = kind
		c.mu.Unlock()
		c.notify(SectionStatus)
		return models.GeneratedImage{}, err
	}

	img := models.GeneratedImage{
		ID:        c.newID(),
		ImageRef:  ref,
		Prompt:    prompt,
		CreatedAt: c.now(),
	}
	if c.thumb != nil {
		if thumb, err := c.thumb(ref); err != nil {
			slog.Warn("Failed to build thumbnail, tile will use the full image", "id", img.ID, "err", err)
		} else {
			img.Thumbnail = thumb
		}
	}

	c.mu.Lock()
	c.gallery.Prepend(img)
	c.loading = false
	c.mu.Unlock()
	c.notify(SectionStatus | SectionGallery)

	slog.Info("Image generated", "id", img.ID)
	return img, nil
}

func bannerMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackErrorMessage
}

// DismissError hides the banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	c.errMsg = ""
	c.errKind = ""
	c.mu.Unlock()
	c.notify(SectionStatus)
}

// ClearGallery empties the gallery only when the user confirmed. It reports
// whether anything was cleared. An open viewer is closed with it.
func (c *Controller) ClearGallery(confirmed bool) bool {
	if !confirmed {
		return false
	}
	c.mu.Lock()
	changed := SectionGallery
	c.gallery.Clear()
	if c.viewer.IsOpen() {
		_ = c.viewer.Close(viewer.CloseButton)
		changed |= SectionViewer
	}
	c.mu.Unlock()
	c.notify(changed)
	return true
}

// Records returns the gallery, newest first.
func (c *Controller) Records() []models.GeneratedImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gallery.Items()
}

// Image looks up one gallery record.
func (c *Controller) Image(id string) (models.GeneratedImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gallery.Get(id)
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ErrorMessage returns the banner text, empty when no banner is shown.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}
