// Package viewer is the modal image viewer: discrete zoom steps, drag to pan
// above 1x, and a reset to the unzoomed state whenever it closes.
package viewer

import (
	"errors"
	"fmt"
	"math"

	"github.com/lehigh-university-libraries/visionary/internal/imageref"
	"github.com/lehigh-university-libraries/visionary/internal/models"
)

const (
	MinZoom  = 1.0
	MaxZoom  = 4.0
	ZoomStep = 0.5
)

var ErrClosed = errors.New("viewer is closed")

// CloseReason names the action that dismissed the viewer.
type CloseReason string

const (
	CloseButton   CloseReason = "button"
	CloseBackdrop CloseReason = "backdrop"
	CloseEscape   CloseReason = "escape"
)

func ParseCloseReason(s string) (CloseReason, error) {
	switch r := CloseReason(s); r {
	case CloseButton, CloseBackdrop, CloseEscape:
		return r, nil
	case "":
		return CloseButton, nil
	default:
		return "", fmt.Errorf("unknown close reason %q", s)
	}
}

// Viewer is closed iff no image is selected.
type Viewer struct {
	image    *models.GeneratedImage
	zoom     float64
	pan      models.Offset
	dragging bool
}

func New() *Viewer {
	return &Viewer{zoom: MinZoom}
}

// Open selects img and starts unzoomed and centered.
func (v *Viewer) Open(img models.GeneratedImage) {
	v.image = &img
	v.zoom = MinZoom
	v.pan = models.Offset{}
	v.dragging = false
}

func (v *Viewer) IsOpen() bool {
	return v.image != nil
}

func (v *Viewer) Image() (models.GeneratedImage, bool) {
	if v.image == nil {
		return models.GeneratedImage{}, false
	}
	return *v.image, true
}

func (v *Viewer) Zoom() float64 {
	return v.zoom
}

func (v *Viewer) Pan() models.Offset {
	return v.pan
}

func (v *Viewer) Dragging() bool {
	return v.dragging
}

// ZoomPercent is the label shown between the zoom buttons.
func (v *Viewer) ZoomPercent() int {
	return int(math.Round(v.zoom * 100))
}

// ShowPanHint is true while panning is unavailable.
func (v *Viewer) ShowPanHint() bool {
	return v.IsOpen() && v.zoom == MinZoom
}

func (v *Viewer) ZoomIn() error {
	if !v.IsOpen() {
		return ErrClosed
	}
	v.zoom = math.Min(v.zoom+ZoomStep, MaxZoom)
	return nil
}

// ZoomOut steps down; landing on 1x recenters the image.
func (v *Viewer) ZoomOut() error {
	if !v.IsOpen() {
		return ErrClosed
	}
	v.zoom = math.Max(v.zoom-ZoomStep, MinZoom)
	if v.zoom == MinZoom {
		v.pan = models.Offset{}
		v.dragging = false
	}
	return nil
}

func (v *Viewer) Reset() error {
	if !v.IsOpen() {
		return ErrClosed
	}
	v.zoom = MinZoom
	v.pan = models.Offset{}
	v.dragging = false
	return nil
}

// BeginDrag starts a pan gesture. It reports whether the gesture started,
// which only happens above 1x.
func (v *Viewer) BeginDrag() (bool, error) {
	if !v.IsOpen() {
		return false, ErrClosed
	}
	if v.zoom > MinZoom {
		v.dragging = true
	}
	return v.dragging, nil
}

// Drag accumulates pointer movement into the pan offset during a gesture.
// Offsets are not clamped to the image bounds.
func (v *Viewer) Drag(dx, dy float64) error {
	if !v.IsOpen() {
		return ErrClosed
	}
	if v.dragging && v.zoom > MinZoom {
		v.pan.X += dx
		v.pan.Y += dy
	}
	return nil
}

// EndDrag stops the gesture (pointer released or left the region) and keeps the offset.
func (v *Viewer) EndDrag() error {
	if !v.IsOpen() {
		return ErrClosed
	}
	v.dragging = false
	return nil
}

// Close dismisses the viewer for any reason and resets zoom and pan.
func (v *Viewer) Close(reason CloseReason) error {
	if _, err := ParseCloseReason(string(reason)); err != nil {
		return err
	}
	v.image = nil
	v.zoom = MinZoom
	v.pan = models.Offset{}
	v.dragging = false
	return nil
}

// Download returns the export file name and the image reference. State is untouched.
func (v *Viewer) Download() (string, string, error) {
	if !v.IsOpen() {
		return "", "", ErrClosed
	}
	return imageref.DownloadName(v.image.ID), v.image.ImageRef, nil
}
