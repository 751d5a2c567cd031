package models

import (
	"fmt"
	"strings"
	"time"
)

// AspectRatio is the width:height proportion requested for a generated image.
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectWide      AspectRatio = "16:9"
	AspectTall      AspectRatio = "9:16"
	AspectLandscape AspectRatio = "4:3"
	AspectPortrait  AspectRatio = "3:4"

	DefaultAspectRatio = AspectSquare
)

var aspectRatios = []AspectRatio{AspectSquare, AspectWide, AspectTall, AspectLandscape, AspectPortrait}

// AspectRatios returns the closed set of ratios in display order.
func AspectRatios() []AspectRatio {
	out := make([]AspectRatio, len(aspectRatios))
	copy(out, aspectRatios)
	return out
}

// ParseAspectRatio accepts only members of the closed set.
func ParseAspectRatio(s string) (AspectRatio, error) {
	s = strings.TrimSpace(s)
	for _, r := range aspectRatios {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unsupported aspect ratio %q (must be one of %s)", s, joinRatios())
}

// Valid reports whether r is a member of the closed set.
func (r AspectRatio) Valid() bool {
	_, err := ParseAspectRatio(string(r))
	return err == nil
}

func (r AspectRatio) String() string {
	return string(r)
}

func joinRatios() string {
	parts := make([]string, len(aspectRatios))
	for i, r := range aspectRatios {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

// GenerationConfig carries the options sent alongside a prompt
type GenerationConfig struct {
	AspectRatio AspectRatio `json:"aspect_ratio" yaml:"aspect_ratio"`
}

// GeneratedImage is one successful generation held in the session gallery.
type GeneratedImage struct {
	ID        string    `json:"id"`
	ImageRef  string    `json:"image_ref"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
	Thumbnail string    `json:"thumbnail,omitempty"` // display-only, derived from ImageRef
}

// Offset is a 2D pan offset in pixels
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
