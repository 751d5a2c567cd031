package gallery

import (
	"errors"

	"github.com/lehigh-university-libraries/visionary/internal/models"
)

var ErrNotFound = errors.New("image not found in gallery")

// Gallery is the newest-first list of images generated in one session.
// It is not safe for concurrent use; the studio controller serializes access.
type Gallery struct {
	items []models.GeneratedImage
}

func New() *Gallery {
	return &Gallery{}
}

// Prepend inserts at the front. No dedup, no cap.
func (g *Gallery) Prepend(img models.GeneratedImage) {
	g.items = append([]models.GeneratedImage{img}, g.items...)
}

func (g *Gallery) Clear() {
	g.items = nil
}

func (g *Gallery) Len() int {
	return len(g.items)
}

// Items returns a copy of the records, newest first.
func (g *Gallery) Items() []models.GeneratedImage {
	out := make([]models.GeneratedImage, len(g.items))
	copy(out, g.items)
	return out
}

func (g *Gallery) Get(id string) (models.GeneratedImage, error) {
	for _, img := range g.items {
		if img.ID == id {
			return img, nil
		}
	}
	return models.GeneratedImage{}, ErrNotFound
}
