package gallery

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/visionary/internal/models"
)

const (
	// PreviewRunes caps the prompt preview shown on a tile
	PreviewRunes = 120
	timeLabel    = "15:04"
)

// Placeholder is the empty-state copy shown instead of a grid.
type Placeholder struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// Tile is one selectable grid entry.
type Tile struct {
	ID            string `json:"id"`
	Image         string `json:"image"`
	PromptPreview string `json:"prompt_preview"`
	TimeLabel     string `json:"time_label"`
}

// View is the rendered gallery: either a placeholder or tiles, never both.
type View struct {
	Count       int          `json:"count"`
	Placeholder *Placeholder `json:"placeholder,omitempty"`
	Tiles       []Tile       `json:"tiles,omitempty"`
}

// Render builds the gallery view over items (already newest first). Time
// labels are formatted in loc; nil means local time.
func Render(items []models.GeneratedImage, loc *time.Location) View {
	if len(items) == 0 {
		return View{
			Placeholder: &Placeholder{
				Title:    "Your creative journey begins here.",
				Subtitle: "Describe something and hit generate to see the magic.",
			},
		}
	}
	if loc == nil {
		loc = time.Local
	}

	tiles := make([]Tile, 0, len(items))
	for _, img := range items {
		src := img.Thumbnail
		if src == "" {
			src = img.ImageRef
		}
		tiles = append(tiles, Tile{
			ID:            img.ID,
			Image:         src,
			PromptPreview: Preview(img.Prompt, PreviewRunes),
			TimeLabel:     img.CreatedAt.In(loc).Format(timeLabel),
		})
	}
	return View{Count: len(items), Tiles: tiles}
}

// Preview collapses whitespace and truncates to max runes with an ellipsis.
func Preview(prompt string, max int) string {
	s := strings.Join(strings.Fields(prompt), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max])) + "…"
}
