package studio

import (
	"github.com/lehigh-university-libraries/visionary/internal/gallery"
	"github.com/lehigh-university-libraries/visionary/internal/models"
	"github.com/lehigh-university-libraries/visionary/internal/providers"
)

// Banner is the dismissible error message.
type Banner struct {
	Message string              `json:"message"`
	Kind    providers.ErrorKind `json:"kind"`
}

type FormState struct {
	Prompt       string               `json:"prompt"`
	AspectRatio  models.AspectRatio   `json:"aspect_ratio"`
	AspectRatios []models.AspectRatio `json:"aspect_ratios"`
	CanSubmit    bool                 `json:"can_submit"`
	InputLocked  bool                 `json:"input_locked"`
}

// Status is the form, loading indicator and banner.
type Status struct {
	Loading bool      `json:"loading"`
	Error   *Banner   `json:"error,omitempty"`
	Form    FormState `json:"form"`
}

type ViewerState struct {
	Open        bool          `json:"open"`
	ImageID     string        `json:"image_id,omitempty"`
	Prompt      string        `json:"prompt,omitempty"`
	Zoom        float64       `json:"zoom"`
	ZoomPercent int           `json:"zoom_percent"`
	Pan         models.Offset `json:"pan"`
	Dragging    bool          `json:"dragging"`
	ShowPanHint bool          `json:"show_pan_hint"`
	Download    string        `json:"download,omitempty"`
}

// Snapshot is a read-only copy of the whole studio state.
type Snapshot struct {
	Status
	Gallery gallery.View `json:"gallery"`
	Viewer  ViewerState  `json:"viewer"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Status:  c.statusLocked(),
		Gallery: gallery.Render(c.gallery.Items(), c.loc),
		Viewer:  c.viewerLocked(),
	}
}

func (c *Controller) StatusSnapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) GalleryView() gallery.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gallery.Render(c.gallery.Items(), c.loc)
}

func (c *Controller) ViewerSnapshot() ViewerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewerLocked()
}

func (c *Controller) statusLocked() Status {
	st := Status{
		Loading: c.loading,
		Form: FormState{
			Prompt:       c.form.Prompt(),
			AspectRatio:  c.form.AspectRatio(),
			AspectRatios: models.AspectRatios(),
			CanSubmit:    c.form.CanSubmit(c.loading),
			InputLocked:  c.loading,
		},
	}
	if c.errMsg != "" {
		st.Error = &Banner{Message: c.errMsg, Kind: c.errKind}
	}
	return st
}

func (c *Controller) viewerLocked() ViewerState {
	vs := ViewerState{
		Open:        c.viewer.IsOpen(),
		Zoom:        c.viewer.Zoom(),
		ZoomPercent: c.viewer.ZoomPercent(),
		Pan:         c.viewer.Pan(),
		Dragging:    c.viewer.Dragging(),
		ShowPanHint: c.viewer.ShowPanHint(),
	}
	if img, ok := c.viewer.Image(); ok {
		vs.ImageID = img.ID
		vs.Prompt = img.Prompt
		vs.Download, _, _ = c.viewer.Download()
	}
	return vs
}
