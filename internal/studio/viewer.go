package studio

import (
	"github.com/lehigh-university-libraries/visionary/internal/viewer"
)

// Select opens the viewer on a gallery record.
func (c *Controller) Select(id string) error {
	c.mu.Lock()
	img, err := c.gallery.Get(id)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.viewer.Open(img)
	c.mu.Unlock()
	c.notify(SectionViewer)
	return nil
}

func (c *Controller) ZoomIn() error {
	return c.viewerAction(func(v *viewer.Viewer) error { return v.ZoomIn() })
}

func (c *Controller) ZoomOut() error {
	return c.viewerAction(func(v *viewer.Viewer) error { return v.ZoomOut() })
}

func (c *Controller) ResetZoom() error {
	return c.viewerAction(func(v *viewer.Viewer) error { return v.Reset() })
}

// BeginPan starts a drag gesture; it has no effect at 1x.
func (c *Controller) BeginPan() error {
	return c.viewerAction(func(v *viewer.Viewer) error {
		_, err := v.BeginDrag()
		return err
	})
}

// Pan applies incremental pointer movement to an active drag.
func (c *Controller) Pan(dx, dy float64) error {
	return c.viewerAction(func(v *viewer.Viewer) error { return v.Drag(dx, dy) })
}

func (c *Controller) EndPan() error {
	return c.viewerAction(func(v *viewer.Viewer) error { return v.EndDrag() })
}

func (c *Controller) CloseViewer(reason viewer.CloseReason) error {
	return c.viewerAction(func(v *viewer.Viewer) error { return v.Close(reason) })
}

// Download returns the export file name and image reference of the viewed image.
func (c *Controller) Download() (string, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewer.Download()
}

func (c *Controller) viewerAction(fn func(v *viewer.Viewer) error) error {
	c.mu.Lock()
	err := fn(c.viewer)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.notify(SectionViewer)
	return nil
}
