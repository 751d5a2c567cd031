package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/lehigh-university-libraries/visionary/internal/imageref"
	"github.com/nfnt/resize"
)

const (
	DefaultMaxEdge = 512
	jpegQuality    = 80
)

// Make decodes an image reference and returns a JPEG data URI whose longest
// edge is at most maxEdge. Images already within bounds are re-encoded as-is.
func Make(ref string, maxEdge uint) (string, error) {
	_, data, err := imageref.Decode(ref)
	if err != nil {
		return "", err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := resize.Thumbnail(maxEdge, maxEdge, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return imageref.Encode("image/jpeg", buf.Bytes()), nil
}
