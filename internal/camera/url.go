package camera

import (
	"context"
	"fmt"
	"net/url"

	"gallery-go/internal/gallery"
)

// URLCamera points at a snapshot endpoint such as an IP camera. It only
// returns a WebPath, so it needs a non-native host where the image is
// fetched.
type URLCamera struct {
	url string
}

// NewURLCamera creates a URLCamera for an http(s) snapshot URL.
func NewURLCamera(rawURL string) (*URLCamera, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing camera url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("camera url must be http or https: %s", rawURL)
	}
	return &URLCamera{url: u.String()}, nil
}

func (c *URLCamera) GetPhoto(ctx context.Context, _ gallery.CameraOptions) (*gallery.ImageResource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &gallery.ImageResource{WebPath: c.url, Format: "jpeg"}, nil
}

// Compile-time check that URLCamera implements gallery.Camera interface
var _ gallery.Camera = (*URLCamera)(nil)
