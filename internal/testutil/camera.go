package testutil

import (
	"context"
	"sync"

	"gallery-go/internal/gallery"
)

// FakeCamera returns queued images in order, then repeats the last one.
// If Err is set, GetPhoto fails with it.
type FakeCamera struct {
	Err error

	mu     sync.Mutex
	images []*gallery.ImageResource
	calls  []gallery.CameraOptions
}

// NewFakeCamera creates a FakeCamera that returns images in order.
func NewFakeCamera(images ...*gallery.ImageResource) *FakeCamera {
	return &FakeCamera{images: images}
}

func (c *FakeCamera) GetPhoto(ctx context.Context, opts gallery.CameraOptions) (*gallery.ImageResource, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, opts)
	if c.Err != nil {
		return nil, c.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := c.images[0]
	if len(c.images) > 1 {
		c.images = c.images[1:]
	}
	cp := *img
	return &cp, nil
}

// Calls returns the options of every GetPhoto call.
func (c *FakeCamera) Calls() []gallery.CameraOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]gallery.CameraOptions(nil), c.calls...)
}

var _ gallery.Camera = (*FakeCamera)(nil)
