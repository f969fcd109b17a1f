package gallery

import "context"

// Camera is the capture capability. GetPhoto blocks until the image is
// available and fails if the capture is cancelled or access is denied.
type Camera interface {
	GetPhoto(ctx context.Context, opts CameraOptions) (*ImageResource, error)
}
