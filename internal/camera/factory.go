package camera

import (
	"fmt"

	"gallery-go/internal/config"
	"gallery-go/internal/gallery"
)

// NewCameraFromConfig creates a Camera based on the camera config type.
func NewCameraFromConfig(cfg config.CameraConfig, clock gallery.Clock, logger gallery.Logger) (gallery.Camera, error) {
	switch cfg.Type {
	case "command":
		return NewCommandCamera(cfg.Command, cfg.CaptureDir, clock, logger)
	case "file":
		if cfg.SourcePath == "" {
			return nil, fmt.Errorf("source_path required for file camera")
		}
		return NewFileCamera(cfg.SourcePath), nil
	case "url":
		return NewURLCamera(cfg.URL)
	default:
		return nil, fmt.Errorf("unknown camera type: %s", cfg.Type)
	}
}
