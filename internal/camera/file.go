package camera

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gallery-go/internal/gallery"
)

// FileCamera "captures" an existing image file, for importing pictures
// taken elsewhere.
type FileCamera struct {
	path string
}

// NewFileCamera creates a FileCamera returning path on every capture.
func NewFileCamera(path string) *FileCamera {
	return &FileCamera{path: path}
}

// GetPhoto validates the source file and returns it.
func (c *FileCamera) GetPhoto(_ context.Context, _ gallery.CameraOptions) (*gallery.ImageResource, error) {
	absPath, err := resolveImageFile(c.path)
	if err != nil {
		return nil, err
	}
	return &gallery.ImageResource{
		Path:    absPath,
		WebPath: "file://" + absPath,
		Format:  strings.TrimPrefix(strings.ToLower(filepath.Ext(absPath)), "."),
	}, nil
}

// resolveImageFile returns the absolute path of a regular file.
func resolveImageFile(rawPath string) (string, error) {
	if rawPath == "" {
		return "", fmt.Errorf("no source file configured")
	}

	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}

	mode := info.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		return "", fmt.Errorf("symlinks not supported: %s", absPath)
	case mode.IsDir():
		return "", fmt.Errorf("path is a directory: %s", absPath)
	case mode&os.ModeDevice != 0:
		return "", fmt.Errorf("device files not supported: %s", absPath)
	case mode&os.ModeNamedPipe != 0:
		return "", fmt.Errorf("named pipes not supported: %s", absPath)
	case mode&os.ModeSocket != 0:
		return "", fmt.Errorf("sockets not supported: %s", absPath)
	}
	return absPath, nil
}

// Compile-time check that FileCamera implements gallery.Camera interface
var _ gallery.Camera = (*FileCamera)(nil)
