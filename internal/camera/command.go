// Package camera implements gallery.Camera backends.
package camera

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"gallery-go/internal/gallery"
)

const (
	outputPlaceholder  = "{output}"
	qualityPlaceholder = "{quality}"
)

// CommandCamera captures by running an external tool such as
// libcamera-still or fswebcam. The command's arguments may contain
// {output}, replaced with the capture file path, and {quality}.
type CommandCamera struct {
	command    []string
	captureDir string
	clock      gallery.Clock
	logger     gallery.Logger
}

// NewCommandCamera creates a CommandCamera writing captures to captureDir.
func NewCommandCamera(command []string, captureDir string, clock gallery.Clock, logger gallery.Logger) (*CommandCamera, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("camera command is empty")
	}
	if !containsPlaceholder(command, outputPlaceholder) {
		return nil, fmt.Errorf("camera command must contain %s", outputPlaceholder)
	}
	if captureDir == "" {
		return nil, fmt.Errorf("capture_dir required for command camera")
	}
	abs, err := filepath.Abs(captureDir)
	if err != nil {
		return nil, fmt.Errorf("resolving capture directory: %w", err)
	}
	return &CommandCamera{
		command:    command,
		captureDir: abs,
		clock:      clock,
		logger:     logger,
	}, nil
}

// GetPhoto runs the capture command and returns the written file.
// Cancelling ctx kills the command.
func (c *CommandCamera) GetPhoto(ctx context.Context, opts gallery.CameraOptions) (*gallery.ImageResource, error) {
	if opts.Source == gallery.SourcePhotos {
		return nil, fmt.Errorf("command camera cannot pick from photos")
	}
	if err := os.MkdirAll(c.captureDir, 0755); err != nil {
		return nil, fmt.Errorf("creating capture directory: %w", err)
	}

	output := filepath.Join(c.captureDir, "capture-"+strconv.FormatInt(c.clock.Now().UnixNano(), 10)+".jpeg")
	args := expandArgs(c.command, output, opts.Quality)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stderr = &stderr

	c.logger.Debug("running camera command", "command", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("capture cancelled: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("camera command failed (exit %d): %s", exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("running camera command: %w", err)
	}

	if _, err := os.Stat(output); err != nil {
		return nil, fmt.Errorf("camera command did not write %s: %w", output, err)
	}

	return &gallery.ImageResource{
		Path:    output,
		WebPath: "file://" + output,
		Format:  "jpeg",
	}, nil
}

func expandArgs(command []string, output string, quality int) []string {
	if quality <= 0 || quality > 100 {
		quality = 100
	}
	r := strings.NewReplacer(outputPlaceholder, output, qualityPlaceholder, strconv.Itoa(quality))

	args := make([]string, len(command))
	for i, a := range command {
		args[i] = r.Replace(a)
	}
	return args
}

func containsPlaceholder(command []string, placeholder string) bool {
	for _, a := range command {
		if strings.Contains(a, placeholder) {
			return true
		}
	}
	return false
}

// Compile-time check that CommandCamera implements gallery.Camera interface
var _ gallery.Camera = (*CommandCamera)(nil)
