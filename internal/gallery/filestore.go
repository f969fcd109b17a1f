package gallery

import "context"

// Directory is the location scope of a FileStore call.
type Directory string

const (
	// DirectoryData is the app-private data directory all photos live in.
	DirectoryData Directory = "DATA"

	// DirectoryNone means the path is used as given (absolute path or URI).
	DirectoryNone Directory = ""
)

// FileStore provides durable storage of file content by name.
// Content crosses this interface base64 encoded.
type FileStore interface {
	// WriteFile stores data under name and returns the storage URI.
	// data is either plain base64 or a data URI; a data URI's header is stripped.
	WriteFile(ctx context.Context, name string, data string, dir Directory) (string, error)

	// ReadFile returns the base64 content at path.
	// A missing file returns an error wrapping ErrNotFound.
	ReadFile(ctx context.Context, path string, dir Directory) (string, error)

	// DeleteFile removes the named file.
	// A missing file returns an error wrapping ErrNotFound.
	DeleteFile(ctx context.Context, name string, dir Directory) error
}
