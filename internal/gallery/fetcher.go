package gallery

import "context"

// Blob is fetched binary content with its media type.
type Blob struct {
	Data []byte
	Type string
}

// Fetcher dereferences a resource URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (*Blob, error)
}
