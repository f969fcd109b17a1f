package testutil

import (
	"context"
	"fmt"
	"sync"

	"gallery-go/internal/gallery"
)

// FakeFetcher serves blobs registered with Add. A URI registered with a nil
// blob returns (nil, nil).
type FakeFetcher struct {
	mu    sync.Mutex
	blobs map[string]*gallery.Blob
}

func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{blobs: make(map[string]*gallery.Blob)}
}

// Add registers content for uri.
func (f *FakeFetcher) Add(uri string, data []byte, contentType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[uri] = &gallery.Blob{Data: data, Type: contentType}
}

// AddNil registers uri as resolving to no blob.
func (f *FakeFetcher) AddNil(uri string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[uri] = nil
}

func (f *FakeFetcher) Fetch(_ context.Context, uri string) (*gallery.Blob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.blobs[uri]
	if !ok {
		return nil, fmt.Errorf("fetch %s: not found", uri)
	}
	return b, nil
}

var _ gallery.Fetcher = (*FakeFetcher)(nil)
