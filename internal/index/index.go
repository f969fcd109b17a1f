// Package index persists the gallery's photo list in a key-value store.
package index

import (
	"context"
	"encoding/json"
	"fmt"

	"gallery-go/internal/gallery"
)

// Key is the key the photo list is stored under.
const Key = "photos"

// PhotoIndex stores the photo list as a JSON array under Key.
type PhotoIndex struct {
	store gallery.KeyValueStore
}

// NewPhotoIndex creates a PhotoIndex backed by store.
func NewPhotoIndex(store gallery.KeyValueStore) *PhotoIndex {
	return &PhotoIndex{store: store}
}

// Load returns the stored list. A missing or empty value is an empty list.
func (i *PhotoIndex) Load(ctx context.Context) ([]gallery.Photo, error) {
	value, found, err := i.store.Get(ctx, Key)
	if err != nil {
		return nil, err
	}
	if !found || value == "" {
		return []gallery.Photo{}, nil
	}

	var photos []gallery.Photo
	if err := json.Unmarshal([]byte(value), &photos); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", Key, err)
	}
	if photos == nil {
		// "null"
		photos = []gallery.Photo{}
	}
	return photos, nil
}

// Save replaces the stored list.
func (i *PhotoIndex) Save(ctx context.Context, photos []gallery.Photo) error {
	if photos == nil {
		photos = []gallery.Photo{}
	}
	b, err := json.Marshal(photos)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", Key, err)
	}
	return i.store.Set(ctx, Key, string(b))
}

// Reset removes the stored list.
func (i *PhotoIndex) Reset(ctx context.Context) error {
	return i.store.Remove(ctx, Key)
}

// Compile-time check that PhotoIndex implements gallery.Index interface
var _ gallery.Index = (*PhotoIndex)(nil)
