package gallery

import "context"

// KeyValueStore is a durable string key-value store.
type KeyValueStore interface {
	// Get returns the value for key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases the underlying connection.
	Close() error
}

// Index is the persisted gallery index: the ordered list of photos.
type Index interface {
	// Load returns the stored list, or an empty list if none was ever saved.
	Load(ctx context.Context) ([]Photo, error)

	// Save replaces the stored list.
	Save(ctx context.Context, photos []Photo) error

	// Reset removes the stored list.
	Reset(ctx context.Context) error
}
