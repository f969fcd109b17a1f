package encryption

import (
	"errors"
	"fmt"

	"gallery-go/internal/config"
	"gallery-go/internal/gallery"
)

// ErrNoKeys is returned when an encrypted file store has no key pair on disk.
var ErrNoKeys = errors.New("no encryption keys set up")

// NewEncryptorFromConfig creates the Encryptor named by cfg.Type. An empty
// type means age.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (gallery.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}

// NewPhotoEncryptor returns the Encryptor for photos kept in store, or nil
// when the store is not encrypted. The key pair must already exist.
func NewPhotoEncryptor(store config.FileStoreConfig, cfg config.EncryptionConfig) (gallery.Encryptor, error) {
	if !store.Encrypted {
		return nil, nil
	}
	enc, err := NewEncryptorFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if !enc.IsConfigured() {
		return nil, fmt.Errorf("file store %q: %w", store.Name, ErrNoKeys)
	}
	return enc, nil
}
