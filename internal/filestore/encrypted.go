package filestore

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"gallery-go/internal/gallery"
)

// EncryptedStore wraps a FileStore and encrypts everything written to the
// data directory. Reading data directory files requires Unlock first.
// Unscoped paths pass through untouched.
type EncryptedStore struct {
	inner gallery.FileStore
	enc   gallery.Encryptor

	mu  sync.RWMutex
	dec gallery.DecryptionContext
}

// NewEncryptedStore wraps inner with enc.
func NewEncryptedStore(inner gallery.FileStore, enc gallery.Encryptor) *EncryptedStore {
	return &EncryptedStore{inner: inner, enc: enc}
}

// Unlock unlocks the private key so data directory files can be read.
func (s *EncryptedStore) Unlock(passphrase string) error {
	dec, err := s.enc.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking store: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dec = dec
	return nil
}

// Unlocked reports whether Unlock has succeeded.
func (s *EncryptedStore) Unlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dec != nil
}

func (s *EncryptedStore) WriteFile(ctx context.Context, name string, data string, dir gallery.Directory) (string, error) {
	if dir != gallery.DirectoryData {
		return s.inner.WriteFile(ctx, name, data, dir)
	}

	plain, err := gallery.DecodeFileData(data)
	if err != nil {
		return "", err
	}

	var sealed bytes.Buffer
	if err := s.enc.Encrypt(bytes.NewReader(plain), &sealed); err != nil {
		return "", fmt.Errorf("encrypting %s: %w", name, err)
	}
	return s.inner.WriteFile(ctx, name, gallery.EncodeFileData(sealed.Bytes()), dir)
}

func (s *EncryptedStore) ReadFile(ctx context.Context, path string, dir gallery.Directory) (string, error) {
	if dir != gallery.DirectoryData {
		return s.inner.ReadFile(ctx, path, dir)
	}

	s.mu.RLock()
	dec := s.dec
	s.mu.RUnlock()
	if dec == nil {
		return "", fmt.Errorf("reading %s: %w", path, gallery.ErrLocked)
	}

	data, err := s.inner.ReadFile(ctx, path, dir)
	if err != nil {
		return "", err
	}
	sealed, err := gallery.DecodeFileData(data)
	if err != nil {
		return "", err
	}

	var plain bytes.Buffer
	if err := dec.Decrypt(bytes.NewReader(sealed), &plain); err != nil {
		return "", fmt.Errorf("decrypting %s: %w", path, err)
	}
	return gallery.EncodeFileData(plain.Bytes()), nil
}

func (s *EncryptedStore) DeleteFile(ctx context.Context, name string, dir gallery.Directory) error {
	return s.inner.DeleteFile(ctx, name, dir)
}

var _ gallery.FileStore = (*EncryptedStore)(nil)
