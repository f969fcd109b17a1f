package testutil

import (
	"gallery-go/internal/encryption"
	"gallery-go/internal/gallery"
)

// NewTestEncryptor creates a fast, insecure encryptor for tests.
func NewTestEncryptor() gallery.Encryptor {
	return encryption.NewTestEncryptor()
}
