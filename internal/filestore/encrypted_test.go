package filestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"gallery-go/internal/encryption"
	"gallery-go/internal/gallery"
)

func TestEncryptedStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore("inner")
	enc := encryption.NewTestEncryptor()
	s := NewEncryptedStore(inner, enc)

	if _, err := s.WriteFile(ctx, "a.jpeg", "data:image/jpeg;base64,aGVsbG8=", gallery.DirectoryData); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	// The inner store holds ciphertext.
	raw, err := inner.ReadFile(ctx, "a.jpeg", gallery.DirectoryData)
	if err != nil {
		t.Fatalf("inner ReadFile() error = %v", err)
	}
	sealed, _ := base64.StdEncoding.DecodeString(raw)
	if bytes.Equal(sealed, []byte("hello")) {
		t.Error("inner store holds plaintext")
	}

	if _, err := s.ReadFile(ctx, "a.jpeg", gallery.DirectoryData); !errors.Is(err, gallery.ErrLocked) {
		t.Fatalf("ReadFile() before Unlock error = %v, want ErrLocked", err)
	}

	if err := s.Unlock("pass"); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if !s.Unlocked() {
		t.Error("Unlocked() = false after Unlock")
	}

	got, err := s.ReadFile(ctx, "a.jpeg", gallery.DirectoryData)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != "aGVsbG8=" {
		t.Errorf("ReadFile() = %q, want %q", got, "aGVsbG8=")
	}
}

func TestEncryptedStore_UnscopedPassThrough(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore("inner")
	inner.Put("/tmp/capture.jpg", []byte("hello"))
	s := NewEncryptedStore(inner, encryption.NewTestEncryptor())

	// Camera output is plaintext and readable while locked.
	got, err := s.ReadFile(ctx, "/tmp/capture.jpg", gallery.DirectoryNone)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != "aGVsbG8=" {
		t.Errorf("ReadFile() = %q, want %q", got, "aGVsbG8=")
	}
}

func TestEncryptedStore_Delete(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore("inner")
	s := NewEncryptedStore(inner, encryption.NewTestEncryptor())

	if _, err := s.WriteFile(ctx, "a.jpeg", "YQ==", gallery.DirectoryData); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := s.DeleteFile(ctx, "a.jpeg", gallery.DirectoryData); err != nil {
		t.Fatalf("DeleteFile() error = %v", err)
	}
	if len(inner.Names()) != 0 {
		t.Errorf("inner Names() = %v, want empty", inner.Names())
	}
}

func TestEncryptedStore_UnlockWrongPassphrase(t *testing.T) {
	enc := encryption.NewTestEncryptor()
	if err := enc.Setup("right"); err != nil {
		t.Fatal(err)
	}
	s := NewEncryptedStore(NewMemoryStore("inner"), enc)
	if err := s.Unlock("wrong"); err == nil {
		t.Error("Unlock() with wrong passphrase expected error, got nil")
	}
	if s.Unlocked() {
		t.Error("Unlocked() = true after failed Unlock")
	}
}
