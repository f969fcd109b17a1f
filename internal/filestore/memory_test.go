package filestore

import (
	"context"
	"errors"
	"testing"

	"gallery-go/internal/gallery"
)

func TestMemoryStore_WriteAndRead(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("test-store")

	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "plain base64", data: "aGVsbG8=", want: "aGVsbG8="},
		{name: "data URI header is stripped", data: "data:image/jpeg;base64,/9j/4AAQ", want: "/9j/4AAQ"},
		{name: "empty content", data: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := store.WriteFile(ctx, "photo.jpeg", tt.data, gallery.DirectoryData)
			if err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if uri != "memory://test-store/photo.jpeg" {
				t.Errorf("WriteFile() uri = %q, want %q", uri, "memory://test-store/photo.jpeg")
			}

			for _, p := range []string{"photo.jpeg", uri} {
				got, err := store.ReadFile(ctx, p, gallery.DirectoryData)
				if err != nil {
					t.Fatalf("ReadFile(%q) error = %v", p, err)
				}
				if got != tt.want {
					t.Errorf("ReadFile(%q) = %q, want %q", p, got, tt.want)
				}
			}
		})
	}
}

func TestMemoryStore_WriteInvalidBase64(t *testing.T) {
	store := NewMemoryStore("test-store")
	if _, err := store.WriteFile(context.Background(), "x.jpeg", "not base64!", gallery.DirectoryData); err == nil {
		t.Error("WriteFile() expected error for invalid base64, got nil")
	}
}

func TestMemoryStore_UnscopedPaths(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("test-store")
	store.Put("/tmp/capture.jpg", []byte("hello"))

	got, err := store.ReadFile(ctx, "/tmp/capture.jpg", gallery.DirectoryNone)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got != "aGVsbG8=" {
		t.Errorf("ReadFile() = %q, want %q", got, "aGVsbG8=")
	}

	// Unscoped files are not visible in the data directory.
	if _, err := store.ReadFile(ctx, "/tmp/capture.jpg", gallery.DirectoryData); !errors.Is(err, gallery.ErrNotFound) {
		t.Errorf("ReadFile() in data dir error = %v, want ErrNotFound", err)
	}
	if len(store.Names()) != 0 {
		t.Errorf("Names() = %v, want empty", store.Names())
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("test-store")

	if _, err := store.WriteFile(ctx, "a.jpeg", "YQ==", gallery.DirectoryData); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := store.DeleteFile(ctx, "a.jpeg", gallery.DirectoryData); err != nil {
		t.Fatalf("DeleteFile() error = %v", err)
	}
	if _, err := store.ReadFile(ctx, "a.jpeg", gallery.DirectoryData); !errors.Is(err, gallery.ErrNotFound) {
		t.Errorf("ReadFile() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteFile(ctx, "a.jpeg", gallery.DirectoryData); !errors.Is(err, gallery.ErrNotFound) {
		t.Errorf("second DeleteFile() error = %v, want ErrNotFound", err)
	}
}
