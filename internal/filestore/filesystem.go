package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gallery-go/internal/gallery"
)

// FileSystemStore is a filesystem-based implementation of gallery.FileStore.
// Files in the data directory are stored flat under root:
//
//	<root>/
//	  <name>     (e.g. 1700000000000.jpeg)
//
// WriteFile returns "file://<absolute path>" URIs, which ReadFile accepts back.
type FileSystemStore struct {
	name string
	root string
}

// NewFileSystemStore creates a new filesystem store rooted at the given path.
func NewFileSystemStore(name, root string) (*FileSystemStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &FileSystemStore{
		name: name,
		root: abs,
	}, nil
}

// Root returns the absolute data directory.
func (s *FileSystemStore) Root() string {
	return s.root
}

// resolve maps a path in dir to a location on disk.
// Data directory paths must be local names or URIs under root.
func (s *FileSystemStore) resolve(path string, dir gallery.Directory) (string, error) {
	p := strings.TrimPrefix(path, "file://")

	if dir != gallery.DirectoryData {
		return filepath.Abs(p)
	}

	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(s.root, p)
		if err != nil || !filepath.IsLocal(rel) {
			return "", fmt.Errorf("path is outside the data directory: %s", path)
		}
		return filepath.Join(s.root, rel), nil
	}
	if !filepath.IsLocal(p) {
		return "", fmt.Errorf("invalid file name: %q", path)
	}
	return filepath.Join(s.root, p), nil
}

// WriteFile decodes data and writes it to name using an atomic write
// (temp file + rename).
func (s *FileSystemStore) WriteFile(_ context.Context, name string, data string, dir gallery.Directory) (string, error) {
	destPath, err := s.resolve(name, dir)
	if err != nil {
		return "", err
	}

	content, err := gallery.DecodeFileData(data)
	if err != nil {
		return "", err
	}

	if err := writeAtomic(destPath, content); err != nil {
		return "", err
	}
	return "file://" + destPath, nil
}

// ReadFile returns the base64 content of path.
func (s *FileSystemStore) ReadFile(_ context.Context, path string, dir gallery.Directory) (string, error) {
	srcPath, err := s.resolve(path, dir)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(srcPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("file %s: %w", path, gallery.ErrNotFound)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return gallery.EncodeFileData(content), nil
}

// DeleteFile removes the named file.
func (s *FileSystemStore) DeleteFile(_ context.Context, name string, dir gallery.Directory) error {
	p, err := s.resolve(name, dir)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file %s: %w", name, gallery.ErrNotFound)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the data directory is accessible.
func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("data directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory is not a directory: %s", s.root)
	}
	return nil
}

// writeAtomic writes content to destPath through a temp file in the same
// directory, so readers never see a partial file.
func writeAtomic(destPath string, content []byte) error {
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := tmpFile.Write(content)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != len(content) {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", len(content), written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemStore implements gallery.FileStore interface
var _ gallery.FileStore = (*FileSystemStore)(nil)
