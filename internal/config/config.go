package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultServerAddr is the listen address used when none is configured.
const DefaultServerAddr = "127.0.0.1:8420"

// Config represents the main configuration for gallery.
type Config struct {
	DeviceID   string           `toml:"device_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Host       HostConfig       `toml:"host"`
	Camera     CameraConfig     `toml:"camera"`
	FileStore  FileStoreConfig  `toml:"filestore"`
	Database   DatabaseConfig   `toml:"database"`
	Encryption EncryptionConfig `toml:"encryption"`
	Server     ServerConfig     `toml:"server"`
}

// HostConfig selects the host environment.
type HostConfig struct {
	Type          string `toml:"type"`                      // "native" or "web"
	FileSrcPrefix string `toml:"file_src_prefix,omitempty"` // only used for type=native
}

// CameraConfig represents configuration for the capture backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type CameraConfig struct {
	Type string `toml:"type"` // "command", "file", or "url"

	// Command-specific fields (only used when Type == "command").
	// {output} and {quality} in Command are replaced per capture.
	Command    []string `toml:"command,omitempty"`
	CaptureDir string   `toml:"capture_dir,omitempty"`

	// File-specific fields (only used when Type == "file")
	SourcePath string `toml:"source_path,omitempty"`

	// URL-specific fields (only used when Type == "url")
	URL string `toml:"url,omitempty"`
}

// FileStoreConfig represents configuration for the photo file store.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type FileStoreConfig struct {
	Type      string `toml:"type"` // "memory", "filesystem", or "s3"
	Name      string `toml:"name"`
	Encrypted bool   `toml:"encrypted"`

	// Filesystem-specific fields (only used when Type == "filesystem")
	DataDir string `toml:"data_dir,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3Endpoint        string `toml:"s3_endpoint,omitempty"`
	S3PathStyle       bool   `toml:"s3_path_style,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`
}

// DatabaseConfig represents configuration for the key-value database holding the index.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// EncryptionConfig holds paths to the age key pair used when the file store is encrypted.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// NewConfig creates a new Config with the provided values and defaults for a
// native host storing photos on the local filesystem.
func NewConfig(deviceID, baseDir string) *Config {
	return &Config{
		DeviceID: deviceID,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		Host: HostConfig{
			Type: "native",
		},
		Camera: CameraConfig{
			Type:       "command",
			Command:    []string{"libcamera-still", "--nopreview", "-q", "{quality}", "-o", "{output}"},
			CaptureDir: filepath.Join(baseDir, "captures"),
		},
		FileStore: FileStoreConfig{
			Type:    "filesystem",
			Name:    "local",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "gallery.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "gallery.key"),
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The config may hold S3 credentials.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
