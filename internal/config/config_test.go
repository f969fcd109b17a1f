package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		DeviceID: "test-device-abc",
		BaseDir:  "/home/user/.local/share/gallery",
		LogDir:   "/home/user/.local/share/gallery/log",
		Host:     HostConfig{Type: "native", FileSrcPrefix: "http://localhost/_gallery_file_"},
		Camera: CameraConfig{
			Type:       "command",
			Command:    []string{"fswebcam", "-r", "1280x720", "{output}"},
			CaptureDir: "/tmp/captures",
		},
		FileStore: FileStoreConfig{
			Type:        "s3",
			Name:        "remote",
			Encrypted:   true,
			S3Bucket:    "photos",
			S3Prefix:    "phone",
			S3Region:    "eu-west-1",
			S3Endpoint:  "http://localhost:9000",
			S3PathStyle: true,
		},
		Encryption: EncryptionConfig{
			PublicKeyPath:  "/home/user/.local/share/gallery/keys/gallery.pub",
			PrivateKeyPath: "/home/user/.local/share/gallery/keys/gallery.key",
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/gallery/db"},
		Server:   ServerConfig{Addr: ":9000"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.DeviceID != original.DeviceID {
		t.Errorf("DeviceID = %q, want %q", got.DeviceID, original.DeviceID)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Host != original.Host {
		t.Errorf("Host = %+v, want %+v", got.Host, original.Host)
	}
	if len(got.Camera.Command) != 4 || got.Camera.Command[3] != "{output}" {
		t.Errorf("Camera.Command = %v, want %v", got.Camera.Command, original.Camera.Command)
	}
	if got.FileStore != original.FileStore {
		t.Errorf("FileStore = %+v, want %+v", got.FileStore, original.FileStore)
	}
	if got.Encryption != original.Encryption {
		t.Errorf("Encryption = %+v, want %+v", got.Encryption, original.Encryption)
	}
	if got.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", got.Database.Type, "sqlite")
	}
	if got.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want %q", got.Server.Addr, ":9000")
	}
}

func TestManager_Read_Invalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("device_id = ")); err == nil {
		t.Error("Read() expected error for malformed TOML, got nil")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("device-1", "/data/gallery")

	if cfg.DeviceID != "device-1" {
		t.Errorf("DeviceID = %q, want %q", cfg.DeviceID, "device-1")
	}
	if cfg.LogDir != "/data/gallery/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/gallery/log")
	}
	if cfg.Host.Type != "native" {
		t.Errorf("Host.Type = %q, want %q", cfg.Host.Type, "native")
	}
	if cfg.FileStore.Type != "filesystem" || cfg.FileStore.DataDir != "/data/gallery/data" {
		t.Errorf("FileStore = %+v, want filesystem at /data/gallery/data", cfg.FileStore)
	}
	if cfg.Database.DataDir != "/data/gallery/db" {
		t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/data/gallery/db")
	}
	if cfg.Camera.CaptureDir != "/data/gallery/captures" {
		t.Errorf("Camera.CaptureDir = %q, want %q", cfg.Camera.CaptureDir, "/data/gallery/captures")
	}
	if cfg.Encryption.PrivateKeyPath != "/data/gallery/keys/gallery.key" {
		t.Errorf("Encryption.PrivateKeyPath = %q, want %q", cfg.Encryption.PrivateKeyPath, "/data/gallery/keys/gallery.key")
	}
	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultServerAddr)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "gallery.toml")
		cfg := NewConfig("d1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("config file mode = %o, want 600", perm)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "gallery.toml")
		cfg := NewConfig("d1", dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "gallery.toml")
		cfg := NewConfig("read-test", dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.DeviceID != "read-test" {
			t.Errorf("DeviceID = %q, want %q", got.DeviceID, "read-test")
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/gallery.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
