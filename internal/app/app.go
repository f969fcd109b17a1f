package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gallery-go/internal/camera"
	"gallery-go/internal/config"
	"gallery-go/internal/database"
	"gallery-go/internal/encryption"
	"gallery-go/internal/fetch"
	"gallery-go/internal/filestore"
	"gallery-go/internal/gallery"
	"gallery-go/internal/host"
	"gallery-go/internal/index"
	"gallery-go/internal/server"
)

// GalleryApp is the application layer between the CLI and the Gallery.
// It constructs all dependencies from config and manages the database and
// log file lifecycle on Close.
type GalleryApp struct {
	cfg       *config.Config
	store     *database.SQLiteStore
	files     gallery.FileStore
	encrypted *filestore.EncryptedStore // nil unless filestore.encrypted
	index     *index.PhotoIndex
	gallery   *gallery.Gallery
	logger    gallery.Logger
	op        *Operation
	logFile   *os.File
}

// NewGalleryApp creates a fully wired GalleryApp from the given config.
// operation identifies the CLI command being run (e.g. "TakePhoto").
// The caller must call Close when done.
func NewGalleryApp(ctx context.Context, cfg *config.Config, operation string) (*GalleryApp, error) {
	op := NewOperation(operation)
	slogger, logFile, err := newLogger(cfg.LogDir, op.ID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	a, err := newGalleryApp(ctx, cfg, op, &slogAdapter{l: slogger})
	if err != nil {
		logFile.Close()
		return nil, err
	}
	a.logFile = logFile
	return a, nil
}

func newGalleryApp(ctx context.Context, cfg *config.Config, op *Operation, logger gallery.Logger) (*GalleryApp, error) {
	clock := gallery.RealClock{}

	h, err := host.NewHostFromConfig(cfg.Host, cfg.Server.Addr)
	if err != nil {
		return nil, fmt.Errorf("creating host: %w", err)
	}

	cam, err := camera.NewCameraFromConfig(cfg.Camera, clock, logger)
	if err != nil {
		return nil, fmt.Errorf("creating camera: %w", err)
	}

	files, err := filestore.NewFileStoreFromConfig(ctx, cfg.FileStore)
	if err != nil {
		return nil, fmt.Errorf("creating file store: %w", err)
	}

	enc, err := encryption.NewPhotoEncryptor(cfg.FileStore, cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor (run 'gallery keys init'): %w", err)
	}
	var encrypted *filestore.EncryptedStore
	if enc != nil {
		encrypted = filestore.NewEncryptedStore(files, enc)
		files = encrypted
	}

	store, err := database.NewStoreFromConfig(cfg.Database, cfg.DeviceID, clock)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	if err := store.CheckMigrations(); err != nil {
		store.Close()
		return nil, fmt.Errorf("database schema out of date (run 'gallery init'): %w", err)
	}

	idx := index.NewPhotoIndex(store)
	g := gallery.NewGallery(cam, files, idx, h, fetch.NewFetcher(nil), logger, clock)

	logger.Debug("operation started", "operation", op.Name)
	return &GalleryApp{
		cfg:       cfg,
		store:     store,
		files:     files,
		encrypted: encrypted,
		index:     idx,
		gallery:   g,
		logger:    logger,
		op:        op,
	}, nil
}

// InitDatabase creates or upgrades the database schema.
func InitDatabase(cfg *config.Config) error {
	store, err := database.NewStoreFromConfig(cfg.Database, cfg.DeviceID, gallery.RealClock{})
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// SetupKeys generates the encryption key pair protected by passphrase.
func SetupKeys(cfg *config.Config, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	return enc.Setup(passphrase)
}

// NeedsUnlock reports whether stored photos are encrypted and the private
// key has not been unlocked yet.
func (a *GalleryApp) NeedsUnlock() bool {
	return a.encrypted != nil && !a.encrypted.Unlocked()
}

// NeedsUnlockToLoad reports whether Load has to read stored photos, which
// only happens on a non-native host.
func (a *GalleryApp) NeedsUnlockToLoad() bool {
	return a.NeedsUnlock() && a.cfg.Host.Type == "web"
}

// Unlock unlocks the private key so encrypted photos can be read.
func (a *GalleryApp) Unlock(passphrase string) error {
	if a.encrypted == nil {
		return nil
	}
	return a.encrypted.Unlock(passphrase)
}

// Load loads the gallery. Reading an encrypted store requires Unlock first.
func (a *GalleryApp) Load(ctx context.Context) error {
	return a.track(a.gallery.Load(ctx))
}

// Photos returns the loaded photos, newest first.
func (a *GalleryApp) Photos() []gallery.Photo {
	return a.gallery.Photos()
}

// TakePhoto captures a new photo and returns it.
func (a *GalleryApp) TakePhoto(ctx context.Context) (gallery.Photo, error) {
	if err := a.track(a.gallery.TakePhoto(ctx)); err != nil {
		return gallery.Photo{}, err
	}
	return a.gallery.Photos()[0], nil
}

// DeletePhoto deletes the photo whose Filepath or file name is ref.
func (a *GalleryApp) DeletePhoto(ctx context.Context, ref string) error {
	photo, ok := a.findPhoto(ref)
	if !ok {
		return a.track(fmt.Errorf("photo %s: %w", ref, gallery.ErrNotFound))
	}
	return a.track(a.gallery.DeletePhoto(ctx, photo))
}

func (a *GalleryApp) findPhoto(ref string) (gallery.Photo, bool) {
	photos := a.gallery.Photos()
	for _, p := range photos {
		if p.Filepath == ref {
			return p, true
		}
	}
	for _, p := range photos {
		if p.FileName() == ref {
			return p, true
		}
	}
	return gallery.Photo{}, false
}

// Reset deletes every listed photo and clears the gallery. Files that are
// already gone are skipped; the count covers only files Reset removed.
func (a *GalleryApp) Reset(ctx context.Context) (int, error) {
	deleted := 0
	for _, p := range a.gallery.Photos() {
		err := a.files.DeleteFile(ctx, p.FileName(), gallery.DirectoryData)
		if errors.Is(err, gallery.ErrNotFound) {
			a.logger.Debug("photo file already gone", "filepath", p.Filepath)
			continue
		}
		if err != nil {
			return deleted, a.track(fmt.Errorf("deleting %s: %w", p.FileName(), err))
		}
		deleted++
	}
	if err := a.gallery.Clear(ctx); err != nil {
		return deleted, a.track(err)
	}
	a.logger.Info("gallery reset", "deleted", deleted)
	return deleted, nil
}

// BackupDatabase writes a copy of the database to destPath.
func (a *GalleryApp) BackupDatabase(destPath string) error {
	return a.track(a.store.BackupTo(destPath))
}

// Serve runs the HTTP server until ctx is cancelled. An empty addr uses the
// configured address.
func (a *GalleryApp) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	if addr == "" {
		addr = config.DefaultServerAddr
	}
	srv := server.New(a.gallery, a.files, a.logger)
	return a.track(srv.ListenAndServe(ctx, addr))
}

// track records a failed operation.
func (a *GalleryApp) track(err error) error {
	if err != nil {
		a.op.Fail()
	}
	return err
}

// Close finishes the operation and closes all resources.
func (a *GalleryApp) Close() error {
	var firstErr error

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	a.logger.Debug("operation finished", "operation", a.op.Name, "status", a.op.Status, "duration", a.op.Elapsed())

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
