package gallery

import (
	"context"
	"fmt"
	"strconv"
	"sync"
)

// State is the lifecycle state of a Gallery.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// Gallery is the controller that owns the list of photos and coordinates
// the camera, file store and index for capture, listing and deletion.
//
// Load, TakePhoto and DeletePhoto are serialized against each other so every
// index write starts from the list left by the previous operation. Photos and
// State never block on an operation in progress.
type Gallery struct {
	camera  Camera
	files   FileStore
	index   Index
	host    Host
	fetcher Fetcher
	logger  Logger
	clock   Clock

	opMu sync.Mutex
	// stored holds the persisted display path of every photo whose
	// WebviewPath Load replaced with a data URI. Guarded by opMu.
	stored map[string]string

	mu     sync.RWMutex
	state  State
	photos []Photo
}

// NewGallery creates an uninitialized Gallery. Call Load before first use.
func NewGallery(camera Camera, files FileStore, index Index, host Host, fetcher Fetcher, logger Logger, clock Clock) *Gallery {
	return &Gallery{
		camera:  camera,
		files:   files,
		index:   index,
		host:    host,
		fetcher: fetcher,
		logger:  logger,
		clock:   clock,
		stored:  map[string]string{},
		photos:  []Photo{},
	}
}

// Photos returns a copy of the current list, newest first.
func (g *Gallery) Photos() []Photo {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Photo, len(g.photos))
	copy(out, g.photos)
	return out
}

// State returns the current lifecycle state.
func (g *Gallery) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gallery) setState(s State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = s
}

func (g *Gallery) setPhotos(photos []Photo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.photos = photos
}

// Load reads the persisted index and, on hosts that cannot render stored
// files directly, resolves a data URI for every photo.
//
// The gallery is Ready when Load returns, even on error; a failed load leaves
// the list empty. Calling Load again after the first call does nothing.
//
// After a failed Load the next TakePhoto or DeletePhoto writes the index from
// that empty list, dropping every record persisted before. Callers that must
// keep the existing index should stop on a Load error.
func (g *Gallery) Load(ctx context.Context) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if g.State() != StateUninitialized {
		return nil
	}
	g.setState(StateLoading)
	defer g.setState(StateReady)

	photos, err := g.loadIndex(ctx)
	if err != nil {
		return err
	}

	if !g.host.IsNative() {
		if err := g.resolveDisplayPaths(ctx, photos); err != nil {
			return err
		}
	}

	g.setPhotos(photos)
	g.logger.Info("gallery loaded", "count", len(photos))
	return nil
}

func (g *Gallery) loadIndex(ctx context.Context) ([]Photo, error) {
	photos, err := g.index.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}
	if photos == nil {
		photos = []Photo{}
	}
	return photos, nil
}

// resolveDisplayPaths sets WebviewPath to a JPEG data URI read from the file store.
func (g *Gallery) resolveDisplayPaths(ctx context.Context, photos []Photo) error {
	stored := make(map[string]string, len(photos))
	for i := range photos {
		data, err := g.files.ReadFile(ctx, photos[i].Filepath, DirectoryData)
		if err != nil {
			return fmt.Errorf("reading %s: %w", photos[i].Filepath, err)
		}
		stored[photos[i].Filepath] = photos[i].WebviewPath
		photos[i].WebviewPath = jpegDataURLPrefix + data
	}
	g.stored = stored
	return nil
}

// saveIndex persists photos with resolved data URIs swapped back for the
// display paths they replaced, so the index never holds image bytes.
func (g *Gallery) saveIndex(ctx context.Context, photos []Photo) error {
	records := make([]Photo, len(photos))
	for i, p := range photos {
		if orig, ok := g.stored[p.Filepath]; ok {
			p.WebviewPath = orig
		}
		records[i] = p
	}
	if err := g.index.Save(ctx, records); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	return nil
}

// TakePhoto captures an image, stores it, and puts it at the front of the
// list. The index is written before the in-memory list is replaced.
func (g *Gallery) TakePhoto(ctx context.Context) error {
	image, err := g.camera.GetPhoto(ctx, captureOptions)
	if err != nil {
		return fmt.Errorf("capturing photo: %w", err)
	}

	g.opMu.Lock()
	defer g.opMu.Unlock()

	current := g.Photos()
	fileName := g.newFileName(current)

	photo, err := g.SavePicture(ctx, image, fileName)
	if err != nil {
		return err
	}

	newPhotos := make([]Photo, 0, len(current)+1)
	newPhotos = append(newPhotos, photo)
	newPhotos = append(newPhotos, current...)

X, "filepath", photo.Filepath)
	return nil
}

// newFileName returns "<epoch millis>.jpeg". If the name is already in use
// the timestamp is bumped until it is not.
func (g *Gallery) newFileName(current []Photo) string {
	ms := g.clock.Now().UnixMilli()
	for {
		name := strconv.FormatInt(ms, 10) + ".jpeg"
		if !containsFileName(current, name) {
			return name
		}
		ms++
	}
}

func containsFileName(photos []Photo, name string) bool {
	for _, p := range photos {
		if p.FileName() == name {
			return true
		}
	}
	return false
}

// SavePicture writes the captured image to the data directory under fileName
// and builds the Photo for it.
//
// On a native host the bytes are read from image.Path and the photo is
// addressed by its storage URI. Otherwise image.WebPath is fetched and the
// photo is addressed by fileName, keeping the capture URI for display.
func (g *Gallery) SavePicture(ctx context.Context, image *ImageResource, fileName string) (Photo, error) {
	native := g.host.IsNative()

	var data string
	if native {
		d, err := g.files.ReadFile(ctx, image.Path, DirectoryNone)
		if err != nil {
			return Photo{}, fmt.Errorf("reading captured image: %w", err)
		}
		data = d
	} else {
		d, err := Base64FromPath(ctx, g.fetcher, image.WebPath)
		if err != nil {
			return Photo{}, fmt.Errorf("converting captured image: %w", err)
		}
		data = d
	}

	uri, err := g.files.WriteFile(ctx, fileName, data, DirectoryData)
	if err != nil {
		return Photo{}, fmt.Errorf("writing %s: %w", fileName, err)
	}
	g.logger.Debug("picture saved", "name", fileName, "uri", uri, "native", native)

	if native {
		return Photo{
			Filepath:    uri,
			WebviewPath: g.host.ConvertFileSrc(uri),
		}, nil
	}
	return Photo{
		Filepath:    fileName,
		WebviewPath: image.WebPath,
	}, nil
}

// DeletePhoto removes the photo whose Filepath matches exactly, persists the
// new index, then deletes the stored file. A photo that is not in the list
// is ignored.
//
// There is no rollback: if the file deletion fails the index has already
// been written without the photo.
func (g *Gallery) DeletePhoto(ctx context.Context, photo Photo) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	current := g.Photos()
	newPhotos := make([]Photo, 0, len(current))
	for _, p := range current {
		if p.Filepath != photo.Filepath {
			newPhotos = append(newPhotos, p)
		}
	}
	if len(newPhotos) == len(current) {
		g.logger.Debug("photo not in gallery", "filepath", photo.Filepath)
		return nil
	}

	if err := g.saveIndex(ctx, newPhotos); err != nil {
		return err
	}

	name := photo.FileName()
	if err := g.files.DeleteFile(ctx, name, DirectoryData); err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	delete(g.stored, photo.Filepath)
	g.setPhotos(newPhotos)

	g.logger.Info("photo deleted", "filepath", photo.Filepath)
	return nil
}

// Clear removes the persisted index and empties the list. Stored files are
// left to the caller.
func (g *Gallery) Clear(ctx context.Context) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if err := g.index.Reset(ctx); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	g.stored = map[string]string{}
	g.setPhotos([]Photo{})

	g.logger.Info("gallery cleared")
	return nil
}
