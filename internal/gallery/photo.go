package gallery

import "strings"

// Photo is a single entry in the gallery index.
//
// Filepath locates the stored bytes in the FileStore: a storage URI on a
// native host, a bare file name in a browser. WebviewPath is a URI the view
// layer can render directly and is empty when it has not been resolved.
type Photo struct {
	Filepath    string `json:"filepath"`
	WebviewPath string `json:"webviewPath,omitempty"`
}

// FileName returns the part of Filepath after the last '/'.
func (p Photo) FileName() string {
	return p.Filepath[strings.LastIndex(p.Filepath, "/")+1:]
}

// ImageResource is what a Camera returns for a captured image.
// Path is set by cameras that write to local disk; WebPath is a URI that a
// Fetcher can dereference.
type ImageResource struct {
	Path    string
	WebPath string
	Format  string
}

// ResultType selects how a Camera hands back the captured image.
type ResultType string

const (
	ResultURI     ResultType = "uri"
	ResultBase64  ResultType = "base64"
	ResultDataURL ResultType = "dataUrl"
)

// Source selects where a Camera takes the image from.
type Source string

const (
	SourcePrompt Source = "prompt"
	SourceCamera Source = "camera"
	SourcePhotos Source = "photos"
)

// CameraOptions configures a single capture.
type CameraOptions struct {
	ResultType ResultType
	Source     Source
	Quality    int // 0-100
}

// captureOptions is the fixed configuration used by TakePhoto.
var captureOptions = CameraOptions{
	ResultType: ResultURI,
	Source:     SourceCamera,
	Quality:    100,
}
