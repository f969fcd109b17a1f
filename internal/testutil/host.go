package testutil

import (
	"strings"

	"gallery-go/internal/gallery"
)

// StubHost is a Host with a fixed platform. ConvertFileSrc replaces a
// file:// scheme with "converted://".
type StubHost struct {
	Native bool
}

func (h StubHost) IsNative() bool { return h.Native }

func (h StubHost) ConvertFileSrc(uri string) string {
	if p, ok := strings.CutPrefix(uri, "file://"); ok {
		return "converted://" + p
	}
	return uri
}

var _ gallery.Host = StubHost{}
