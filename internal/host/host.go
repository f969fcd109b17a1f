// Package host implements gallery.Host for the environments the gallery can
// run in.
package host

import (
	"fmt"
	"net"
	"strings"

	"gallery-go/internal/config"
	"gallery-go/internal/gallery"
)

// FilePath is the route the HTTP server serves stored files under.
const FilePath = "/_gallery_file_"

// DefaultFileSrcPrefix is where the HTTP server serves stored files from when
// it listens on config.DefaultServerAddr.
var DefaultFileSrcPrefix = FileSrcPrefixFor(config.DefaultServerAddr)

// FileSrcPrefixFor returns the file URL prefix for a server listening on
// addr. A wildcard or missing host is reached over loopback.
func FileSrcPrefixFor(addr string) string {
	if addr == "" {
		addr = config.DefaultServerAddr
	}
	h, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + FilePath
	}
	if h == "" || h == "0.0.0.0" || h == "::" {
		h = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(h, port) + FilePath
}

// NativeHost can read stored files directly. ConvertFileSrc rewrites
// file:// URIs onto a prefix that the view layer can load.
type NativeHost struct {
	prefix string
}

// NewNativeHost creates a NativeHost. An empty prefix uses DefaultFileSrcPrefix.
func NewNativeHost(prefix string) *NativeHost {
	if prefix == "" {
		prefix = DefaultFileSrcPrefix
	}
	return &NativeHost{prefix: strings.TrimSuffix(prefix, "/")}
}

func (h *NativeHost) IsNative() bool { return true }

// ConvertFileSrc maps "file:///a/b.jpeg" to "<prefix>/a/b.jpeg".
// Other URIs are returned unchanged.
func (h *NativeHost) ConvertFileSrc(uri string) string {
	p, ok := strings.CutPrefix(uri, "file://")
	if !ok {
		return uri
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return h.prefix + p
}

// WebHost behaves like a browser: stored files are only reachable through
// the file store.
type WebHost struct{}

func NewWebHost() *WebHost { return &WebHost{} }

func (*WebHost) IsNative() bool { return false }

func (*WebHost) ConvertFileSrc(uri string) string { return uri }

// NewHostFromConfig creates a Host based on the host config type. A native
// host without a file_src_prefix points at the server listening on serverAddr.
func NewHostFromConfig(cfg config.HostConfig, serverAddr string) (gallery.Host, error) {
	switch cfg.Type {
	case "native", "":
		prefix := cfg.FileSrcPrefix
		if prefix == "" {
			prefix = FileSrcPrefixFor(serverAddr)
		}
		return NewNativeHost(prefix), nil
	case "web":
		return NewWebHost(), nil
	default:
		return nil, fmt.Errorf("unknown host type: %s", cfg.Type)
	}
}

var (
	_ gallery.Host = (*NativeHost)(nil)
	_ gallery.Host = (*WebHost)(nil)
)
