// Package fetch dereferences resource URIs for gallery.Base64FromPath.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vincent-petithory/dataurl"

	"gallery-go/internal/gallery"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 64 << 20

// Fetcher reads http(s), file and data URIs.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher. A nil client uses http.DefaultClient.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch returns the content at uri.
func (f *Fetcher) Fetch(ctx context.Context, uri string) (*gallery.Blob, error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return f.fetchHTTP(ctx, uri)
	case strings.HasPrefix(uri, "file://"):
		return fetchFile(strings.TrimPrefix(uri, "file://"))
	case strings.HasPrefix(uri, "data:"):
		du, err := dataurl.DecodeString(uri)
		if err != nil {
			return nil, fmt.Errorf("decoding data URI: %w", err)
		}
		return &gallery.Blob{Data: du.Data, Type: du.ContentType()}, nil
	default:
		return nil, fmt.Errorf("unsupported URI: %s", uri)
	}
}

func (f *Fetcher) fetchHTTP(ctx context.Context, uri string) (*gallery.Blob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requesting %s: unexpected status %s", uri, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &gallery.Blob{Data: data, Type: ct}, nil
}

func fetchFile(path string) (*gallery.Blob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &gallery.Blob{Data: data, Type: ct}, nil
}

// Compile-time check that Fetcher implements gallery.Fetcher interface
var _ gallery.Fetcher = (*Fetcher)(nil)
