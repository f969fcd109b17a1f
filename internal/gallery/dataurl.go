package gallery

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

// jpegDataURLPrefix is prepended to stored JPEG content to make it renderable.
const jpegDataURLPrefix = "data:image/jpeg;base64,"

// Base64FromPath fetches the resource at path and returns it as a
// base64 data URI.
func Base64FromPath(ctx context.Context, f Fetcher, path string) (string, error) {
	blob, err := f.Fetch(ctx, path)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", path, err)
	}
	if blob == nil {
		return "", ErrNotString
	}

	mediaType := "application/octet-stream"
	if blob.Type != "" {
		// dataurl.New panics on a media type without a subtype.
		if mt, _, err := mime.ParseMediaType(blob.Type); err == nil && strings.Count(mt, "/") == 1 {
			mediaType = mt
		}
	}

	return dataurl.New(blob.Data, mediaType).String(), nil
}

// DecodeFileData decodes content handed to FileStore.WriteFile.
// Both plain base64 and data URIs are accepted.
func DecodeFileData(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:") {
		du, err := dataurl.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("decoding data URI: %w", err)
		}
		return du.Data, nil
	}

	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	return b, nil
}

// EncodeFileData encodes raw bytes the way FileStore.ReadFile returns them.
func EncodeFileData(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}
