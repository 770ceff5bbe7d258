package extractor

import (
	"context"
	"io"
	"net/url"
)

// Extractor resolves a page URL into stream metadata and opens the byte
// stream of a chosen format.
type Extractor interface {
	// Name returns the extractor name (e.g., "youtube")
	Name() string

	// Match returns true if this extractor can handle the URL.
	// The URL is pre-parsed so extractors can reliably check the host.
	Match(u *url.URL) bool

	// Extract retrieves media information from the URL
	Extract(ctx context.Context, rawURL string) (*VideoMedia, error)

	// Stream opens the bytes of format. The returned size is the expected
	// content length, or <= 0 when unknown.
	Stream(ctx context.Context, media *VideoMedia, format *VideoFormat) (io.ReadCloser, int64, error)
}
