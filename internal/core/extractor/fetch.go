package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kkdai/youtube/v2"
)

// fetchChunkSize bounds a single ranged request. googlevideo throttles
// long unranged responses, so known-size streams are pulled in pieces.
var fetchChunkSize int64 = 10 * 1024 * 1024

// openStream starts fetching streamURL. The first request is issued before
// returning so a rejected URL surfaces as a classified error, never as a
// body. size <= 0 means the length is unknown and one plain GET is used.
func openStream(ctx context.Context, client *http.Client, streamURL string, size int64) (io.ReadCloser, int64, error) {
	if size <= 0 {
		resp, err := fetch(ctx, client, streamURL, "")
		if err != nil {
			return nil, 0, err
		}
		return &classifyingReader{ReadCloser: resp.Body}, max(resp.ContentLength, 0), nil
	}

	r := &rangeReader{ctx: ctx, client: client, url: streamURL, size: size}
	if err := r.next(); err != nil {
		return nil, 0, err
	}
	return r, size, nil
}

// fetch issues a GET and rejects any non-2xx response
func fetch(ctx context.Context, client *http.Client, streamURL, byteRange string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindOther, Op: "fetch", Err: err}
	}
	req.Header.Set("Referer", "https://www.youtube.com/")
	req.Header.Set("Origin", "https://www.youtube.com")
	if byteRange != "" {
		req.Header.Set("Range", byteRange)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, classify("fetch", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, classify("fetch", youtube.ErrUnexpectedStatusCode(resp.StatusCode))
	}
	return resp, nil
}

// rangeReader reads a stream of known size as consecutive ranged requests
type rangeReader struct {
	ctx    context.Context
	client *http.Client
	url    string
	size   int64

	offset int64 // bytes delivered so far
	end    int64 // exclusive end of the open chunk
	body   io.ReadCloser
}

func (r *rangeReader) next() error {
	end := min(r.offset+fetchChunkSize, r.size)
	resp, err := fetch(r.ctx, r.client, r.url, fmt.Sprintf("bytes=%d-%d", r.offset, end-1))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusPartialContent {
		// range ignored: only acceptable when the whole stream comes back
		if r.offset != 0 {
			resp.Body.Close()
			return &Error{Kind: KindNetwork, Op: "fetch", Err: fmt.Errorf("server ignored range at offset %d", r.offset)}
		}
		end = r.size
	}
	r.body = resp.Body
	r.end = end
	return nil
}

func (r *rangeReader) Read(p []byte) (int, error) {
	for {
		if r.body == nil {
			if r.offset >= r.size {
				return 0, io.EOF
			}
			if err := r.next(); err != nil {
				return 0, err
			}
		}

		if remaining := r.end - r.offset; int64(len(p)) > remaining {
			p = p[:remaining]
		}
		n, err := r.body.Read(p)
		r.offset += int64(n)

		if r.offset >= r.end {
			r.body.Close()
			r.body = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			r.body.Close()
			r.body = nil
			return n, &Error{Kind: KindNetwork, Op: "fetch", Err: fmt.Errorf("chunk ended at offset %d, expected %d", r.offset, r.end)}
		}
		if err != nil {
			return n, classify("fetch", err)
		}
		if n > 0 {
			return n, nil
		}
	}
}

func (r *rangeReader) Close() error {
	if r.body == nil {
		return nil
	}
	err := r.body.Close()
	r.body = nil
	return err
}
