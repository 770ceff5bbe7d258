package extractor

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fetchBody = []byte("0123456789abcdefghijklmnopqrstuvwxyz")

func testMedia(size int64) (*VideoMedia, *VideoFormat) {
	media := toVideoMedia(&youtube.Video{
		ID:    "dQw4w9WgXcQ",
		Title: "Test",
		Formats: youtube.FormatList{
			{ItagNo: 18, URL: "https://rr1.googlevideo.com/videoplayback", MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, QualityLabel: "360p", Height: 360, AudioChannels: 2, ContentLength: size},
		},
	})
	return media, &media.Formats[0]
}

func serveBody(w http.ResponseWriter, r *http.Request) {
	http.ServeContent(w, r, "video.mp4", time.Time{}, bytes.NewReader(fetchBody))
}

func smallChunks(t *testing.T, n int64) {
	t.Helper()
	old := fetchChunkSize
	fetchChunkSize = n
	t.Cleanup(func() { fetchChunkSize = old })
}

func TestStreamRejectsErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		size   int64
		want   ErrorKind
	}{
		{"forbidden known size", http.StatusForbidden, int64(len(fetchBody)), KindRateLimited},
		{"forbidden unknown size", http.StatusForbidden, 0, KindRateLimited},
		{"too many requests known size", http.StatusTooManyRequests, int64(len(fetchBody)), KindRateLimited},
		{"too many requests unknown size", http.StatusTooManyRequests, 0, KindRateLimited},
		{"not found", http.StatusNotFound, 0, KindNotFound},
		{"gone", http.StatusGone, int64(len(fetchBody)), KindNotFound},
		{"server error", http.StatusInternalServerError, 0, KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "<html>forbidden</html>", tt.status)
			}))
			defer srv.Close()

			e := NewYouTubeExtractorAt(srv.Client(), srv.URL+"/videoplayback")
			media, format := testMedia(tt.size)

			body, size, err := e.Stream(context.Background(), media, format)
			require.Error(t, err)
			assert.Nil(t, body)
			assert.Zero(t, size)
			assert.Equal(t, tt.want, KindOf(err))
			assert.Contains(t, err.Error(), "fetch")
		})
	}
}

func TestStreamChunked(t *testing.T) {
	smallChunks(t, 10)

	var (
		mu     sync.Mutex
		ranges []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ranges = append(ranges, r.Header.Get("Range"))
		mu.Unlock()
		serveBody(w, r)
	}))
	defer srv.Close()

	e := NewYouTubeExtractorAt(srv.Client(), srv.URL+"/videoplayback")
	media, format := testMedia(int64(len(fetchBody)))

	body, size, err := e.Stream(context.Background(), media, format)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, int64(len(fetchBody)), size)

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, fetchBody, got)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"bytes=0-9", "bytes=10-19", "bytes=20-29", "bytes=30-35"}, ranges)
}

func TestStreamUnknownSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Range"))
		w.Write(fetchBody)
	}))
	defer srv.Close()

	e := NewYouTubeExtractorAt(srv.Client(), srv.URL+"/videoplayback")
	media, format := testMedia(0)

	body, size, err := e.Stream(context.Background(), media, format)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, int64(len(fetchBody)), size)

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, fetchBody, got)
}

func TestStreamForbiddenMidStream(t *testing.T) {
	smallChunks(t, 10)

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) > 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		serveBody(w, r)
	}))
	defer srv.Close()

	e := NewYouTubeExtractorAt(srv.Client(), srv.URL+"/videoplayback")
	media, format := testMedia(int64(len(fetchBody)))

	body, _, err := e.Stream(context.Background(), media, format)
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, fetchBody[:10], got)
}

func TestStreamShortChunk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "bytes 0-35/36")
		w.WriteHeader(http.StatusPartialContent)
		w.Write(fetchBody[:5])
	}))
	defer srv.Close()

	e := NewYouTubeExtractorAt(srv.Client(), srv.URL+"/videoplayback")
	media, format := testMedia(int64(len(fetchBody)))

	body, _, err := e.Stream(context.Background(), media, format)
	require.NoError(t, err)
	defer body.Close()

	_, err = io.ReadAll(body)
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestStreamRangeIgnored(t *testing.T) {
	smallChunks(t, 10)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(w, strings.NewReader(string(fetchBody)))
	}))
	defer srv.Close()

	e := NewYouTubeExtractorAt(srv.Client(), srv.URL+"/videoplayback")
	media, format := testMedia(int64(len(fetchBody)))

	body, _, err := e.Stream(context.Background(), media, format)
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, fetchBody, got)
}
