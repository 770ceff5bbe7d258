package extractor_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/furkhad/youtube/internal/core/downloader"
	"github.com/furkhad/youtube/internal/core/extractor"
	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolvedExtractor skips the watch page lookup and streams through the
// real youtube fetch path.
type resolvedExtractor struct {
	*extractor.YouTubeExtractor
	media *extractor.VideoMedia
}

func (r resolvedExtractor) Extract(context.Context, string) (*extractor.VideoMedia, error) {
	return r.media, nil
}

func newResolvedExtractor(srv *httptest.Server, size int64) resolvedExtractor {
	return resolvedExtractor{
		YouTubeExtractor: extractor.NewYouTubeExtractorAt(srv.Client(), srv.URL+"/videoplayback"),
		media: extractor.ToVideoMedia(&youtube.Video{
			ID:    "dQw4w9WgXcQ",
			Title: "Rejected",
			Formats: youtube.FormatList{
				{ItagNo: 18, MimeType: `video/mp4; codecs="avc1.42001E, mp4a.40.2"`, QualityLabel: "360p", Height: 360, AudioChannels: 2, ContentLength: size},
			},
		}),
	}
}

func TestDownloadRetriesRejectedStream(t *testing.T) {
	tests := []struct {
		name   string
		status int
		size   int64
	}{
		{"forbidden known size", http.StatusForbidden, 1 << 20},
		{"forbidden unknown size", http.StatusForbidden, 0},
		{"too many requests known size", http.StatusTooManyRequests, 1 << 20},
		{"too many requests unknown size", http.StatusTooManyRequests, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				w.WriteHeader(tt.status)
				w.Write([]byte("<html>forbidden</html>"))
			}))
			defer srv.Close()

			var waits []time.Duration
			d := downloader.New(newResolvedExtractor(srv, tt.size),
				downloader.WithSleep(func(_ context.Context, d time.Duration) error {
					waits = append(waits, d)
					return nil
				}),
			)

			dir := t.TempDir()
			result, err := d.Download(context.Background(), downloader.NewRequest("https://www.youtube.com/watch?v=dQw4w9WgXcQ", dir))
			assert.Nil(t, result)

			var failure *downloader.Failure
			require.True(t, errors.As(err, &failure), "error %v is not a *Failure", err)
			assert.Equal(t, extractor.KindRateLimited, failure.Kind)
			assert.Equal(t, downloader.DefaultMaxRetries, failure.Attempts)
			assert.ErrorIs(t, err, downloader.ErrMaxRetries)
			assert.Equal(t, []time.Duration{downloader.DefaultBackoff, downloader.DefaultBackoff}, waits)
			assert.Equal(t, int32(downloader.DefaultMaxRetries), requests.Load())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestDownloadRecoversAfterRejectedStream(t *testing.T) {
	body := []byte("0123456789abcdefghijklmnopqrstuvwxyz")

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	var waits int
	d := downloader.New(newResolvedExtractor(srv, 0),
		downloader.WithSleep(func(context.Context, time.Duration) error {
			waits++
			return nil
		}),
	)

	result, err := d.Download(context.Background(), downloader.NewRequest("https://www.youtube.com/watch?v=dQw4w9WgXcQ", t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 1, waits)

	got, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}
