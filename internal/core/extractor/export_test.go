package extractor

import (
	"context"
	"net/http"

	"github.com/kkdai/youtube/v2"
)

// NewYouTubeExtractorAt returns an extractor whose streams are all fetched
// from streamURL instead of a deciphered googlevideo URL.
func NewYouTubeExtractorAt(httpClient *http.Client, streamURL string) *YouTubeExtractor {
	e := NewYouTubeExtractor(httpClient)
	e.streamURL = func(context.Context, *youtube.Video, *youtube.Format) (string, error) {
		return streamURL, nil
	}
	return e
}

var ToVideoMedia = toVideoMedia
