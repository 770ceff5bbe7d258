package extractor

import (
	"context"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/kkdai/youtube/v2"
)

var youtubeHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// IsYouTubeURL reports whether u is an http(s) URL on a YouTube host
func IsYouTubeURL(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return youtubeHosts[strings.ToLower(u.Hostname())]
}

// YouTubeExtractor resolves YouTube videos with github.com/kkdai/youtube.
// Media bytes are fetched with its own ranged requests so every HTTP status
// is checked before a body is handed out.
type YouTubeExtractor struct {
	client     *youtube.Client
	httpClient *http.Client
	streamURL  func(ctx context.Context, video *youtube.Video, format *youtube.Format) (string, error)
}

// NewYouTubeExtractor creates an extractor. A nil httpClient uses a client
// that honours proxy environment variables and has no overall timeout.
func NewYouTubeExtractor(httpClient *http.Client) *YouTubeExtractor {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		}
	}
	client := &youtube.Client{HTTPClient: httpClient}
	return &YouTubeExtractor{
		client:     client,
		httpClient: httpClient,
		streamURL:  client.GetStreamURLContext,
	}
}

func (e *YouTubeExtractor) Name() string {
	return "youtube"
}

func (e *YouTubeExtractor) Match(u *url.URL) bool {
	return IsYouTubeURL(u)
}

func (e *YouTubeExtractor) Extract(ctx context.Context, rawURL string) (*VideoMedia, error) {
	video, err := e.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return nil, classify("resolve", err)
	}
	return toVideoMedia(video), nil
}

func (e *YouTubeExtractor) Stream(ctx context.Context, media *VideoMedia, format *VideoFormat) (io.ReadCloser, int64, error) {
	video, ok := media.Handle.(*youtube.Video)
	if !ok {
		return nil, 0, &Error{Kind: KindOther, Op: "stream", Err: errors.New("media was not resolved by the youtube extractor")}
	}
	f, ok := format.Handle.(*youtube.Format)
	if !ok {
		return nil, 0, &Error{Kind: KindOther, Op: "stream", Err: errors.New("format was not resolved by the youtube extractor")}
	}

	streamURL, err := e.streamURL(ctx, video, f)
	if err != nil {
		return nil, 0, classify("stream", err)
	}
	return openStream(ctx, e.httpClient, streamURL, f.ContentLength)
}

func toVideoMedia(v *youtube.Video) *VideoMedia {
	media := &VideoMedia{
		ID:       v.ID,
		Title:    v.Title,
		Uploader: v.Author,
		Views:    v.Views,
		Duration: int(v.Duration.Seconds()),
		Handle:   v,
	}
	for i := range v.Formats {
		f := &v.Formats[i]
		media.Formats = append(media.Formats, VideoFormat{
			Quality:  f.QualityLabel,
			Ext:      mimeToExt(f.MimeType),
			MimeType: f.MimeType,
			Width:    f.Width,
			Height:   f.Height,
			Bitrate:  f.Bitrate,
			Size:     f.ContentLength,
			HasAudio: f.AudioChannels > 0,
			Handle:   f,
		})
	}
	return media
}

func mimeToExt(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	}
	switch strings.ToLower(mediaType) {
	case "video/webm", "audio/webm":
		return "webm"
	case "video/3gpp":
		return "3gp"
	case "audio/mp4":
		return "m4a"
	default:
		return "mp4"
	}
}

// classifyingReader tags transport errors surfacing mid-stream
type classifyingReader struct {
	io.ReadCloser
}

func (r *classifyingReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		err = classify("fetch", err)
	}
	return n, err
}

// classify maps library errors onto an ErrorKind
func classify(op string, err error) error {
	var ee *Error
	if errors.As(err, &ee) {
		return err
	}

	kind := KindOther

	var status youtube.ErrUnexpectedStatusCode
	var playability *youtube.ErrPlayabiltyStatus
	var netErr net.Error

	switch {
	case errors.As(err, &status):
		switch int(status) {
		case http.StatusForbidden, http.StatusTooManyRequests:
			kind = KindRateLimited
		case http.StatusNotFound, http.StatusGone:
			kind = KindNotFound
		default:
			kind = KindNetwork
		}
	case errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		kind = KindInvalidInput
	case errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrNotPlayableInEmbed):
		kind = KindOther
	case errors.As(err, &playability):
		// "ERROR" is what the player reports for removed or unknown videos
		if playability.Status == "ERROR" {
			kind = KindNotFound
		}
	case errors.Is(err, context.Canceled):
		kind = KindOther
	case errors.As(err, &netErr):
		kind = KindNetwork
	}

	return &Error{Kind: kind, Op: op, Err: err}
}
