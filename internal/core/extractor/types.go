package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// VideoMedia is the resolved description of a single video
type VideoMedia struct {
	ID       string
	Title    string
	Uploader string
	Views    int
	Duration int // seconds
	Formats  []VideoFormat

	// Handle is opaque to callers. The extractor that produced the media uses
	// it to open streams.
	Handle any
}

// VideoFormat represents a single quality/container variant
type VideoFormat struct {
	Quality  string // "1080p", "720p", etc.
	Ext      string // "mp4", "webm", "3gp"
	MimeType string
	Width    int
	Height   int
	Bitrate  int
	Size     int64 // bytes, 0 if unknown
	HasAudio bool
	Handle   any
}

// QualityLabel returns a human-readable quality label
func (f *VideoFormat) QualityLabel() string {
	if f.Quality != "" {
		return f.Quality
	}
	if f.Height > 0 {
		return fmt.Sprintf("%dp", f.Height)
	}
	return "unknown"
}

// ViewsLabel returns the view count with thousands separators
func (v *VideoMedia) ViewsLabel() string {
	digits := strconv.Itoa(v.Views)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// DurationLabel returns the length as m:ss or h:mm:ss
func (v *VideoMedia) DurationLabel() string {
	if v.Duration <= 0 {
		return "0:00"
	}
	h := v.Duration / 3600
	m := (v.Duration % 3600) / 60
	s := v.Duration % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// HighestResolution returns the muxed (audio and video) format with the
// greatest height. Formats of equal height keep the extractor's order, so the
// first one wins. Returns nil when there is no muxed video format.
func (v *VideoMedia) HighestResolution() *VideoFormat {
	var best *VideoFormat
	for i := range v.Formats {
		f := &v.Formats[i]
		if !f.HasAudio || f.Height <= 0 {
			continue
		}
		if best == nil || f.Height > best.Height {
			best = f
		}
	}
	return best
}

var (
	urlPattern   = regexp.MustCompile(`https?://\S+`)
	spacePattern = regexp.MustCompile(`\s+`)

	filenameReplacer = strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"／", "-",
		"＼", "-",
		"：", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
		"＊", "",
		"？", "",
		"＜", "",
		"＞", "",
		"｜", "",
		"【", "",
		"】", "",
		"「", "",
		"」", "",
		"\n", " ",
		"\r", " ",
		"\t", " ",
	)

	// Windows refuses these as base names regardless of extension.
	reservedNames = map[string]bool{
		"CON": true, "PRN": true, "AUX": true, "NUL": true,
		"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
		"COM6": true, "COM7": true, "COM8": true, "COM9": true,
		"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
		"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
	}
)

// SanitizeFilename removes or replaces characters that are invalid in filenames
func SanitizeFilename(name string) string {
	// Remove URLs first, before ':' and '/' get rewritten
	result := urlPattern.ReplaceAllString(name, "")
	result = filenameReplacer.Replace(result)

	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)

	result = spacePattern.ReplaceAllString(result, " ")
	result = strings.Trim(strings.TrimSpace(result), ". ")

	// Most filesystems limit names to 255 bytes. 60 runes of CJK text stays
	// well below that and leaves room for the extension.
	const maxRunes = 60
	runes := []rune(result)
	if len(runes) > maxRunes {
		result = strings.TrimSpace(string(runes[:maxRunes]))
	}

	if reservedNames[strings.ToUpper(result)] {
		result = "_" + result
	}

	return result
}
