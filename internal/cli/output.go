package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/furkhad/youtube/internal/core/extractor"
	"github.com/furkhad/youtube/internal/core/i18n"
)

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// printMetadata prints the title, view count and length of media, followed by
// the selected format when there is one.
func printMetadata(w io.Writer, t *i18n.Translations, media *extractor.VideoMedia, format *extractor.VideoFormat) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(t.Info.Title+":"), valueStyle.Render(media.Title))
	if media.Uploader != "" {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(t.Info.Uploader+":"), media.Uploader)
	}
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(t.Info.Views+":"), media.ViewsLabel())
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(t.Info.Length+":"), media.DurationLabel())
	if format != nil {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(t.Info.SelectedFormat+":"), formatLine(format))
	}
	fmt.Fprintln(w)
}

// printFormats lists every format, marking the one a download would pick
func printFormats(w io.Writer, t *i18n.Translations, media *extractor.VideoMedia) {
	best := media.HighestResolution()

	fmt.Fprintf(w, "  %s (%d):\n", t.Info.Formats, len(media.Formats))
	for i := range media.Formats {
		f := &media.Formats[i]
		line := formatLine(f)
		if f == best {
			fmt.Fprintf(w, "    %s %s\n", selectedStyle.Render("•"), selectedStyle.Render(line))
		} else {
			fmt.Fprintf(w, "    • %s\n", line)
		}
	}
	if best == nil {
		fmt.Fprintf(w, "\n  %s\n", t.Info.NoFormats)
	}
	fmt.Fprintln(w)
}

func formatLine(f *extractor.VideoFormat) string {
	var line string
	if f.Height == 0 {
		line = fmt.Sprintf("audio (%s)", f.Ext)
	} else {
		line = fmt.Sprintf("%s %dx%d (%s)", f.QualityLabel(), f.Width, f.Height, f.Ext)
		if !f.HasAudio {
			line += " video only"
		}
	}
	if f.Size > 0 {
		line += fmt.Sprintf(" %.1f MB", float64(f.Size)/(1024*1024))
	}
	return line
}
