package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/furkhad/youtube/internal/core/extractor"
	"github.com/google/uuid"
)

const chunkSize = 32 * 1024

// OutputFilename returns the file name for media saved in format
func OutputFilename(media *extractor.VideoMedia, format *extractor.VideoFormat) string {
	base := extractor.SanitizeFilename(media.Title)
	if base == "" {
		base = extractor.SanitizeFilename(media.ID)
	}
	if base == "" {
		base = "video"
	}
	ext := format.Ext
	if ext == "" {
		ext = "mp4"
	}
	return fmt.Sprintf("%s.%s", base, ext)
}

// save streams format into dir. Bytes go to a unique .part file that only
// replaces the final name once the whole stream was written.
func (d *Downloader) save(ctx context.Context, media *extractor.VideoMedia, format *extractor.VideoFormat, dir string) (string, error) {
	stream, size, err := d.extractor.Stream(ctx, media, format)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	if size <= 0 {
		size = format.Size
	}

	output := filepath.Join(dir, OutputFilename(media, format))
	partial := fmt.Sprintf("%s.%s.part", output, uuid.NewString()[:8])

	file, err := os.Create(partial)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}

	if err := d.copyWithProgress(ctx, file, stream, size); err != nil {
		file.Close()
		os.Remove(partial)
		return "", err
	}

	if err := file.Close(); err != nil {
		os.Remove(partial)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(partial, output); err != nil {
		os.Remove(partial)
		return "", fmt.Errorf("failed to move %s into place: %w", filepath.Base(output), err)
	}

	return RenameByContent(output), nil
}

func (d *Downloader) copyWithProgress(ctx context.Context, w io.Writer, r io.Reader, total int64) error {
	state := NewProgress(total)
	buf := make([]byte, chunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(buf)
		if n > 0 {
			if _, writeErr := w.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("failed to write file: %w", writeErr)
			}
			d.report(state, state.Advance(int64(n)))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
	}

	if delta := state.Finish(); delta > 0 {
		d.report(state, delta)
	}
	return nil
}

func (d *Downloader) report(p *Progress, delta float64) {
	if d.onProgress != nil {
		d.onProgress(p, delta)
	}
}
