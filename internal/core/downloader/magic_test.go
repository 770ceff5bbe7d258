package downloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mp4Header is an ftyp box (major brand mp42) followed by padding
var mp4Header = append([]byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00,
	'i', 's', 'o', 'm', 'm', 'p', '4', '2',
}, make([]byte, 64)...)

func TestRenameByContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.webm")
	require.NoError(t, os.WriteFile(path, mp4Header, 0644))

	got := RenameByContent(path)

	assert.Equal(t, filepath.Join(dir, "clip.mp4"), got)
	assert.FileExists(t, got)
	assert.NoFileExists(t, path)
}

func TestRenameByContentKeepsMatchingExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(path, mp4Header, 0644))

	assert.Equal(t, path, RenameByContent(path))
}

func TestRenameByContentIgnoresNonMedia(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.mp4")
	require.NoError(t, os.WriteFile(path, []byte("just some text"), 0644))

	ext, err := DetectFileType(path)
	require.NoError(t, err)
	assert.Empty(t, ext)
	assert.Equal(t, path, RenameByContent(path))
}

func TestRenameByContentDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.webm")
	existing := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(path, mp4Header, 0644))
	require.NoError(t, os.WriteFile(existing, []byte("keep me"), 0644))

	assert.Equal(t, path, RenameByContent(path))

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(data))
}

func TestDetectFileTypeMissingFile(t *testing.T) {
	_, err := DetectFileType(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
