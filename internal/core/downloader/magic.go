package downloader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectFileType sniffs the file's container and returns the matching
// extension (without dot). Only audio and video types are reported; anything
// else yields an empty string.
func DetectFileType(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	kind := mt.String()
	if !strings.HasPrefix(kind, "video/") && !strings.HasPrefix(kind, "audio/") {
		return "", nil
	}
	return strings.TrimPrefix(mt.Extension(), "."), nil
}

// RenameByContent checks if the file's actual type differs from its extension
// and renames it if necessary. Returns the final path (renamed or original).
func RenameByContent(path string) string {
	detectedExt, err := DetectFileType(path)
	if err != nil || detectedExt == "" {
		return path
	}

	ext := filepath.Ext(path)
	currentExt := strings.TrimPrefix(ext, ".")
	if currentExt == "" || strings.EqualFold(currentExt, detectedExt) {
		return path
	}

	newPath := path[:len(path)-len(ext)] + "." + detectedExt
	if _, err := os.Stat(newPath); err == nil {
		return path
	}
	if err := os.Rename(path, newPath); err != nil {
		return path
	}
	return newPath
}
