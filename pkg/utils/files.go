package utils

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrUnsupportedMedia = errors.New("unsupported media type")

var allowedMedia = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

// DetectMediaType sniffs the file header and returns its MIME type when it is
// an accepted listing image or video.
func DetectMediaType(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", ErrUnsupportedMedia
	}
	if !allowedMedia[kind.MIME.Value] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, kind.MIME.Value)
	}
	return kind.MIME.Value, nil
}

// SanitizeFileName keeps the base name and replaces anything outside
// letters, digits, dot, dash and underscore.
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	clean := strings.TrimLeft(b.String(), ".")
	if clean == "" {
		return "file"
	}
	return clean
}

// MediaObjectKey builds a storage key unique within the listing's prefix.
func MediaObjectKey(listingID, fileName string) (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("listings/%s/%s-%s", listingID, id, SanitizeFileName(fileName)), nil
}
