package validators

import (
	"errors"
	"image"
	"io"
	"slices"

	// Decoders for the allowed image formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrImageEmpty       = errors.New("no image provided")
	ErrImageTooLarge    = errors.New("image too large")
	ErrImageUnsupported = errors.New("unsupported image type")
	ErrImageMalformed   = errors.New("malformed image")
)

const defaultMaxImageSize = 5 << 20

var defaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}

// ImageValidator checks that r holds a decodable image of an allowed type
// and size. Content sniffing is used instead of trusting client headers.
// On success the reader is rewound and the canonical file extension and
// MIME type of the detected format are returned.
func ImageValidator(r io.ReadSeeker, size int64) (ext, contentType string, err error) {
	if size == 0 {
		return "", "", ErrImageEmpty
	}

	maxSize := viper.GetInt64("upload.max_size")
	if maxSize <= 0 {
		maxSize = defaultMaxImageSize
	}

	if size > maxSize {
		return "", "", ErrImageTooLarge
	}

	mime, err := mimetype.DetectReader(r)
	if err != nil {
		return "", "", ErrImageMalformed
	}

	allowed := viper.GetStringSlice("upload.allowed_types")
	if len(allowed) == 0 {
		allowed = defaultAllowedTypes
	}

	if !slices.Contains(allowed, mime.String()) {
		return "", "", ErrImageUnsupported
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", "", ErrImageMalformed
	}

	if _, _, err := image.DecodeConfig(r); err != nil {
		return "", "", ErrImageMalformed
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", "", ErrImageMalformed
	}

	return mime.Extension(), mime.String(), nil
}
