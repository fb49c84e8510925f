package images

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
)

// ImageFormat represents supported image formats
type ImageFormat string

// ImageFormat constants
const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
)

// jpegQuality is used for JPEG overlays.
const jpegQuality = 90

// ErrUnsupportedFormat is returned for file extensions with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (ImageFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "extension %q", filepath.Ext(path))
	}
}

// Encode writes img to w in the given format. WebP is written lossless.
//
// Arguments:
//   - w: The destination.
//   - img: The image to encode.
//   - format: The output format.
//
// Returns:
//   - error: ErrUnsupportedFormat or the encoder's error.
func Encode(w io.Writer, img image.Image, format ImageFormat) error {
	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatWebP:
		err = webp.Encode(w, img, &webp.Options{Lossless: true})
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "format %q", format)
	}
	return errors.Wrapf(err, "encoding %s", format)
}
