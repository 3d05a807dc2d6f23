// Package imgio reads and writes image files for the codec.
//
// Any format registered here can be decoded as a cover image, but only
// PNG and TIFF can be written. JPEG and GIF lose color data, and the BMP
// encoder drops the alpha channel, so all of them would destroy the embedded bits.
package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/yyyoichi/lsbsteg"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	PNG  = "png"
	TIFF = "tiff"
)

var (
	ErrLossyFormat   = errors.New("format cannot carry an embedded payload")
	ErrUnknownFormat = errors.New("unknown image format")
)

// Decode decodes an image in any registered format and returns the format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Encode writes img in the given lossless format.
func Encode(w io.Writer, img image.Image, format string) error {
	var err error
	switch format {
	case PNG:
		err = png.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %q", ErrLossyFormat, format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

// Lossless reports whether Encode can write format.
func Lossless(format string) bool {
	switch format {
	case PNG, TIFF:
		return true
	}
	return false
}

// FormatFromPath maps a file extension to a format name.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return PNG, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".jpg", ".jpeg", ".gif", ".webp", ".bmp":
		return ext[1:], nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Load decodes the image at path into a new grid.
func Load(path string) (*lsbsteg.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lsbsteg.FromImage(img)
}

// Save writes grid to path in the lossless format named by its extension.
// Nothing is created when the format is lossy or unknown.
func Save(path string, grid *lsbsteg.Buffer) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if !Lossless(format) {
		return fmt.Errorf("%w: %q", ErrLossyFormat, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	return Encode(f, grid.Image(), format)
}
