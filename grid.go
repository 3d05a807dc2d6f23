package lsbsteg

import (
	"fmt"
	"image"

	"github.com/yyyoichi/lsbsteg/internal/pixel"
	"golang.org/x/image/draw"
)

type (
	// Pixel holds four 8-bit channels in the fixed order A, R, G, B.
	// Byte bit k (k = 0..3) is stored in bit 0 of channel k and bit k+4 in bit 1 of channel k.
	Pixel = pixel.Pixel

	// Grid is the pixel surface the codec reads and writes.
	// The codec borrows it for the duration of one call.
	Grid = pixel.Grid
)

// Channel indices of a Pixel.
const (
	ChannelA = pixel.A
	ChannelR = pixel.R
	ChannelG = pixel.G
	ChannelB = pixel.B
)

var _ Grid = (*Buffer)(nil)

// Buffer is an owned, non-premultiplied 8-bit channel buffer.
// It is backed by an *image.NRGBA anchored at the origin, so Image can hand it
// to a lossless encoder without conversion.
type Buffer struct {
	img *image.NRGBA
}

// NewBuffer allocates a zeroed width x height buffer.
func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGridDimensions, width, height)
	}
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}, nil
}

// FromImage copies src into a new Buffer. An *image.NRGBA is copied byte for byte;
// other images are converted to 8-bit non-premultiplied RGBA, so 16-bit sources
// lose their low byte.
func FromImage(src image.Image) (*Buffer, error) {
	bounds := src.Bounds()
	b, err := NewBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	// draw premultiplies alpha, which would disturb the low bits of translucent pixels.
	if img, ok := src.(*image.NRGBA); ok {
		stride := bounds.Dx() * 4
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			i := img.PixOffset(bounds.Min.X, y)
			j := b.img.PixOffset(0, y-bounds.Min.Y)
			copy(b.img.Pix[j:j+stride], img.Pix[i:i+stride])
		}
		return b, nil
	}
	draw.Draw(b.img, b.img.Bounds(), src, bounds.Min, draw.Src)
	return b, nil
}

// FromNRGBA wraps img without copying. The buffer and img share pixels,
// and coordinates are relative to img.Bounds().Min.
func FromNRGBA(img *image.NRGBA) (*Buffer, error) {
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGridDimensions, bounds.Dx(), bounds.Dy())
	}
	if bounds.Min != (image.Point{}) {
		img = img.SubImage(bounds).(*image.NRGBA)
		img.Rect = image.Rect(0, 0, bounds.Dx(), bounds.Dy())
	}
	return &Buffer{img: img}, nil
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) {
	return b.img.Rect.Dx(), b.img.Rect.Dy()
}

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) (Pixel, error) {
	i, err := b.offset(x, y)
	if err != nil {
		return Pixel{}, err
	}
	s := b.img.Pix[i : i+4 : i+4]
	return Pixel{s[3], s[0], s[1], s[2]}, nil
}

// Set replaces the pixel at (x, y).
func (b *Buffer) Set(x, y int, p Pixel) error {
	i, err := b.offset(x, y)
	if err != nil {
		return err
	}
	s := b.img.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = p[ChannelR], p[ChannelG], p[ChannelB], p[ChannelA]
	return nil
}

// Image returns the backing image. Changes made through either are visible to both.
func (b *Buffer) Image() *image.NRGBA {
	return b.img
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	img := *b.img
	img.Pix = append([]uint8(nil), b.img.Pix...)
	return &Buffer{img: &img}
}

func (b *Buffer) offset(x, y int) (int, error) {
	if !image.Pt(x, y).In(b.img.Rect) {
		return 0, fmt.Errorf("%w: (%d, %d) not in %v", ErrOutOfBounds, x, y, b.img.Rect)
	}
	return b.img.PixOffset(x, y), nil
}
