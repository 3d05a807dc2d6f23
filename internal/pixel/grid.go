package pixel

import "errors"

// Channel indices of a Pixel. The order is fixed for embedding and extraction.
const (
	A = iota
	R
	G
	B
)

var ErrOutOfBounds = errors.New("coordinate outside the grid")

// Pixel holds four 8-bit channels in A, R, G, B order.
type Pixel [4]uint8

// Grid is a rectangle of pixels addressed by (x, y) with the origin at the top-left.
// At and Set return an error wrapping ErrOutOfBounds for coordinates outside the grid.
type Grid interface {
	Size() (width, height int)
	At(x, y int) (Pixel, error)
	Set(x, y int, p Pixel) error
}
