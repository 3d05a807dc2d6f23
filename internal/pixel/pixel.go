package pixel

// Coord maps a row-major pixel index to its coordinates in a grid of the given width.
// The index must be within [0, Capacity(width, height)).
func Coord(index, width int) (x, y int) {
	return index % width, index / width
}

// Index is the inverse of Coord.
func Index(x, y, width int) int {
	return y*width + x
}

// Capacity returns the number of addressable pixels.
func Capacity(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height
}
