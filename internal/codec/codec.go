package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/yyyoichi/lsbsteg/internal/bitconv"
	"github.com/yyyoichi/lsbsteg/internal/pixel"
)

// PrefixSize is the number of pixels, and bytes, used by the little-endian length prefix.
const PrefixSize = 4

var ErrGridTooSmall = errors.New("grid has fewer pixels than the length prefix")

type staged struct {
	x, y     int
	old, new pixel.Pixel
}

// Embed writes the length prefix size and then up to size bytes read from r into g,
// one byte per pixel in row-major order starting at pixel 0.
//
// Writing stops when the payload is exhausted or the grid is full, whichever comes first.
// A grid with fewer than PrefixSize pixels is left untouched.
// Returns the number of payload bytes written.
//
// All pixel values are computed before the first Set, so a read error leaves g unchanged.
// If Set fails, pixels already written are restored.
func Embed(g pixel.Grid, r io.ByteReader, size uint32) (int, error) {
	width, height := g.Size()
	capacity := pixel.Capacity(width, height)
	if capacity < PrefixSize {
		return 0, nil
	}
	total := int(min(uint64(capacity), PrefixSize+uint64(size)))

	var prefix [PrefixSize]byte
	binary.LittleEndian.PutUint32(prefix[:], size)

	writes := make([]staged, 0, total)
	for at := range total {
		var v byte
		if at < PrefixSize {
			v = prefix[at]
		} else {
			b, err := r.ReadByte()
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}
				return 0, fmt.Errorf("payload byte %d: %w", at-PrefixSize, err)
			}
			v = b
		}
		x, y := pixel.Coord(at, width)
		old, err := g.At(x, y)
		if err != nil {
			return 0, err
		}
		writes = append(writes, staged{
			x:   x,
			y:   y,
			old: old,
			new: pixel.Pixel(bitconv.Spread(old, v)),
		})
	}

	for i, s := range writes {
		if err := g.Set(s.x, s.y, s.new); err != nil {
			rollback(g, writes[:i])
			return 0, err
		}
	}
	return total - PrefixSize, nil
}

func rollback(g pixel.Grid, writes []staged) {
	for i := len(writes) - 1; i >= 0; i-- {
		_ = g.Set(writes[i].x, writes[i].y, writes[i].old)
	}
}

// Header decodes the length prefix stored in the first PrefixSize pixels of g.
func Header(g pixel.Grid) (uint32, error) {
	width, height := g.Size()
	if pixel.Capacity(width, height) < PrefixSize {
		return 0, ErrGridTooSmall
	}
	var prefix [PrefixSize]byte
	for at := range PrefixSize {
		b, err := readByte(g, at, width)
		if err != nil {
			return 0, err
		}
		prefix[at] = b
	}
	return binary.LittleEndian.Uint32(prefix[:]), nil
}

// Extract reads the length prefix and then the payload bytes that follow it.
// The payload is cut short when the prefix claims more bytes than g holds;
// size is the prefix as stored and may exceed len(data).
func Extract(g pixel.Grid) (data []byte, size uint32, err error) {
	width, height := g.Size()
	capacity := pixel.Capacity(width, height)
	if capacity < PrefixSize {
		return []byte{}, 0, nil
	}
	size, err = Header(g)
	if err != nil {
		return nil, 0, err
	}
	total := int(min(uint64(capacity), PrefixSize+uint64(size)))
	data = make([]byte, 0, total-PrefixSize)
	for at := PrefixSize; at < total; at++ {
		b, err := readByte(g, at, width)
		if err != nil {
			return nil, 0, err
		}
		data = append(data, b)
	}
	return data, size, nil
}

func readByte(g pixel.Grid, at, width int) (byte, error) {
	x, y := pixel.Coord(at, width)
	p, err := g.At(x, y)
	if err != nil {
		return 0, err
	}
	return bitconv.Gather(p), nil
}
