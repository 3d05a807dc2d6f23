// Package lsbsteg hides a byte payload in the two low bits of every channel of
// an image's pixels and recovers it again.
//
// Each pixel carries one byte. The first four pixels, in row-major order,
// hold the payload length as a little-endian uint32, and the payload follows
// from pixel 4 on. The upper six bits of every channel are never modified.
//
// The embedded data is not encrypted and is easy to detect statistically.
// It survives only re-encoding that keeps all four channels exactly, such as PNG or TIFF.
package lsbsteg

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/yyyoichi/lsbsteg/internal/codec"
	"github.com/yyyoichi/lsbsteg/internal/ecc"
	"github.com/yyyoichi/lsbsteg/internal/pixel"
)

// PrefixSize is the number of pixels occupied by the length prefix.
const PrefixSize = codec.PrefixSize

// MaxPayload is the largest length the prefix can record.
const MaxPayload = math.MaxUint32

var (
	ErrInvalidGridDimensions = errors.New("grid width and height must be positive")
	ErrOutOfBounds           = pixel.ErrOutOfBounds
	ErrGridTooSmall          = codec.ErrGridTooSmall
	ErrPayloadTooLarge       = errors.New("payload does not fit in the grid")
	ErrPayloadLengthOverflow = errors.New("payload length does not fit in the length prefix")
	ErrTruncated             = errors.New("stored payload extends past the end of the grid")
)

// Embed hides payload in g with the specified options.
// This is a convenience function that creates a Steg instance and calls its Embed method.
func Embed(g Grid, payload []byte, opts ...Option) (int, error) {
	s, err := New(opts...)
	if err != nil {
		return 0, err
	}
	return s.Embed(g, payload)
}

// Extract recovers a payload from g with the specified options.
// This is a convenience function that creates a Steg instance and calls its Extract method.
func Extract(g Grid, opts ...Option) ([]byte, error) {
	s, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return s.Extract(g)
}

// Steg embeds and extracts payloads. It holds no per-call state and is safe
// for concurrent use on distinct grids.
type Steg struct {
	strict  bool
	framing framing
}

// New initializes a Steg. By default payloads are stored without error
// correction and silently truncated when they do not fit.
func New(opts ...Option) (*Steg, error) {
	s := new(Steg)
	if err := s.init(opts...); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Steg) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return err
		}
	}
	if s.framing == nil {
		s.framing = plainFraming{}
	}
	return nil
}

// Capacity returns the largest payload, in bytes, that g can hold in full.
func (s *Steg) Capacity(g Grid) int {
	width, height := g.Size()
	return s.framing.maxPayload(max(pixel.Capacity(width, height)-PrefixSize, 0))
}

// Embed writes payload into g in place and returns the number of body bytes
// stored after the length prefix. Without error correction that is the
// number of payload bytes; a value below len(payload) means the payload was truncated.
func (s *Steg) Embed(g Grid, payload []byte) (int, error) {
	if err := validate(g); err != nil {
		return 0, err
	}
	body, err := s.framing.encode(payload)
	if err != nil {
		return 0, err
	}
	if uint64(len(body)) > MaxPayload {
		return 0, fmt.Errorf("%w: %d bytes", ErrPayloadLengthOverflow, len(body))
	}
	if err := s.check(g, len(body)); err != nil {
		return 0, err
	}
	return codec.Embed(g, bytes.NewReader(body), uint32(len(body)))
}

// EmbedFrom writes size bytes read from r into g in place.
// Without error correction at most the bytes that fit in g are consumed from r.
// If r ends before the grid is full or the payload is complete, g is left
// unchanged and io.ErrUnexpectedEOF is returned.
//
// With WithGolay the payload is read in full and encoded before embedding.
func (s *Steg) EmbedFrom(g Grid, r io.Reader, size int64) (int, error) {
	if size < 0 || size > MaxPayload {
		return 0, fmt.Errorf("%w: %d bytes", ErrPayloadLengthOverflow, size)
	}
	if _, ok := s.framing.(plainFraming); !ok {
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return 0, fmt.Errorf("read payload: %w", err)
		}
		return s.Embed(g, payload)
	}
	if err := validate(g); err != nil {
		return 0, err
	}
	if err := s.check(g, int(size)); err != nil {
		return 0, err
	}
	fit := min(size, int64(s.Capacity(g)))
	return codec.Embed(g, bufio.NewReader(io.LimitReader(r, fit)), uint32(size))
}

// Extract reads the length prefix from g and returns the payload that follows it.
// Without WithStrict a payload cut short by the end of the grid is returned as far as it goes.
// With WithGolay and WithStrict a body too short to hold a codeword is an error;
// without WithStrict it yields an empty payload.
func (s *Steg) Extract(g Grid) ([]byte, error) {
	if err := validate(g); err != nil {
		return nil, err
	}
	body, size, err := codec.Extract(g)
	if err != nil {
		return nil, err
	}
	if s.strict {
		width, height := g.Size()
		if c := pixel.Capacity(width, height); c < PrefixSize {
			return nil, fmt.Errorf("%w: %d pixels", ErrGridTooSmall, c)
		}
		if uint64(len(body)) < uint64(size) {
			return nil, fmt.Errorf("%w: stored length %d, %d bytes available", ErrTruncated, size, len(body))
		}
	}
	payload, err := s.framing.decode(body)
	if errors.Is(err, ecc.ErrShortFrame) && !s.strict {
		return []byte{}, nil
	}
	return payload, err
}

// Header returns the payload length recorded in the first PrefixSize pixels of g.
// With WithGolay this is the length of the encoded body.
func Header(g Grid) (uint32, error) {
	if err := validate(g); err != nil {
		return 0, err
	}
	return codec.Header(g)
}

// check enforces the capacity policy for a body of n bytes.
func (s *Steg) check(g Grid, n int) error {
	if !s.strict {
		return nil
	}
	width, height := g.Size()
	if c := pixel.Capacity(width, height); uint64(c) < PrefixSize+uint64(n) {
		return fmt.Errorf("%w: %d bytes need %d pixels, grid has %d", ErrPayloadTooLarge, n, PrefixSize+n, c)
	}
	return nil
}

func validate(g Grid) error {
	width, height := g.Size()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGridDimensions, width, height)
	}
	return nil
}
