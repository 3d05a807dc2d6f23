package ecc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/yyyoichi/bitstream-go"
	"github.com/yyyoichi/golay"
	"github.com/yyyoichi/lsbsteg/internal/bitconv"
)

const lengthSize = 4

var ErrShortFrame = errors.New("golay frame too short to hold its length")

// Encode protects payload with the Golay code.
// The encoded data bits are a 4-byte little-endian payload length followed by the payload.
func Encode(payload []byte) ([]byte, error) {
	frame := make([]byte, lengthSize+len(payload))
	binary.LittleEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[lengthSize:], payload)

	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, v := range bitconv.BytesToBools(frame) {
		w.WriteBool(v)
	}

	var encoded []uint64
	enc := golay.NewEncoder(&encoded)
	if err := enc.Encode(w.Data(), w.Bits()); err != nil {
		return nil, fmt.Errorf("golay encode: %w", err)
	}
	return bitconv.BoolsToBytes(readBits(encoded, enc.Bits())), nil
}

// Decode corrects and unpacks a body produced by Encode.
// A body cut short by a full grid yields as much of the payload as was decoded.
func Decode(body []byte) ([]byte, error) {
	dataBits := DataBits(len(body) * 8)
	if dataBits < lengthSize*8 {
		return nil, ErrShortFrame
	}

	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, v := range bitconv.BytesToBools(body)[:golay.EncodedBits(dataBits)] {
		w.WriteBool(v)
	}
	var decoded []uint64
	dec := golay.NewDecoder(w.Data(), w.Bits())
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("golay decode: %w", err)
	}
	bits := readBits(decoded, dataBits)
	frame := bitconv.BoolsToBytes(bits[:len(bits)/8*8])
	if len(frame) < lengthSize {
		return nil, ErrShortFrame
	}

	size := uint64(binary.LittleEndian.Uint32(frame))
	payload := frame[lengthSize:]
	if size < uint64(len(payload)) {
		payload = payload[:size]
	}
	return payload, nil
}

// DataBits returns the largest whole number of 12-bit data words whose
// Golay encoding fits in codeBits, expressed in bits.
func DataBits(codeBits int) int {
	words := sort.Search(codeBits/12+1, func(k int) bool {
		return golay.EncodedBits(12*k) > codeBits
	}) - 1
	return max(words, 0) * 12
}

// MaxPayload returns the largest payload length whose encoding fits in bodyBytes.
func MaxPayload(bodyBytes int) int {
	return max(DataBits(bodyBytes*8)/8-lengthSize, 0)
}

// readBits reads at most n bits, stopping early if data runs out.
func readBits(data []uint64, n int) []bool {
	r := bitstream.NewBitReader(data, 0, 0)
	bits := make([]bool, 0, n)
	for i := range n {
		v, err := r.ReadBitAt(i)
		if err != nil {
			break
		}
		bits = append(bits, v)
	}
	return bits
}
