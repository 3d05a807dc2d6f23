package bitconv

// Channels is the number of channels in a pixel.
const Channels = 4

// SetBit returns b with the bit at pos set to v. Position 0 is the least significant bit.
func SetBit(b byte, pos uint, v bool) byte {
	if v {
		return b | 1<<pos
	}
	return b &^ (1 << pos)
}

// GetBit reports whether the bit at pos is set. Position 0 is the least significant bit.
func GetBit(b byte, pos uint) bool {
	return (b>>pos)&1 == 1
}

// Spread writes v into the two low bits of each channel of p.
// Bit k of v (k = 0..3) goes to bit 0 of channel k, and bit k+4 goes to bit 1 of channel k.
// Bits 2..7 of every channel are left as they are.
func Spread(p [Channels]byte, v byte) [Channels]byte {
	for ch := range Channels {
		c := uint(ch)
		p[ch] = SetBit(p[ch], 0, GetBit(v, c))
		p[ch] = SetBit(p[ch], 1, GetBit(v, c+Channels))
	}
	return p
}

// Gather is the inverse of Spread.
func Gather(p [Channels]byte) byte {
	var v byte
	for ch := range Channels {
		c := uint(ch)
		v = SetBit(v, c, GetBit(p[ch], 0))
		v = SetBit(v, c+Channels, GetBit(p[ch], 1))
	}
	return v
}

// BytesToBools expands b into an MSB-first bit sequence.
func BytesToBools(b []byte) []bool {
	bits := make([]bool, 0, len(b)*8)
	for _, bb := range b {
		for i := 7; i >= 0; i-- {
			bits = append(bits, GetBit(bb, uint(i)))
		}
	}
	return bits
}

// BoolsToBytes packs an MSB-first bit sequence into bytes.
// A trailing partial byte is padded with zero bits.
func BoolsToBytes(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		out[i/8] = SetBit(out[i/8], uint(7-i%8), bit)
	}
	return out
}
