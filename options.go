package lsbsteg

type Option func(*Steg) error

// WithStrict turns capacity violations into errors.
// Embed returns ErrPayloadTooLarge before touching the grid when the payload
// and its length prefix do not fit, and Extract returns ErrTruncated when the
// stored length points past the end of the grid.
//
// Without this option the payload is silently cut at the end of the grid;
// Embed still reports how many bytes were written.
func WithStrict() Option {
	return func(s *Steg) error {
		s.strict = true
		return nil
	}
}

// WithGolay protects the payload with the extended Golay code,
// which corrects up to three flipped bits in every 24-bit codeword.
// The body written after the length prefix is roughly twice the payload size,
// and both sides must use the option.
func WithGolay() Option {
	return func(s *Steg) error {
		s.framing = golayFraming{}
		return nil
	}
}

// WithoutECC stores the payload as-is after the length prefix. This is the default.
func WithoutECC() Option {
	return func(s *Steg) error {
		s.framing = plainFraming{}
		return nil
	}
}
