package lsbsteg

import "github.com/yyyoichi/lsbsteg/internal/ecc"

// framing converts a payload to the body stored after the length prefix and back.
type framing interface {
	encode(payload []byte) ([]byte, error)
	decode(body []byte) ([]byte, error)
	// maxPayload returns the largest payload whose body fits in bodyCap bytes.
	maxPayload(bodyCap int) int
}

var _ framing = plainFraming{}

type plainFraming struct{}

func (plainFraming) encode(payload []byte) ([]byte, error) { return payload, nil }
func (plainFraming) decode(body []byte) ([]byte, error) { return body, nil }
func (plainFraming) maxPayload(bodyCap int) int { return bodyCap }

var _ framing = golayFraming{}

type golayFraming struct{}

func (golayFraming) encode(payload []byte) ([]byte, error) { return ecc.Encode(payload) }
func (golayFraming) decode(body []byte) ([]byte, error) { return ecc.Decode(body) }
func (golayFraming) maxPayload(bodyCap int) int { return ecc.MaxPayload(bodyCap) }
