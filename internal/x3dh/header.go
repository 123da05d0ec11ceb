package x3dh

import (
	"crypto/ed25519"

	"github.com/jaydenbeard/styx-e2e/internal/primitives"
)

// HandshakeHeader is the small out-of-band message an initiator sends
// alongside (or ahead of) its first ratchet message, letting the responder
// recompute the same X3DH root key (spec §4.3, §6 "X3DH handshake header").
type HandshakeHeader struct {
	InitiatorIdentityPub ed25519.PublicKey
	EphemeralPub         [primitives.X25519KeySize]byte
	OneTimePrekeyID      *uint32
}

// Encode serializes h into its wire shape: a 32-byte identity public key,
// a 32-byte ephemeral public key, a one-byte presence flag, and an
// optional 4-byte one-time prekey id.
func (h HandshakeHeader) Encode() []byte {
	out := make([]byte, 0, 32+32+1+4)
	out = append(out, h.InitiatorIdentityPub...)
	out = append(out, h.EphemeralPub[:]...)
	if h.OneTimePrekeyID != nil {
		out = append(out, 1)
		out = primitives.PutUint32BE(out, *h.OneTimePrekeyID)
	} else {
		out = append(out, 0)
	}
	return out
}

// DecodeHandshakeHeader parses the wire shape produced by Encode.
func DecodeHandshakeHeader(data []byte) (HandshakeHeader, error) {
	const fixedLen = 32 + 32 + 1
	if len(data) < fixedLen {
		return HandshakeHeader{}, primitives.ErrInvalidLength
	}
	var h HandshakeHeader
	h.InitiatorIdentityPub = append(ed25519.PublicKey(nil), data[:32]...)
	copy(h.EphemeralPub[:], data[32:64])

	present := data[64]
	if present == 1 {
		if len(data) < fixedLen+4 {
			return HandshakeHeader{}, primitives.ErrInvalidLength
		}
		id, err := primitives.Uint32BE(data[65:])
		if err != nil {
			return HandshakeHeader{}, err
		}
		h.OneTimePrekeyID = &id
	} else if present != 0 {
		return HandshakeHeader{}, primitives.ErrInvalidLength
	}
	return h, nil
}
