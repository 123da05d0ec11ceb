package ratchet

import "github.com/jaydenbeard/styx-e2e/internal/primitives"

// Header is the per-message ratchet header, per spec §3 "RatchetHeader":
// the sender's current DH public key, the previous sending-chain length,
// and this message's number in its chain.
type Header struct {
	DHPub [primitives.X25519KeySize]byte
	PN    uint32
	N     uint32
}

// encode serializes the header fields that are authenticated as part of
// the AEAD associated data (spec §6: "sender_dh_pub ‖ pn ‖ n").
func (h Header) encode() []byte {
	out := make([]byte, 0, primitives.X25519KeySize+4+4)
	out = append(out, h.DHPub[:]...)
	out = primitives.PutUint32BE(out, h.PN)
	out = primitives.PutUint32BE(out, h.N)
	return out
}

// Message is the full wire framing of one ratchet message, per spec §6
// "Ratchet message framing".
type Message struct {
	Header     Header
	Nonce      [primitives.AeadNonceSize]byte
	Ciphertext []byte
}

// Encode serializes m into the exact wire shape from spec §6.
func (m Message) Encode() []byte {
	out := make([]byte, 0, primitives.X25519KeySize+4+4+primitives.AeadNonceSize+4+len(m.Ciphertext))
	out = append(out, m.Header.DHPub[:]...)
	out = primitives.PutUint32BE(out, m.Header.PN)
	out = primitives.PutUint32BE(out, m.Header.N)
	out = append(out, m.Nonce[:]...)
	out = primitives.PutUint32BE(out, uint32(len(m.Ciphertext)))
	out = append(out, m.Ciphertext...)
	return out
}

// DecodeMessage parses the wire shape produced by Encode.
func DecodeMessage(data []byte) (Message, error) {
	const fixedLen = primitives.X25519KeySize + 4 + 4 + primitives.AeadNonceSize + 4
	if len(data) < fixedLen {
		return Message{}, ErrHeaderMalformed
	}
	var m Message
	off := 0
	copy(m.Header.DHPub[:], data[off:off+primitives.X25519KeySize])
	off += primitives.X25519KeySize

	pn, err := primitives.Uint32BE(data[off:])
	if err != nil {
		return Message{}, ErrHeaderMalformed
	}
	m.Header.PN = pn
	off += 4

	n, err := primitives.Uint32BE(data[off:])
	if err != nil {
		return Message{}, ErrHeaderMalformed
	}
	m.Header.N = n
	off += 4

	copy(m.Nonce[:], data[off:off+primitives.AeadNonceSize])
	off += primitives.AeadNonceSize

	ctLen, err := primitives.Uint32BE(data[off:])
	if err != nil {
		return Message{}, ErrHeaderMalformed
	}
	off += 4

	if uint32(len(data)-off) < ctLen {
		return Message{}, ErrHeaderMalformed
	}
	m.Ciphertext = append([]byte(nil), data[off:off+int(ctLen)]...)
	return m, nil
}
