package primitives

import (
	"crypto/hmac"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Sha256Size is the size in bytes of a SHA-256 digest.
const Sha256Size = sha256.Size

// Sha256 returns the SHA-256 digest of data.
func Sha256(data ...[]byte) [Sha256Size]byte {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	var out [Sha256Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// HkdfSha256 derives outLen bytes from ikm using HKDF-SHA-256 (RFC 5869)
// with the given salt and info.
func HkdfSha256(ikm, salt, info []byte, outLen int) ([]byte, error) {
	r := hkdf.New(sha256.New, ikm, salt, info)
	out := make([]byte, outLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, ErrInvalidLength
	}
	return out, nil
}

// HmacSha256 computes HMAC-SHA-256 over msg keyed by key.
func HmacSha256(key, msg []byte) [Sha256Size]byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	var out [Sha256Size]byte
	copy(out[:], h.Sum(nil))
	return out
}
