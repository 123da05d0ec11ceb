// Package primitives provides byte-oriented wrappers around the
// cryptographic building blocks the rest of the core is built from:
// X25519, Ed25519, SHA-256, HKDF-SHA-256, HMAC-SHA-256, ChaCha20-Poly1305,
// and a secure random source.
package primitives

import "errors"

// Error kinds surfaced by the primitives, per spec §4.1 and §7.
var (
	// ErrInvalidPoint is returned when an X25519 DH computes an all-zero
	// shared secret, which happens only for small-subgroup or identity
	// inputs.
	ErrInvalidPoint = errors.New("primitives: invalid point (small-subgroup or identity)")
	// ErrInvalidTag is returned when AEAD authentication fails.
	ErrInvalidTag = errors.New("primitives: AEAD authentication failed")
	// ErrInvalidLength is returned when a caller supplies a buffer of the
	// wrong size to a fixed-width primitive.
	ErrInvalidLength = errors.New("primitives: invalid length")
	// ErrRngFailure is returned when the configured random source fails
	// to fill a buffer.
	ErrRngFailure = errors.New("primitives: RNG failure")
)
