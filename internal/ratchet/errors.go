// Package ratchet implements the Double Ratchet (spec §4.4): an outer
// Diffie-Hellman ratchet composed with an inner symmetric chain ratchet,
// a bounded skipped-message-key cache for out-of-order delivery, and a
// canonical state export/import codec.
package ratchet

import "errors"

var (
	// ErrAeadAuthenticationFailed is returned when decrypting a message
	// fails AEAD verification. The session state is left untouched (spec
	// §4.4, §7).
	ErrAeadAuthenticationFailed = errors.New("ratchet: AEAD authentication failed")
	// ErrTooManySkippedKeys is returned when a decrypt would require
	// skipping more keys on one chain than the per-chain cap allows
	// (spec §4.4, §9(c)). The total cap never fails a decrypt: reaching it
	// evicts the oldest cached key instead.
	ErrTooManySkippedKeys = errors.New("ratchet: too many skipped message keys")
	// ErrHeaderMalformed is returned when a ratchet header fails to parse.
	ErrHeaderMalformed = errors.New("ratchet: malformed header")
	// ErrChainKeyExhausted is returned by Encrypt when the sending chain's
	// 32-bit message counter (the width of the wire header's n field) has
	// no value left, treated as fatal per spec §4.4.
	ErrChainKeyExhausted = errors.New("ratchet: chain key exhausted")
	// ErrStateVersionUnsupported is returned by Import when the envelope's
	// version byte is not recognized.
	ErrStateVersionUnsupported = errors.New("ratchet: unsupported state version")
	// ErrNoSendingChain is returned by Encrypt when called on a responder
	// session that has not yet received a first message from its peer.
	ErrNoSendingChain = errors.New("ratchet: no sending chain established yet")
)
