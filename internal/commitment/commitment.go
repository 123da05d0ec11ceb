// Package commitment implements hash-based value commitments with
// blinding (spec §4.7): a committer binds itself to a 64-bit value without
// revealing it, and later opens the commitment by disclosing the value and
// blinding factor. Hashing is synchronous — the commitment is fully formed
// before Commit returns (spec §9(b) flags an asynchronous variant in the
// source as an inconsistency the core does not reproduce).
package commitment

import "github.com/jaydenbeard/styx-e2e/internal/primitives"

// Digest is the 32-byte public commitment value (spec §3 "Commitment").
type Digest [primitives.Sha256Size]byte

// Commit computes digest = SHA-256("styx-amount-v1" ‖ value_LE ‖ blinding),
// per spec §4.7. No homomorphism or range-proof property is claimed.
func Commit(value uint64, blinding [32]byte) Digest {
	buf := primitives.PutUint64LE(nil, value)
	return Digest(primitives.Sha256([]byte("styx-amount-v1"), buf, blinding[:]))
}

// Open recomputes the commitment from value and blinding and compares it
// to digest in constant time, per spec §4.7.
func Open(digest Digest, value uint64, blinding [32]byte) bool {
	recomputed := Commit(value, blinding)
	return primitives.CtEqual(digest[:], recomputed[:])
}

// GenerateBlinding draws a fresh 32-byte blinding factor from r (or
// DefaultRNG if r is nil).
func GenerateBlinding(r primitives.RNG) ([32]byte, error) {
	var blinding [32]byte
	buf, err := primitives.RandomBytes(r, 32)
	if err != nil {
		return blinding, err
	}
	copy(blinding[:], buf)
	return blinding, nil
}
