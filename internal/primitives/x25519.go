package primitives

import (
	"golang.org/x/crypto/curve25519"
)

const (
	// X25519KeySize is the size in bytes of an X25519 private or public key.
	X25519KeySize = 32
)

// X25519KeyPair is a Curve25519 Diffie-Hellman key pair.
type X25519KeyPair struct {
	Private [X25519KeySize]byte
	Public  [X25519KeySize]byte
}

// ClampX25519 applies RFC 7748 clamping to a 32-byte scalar in place.
func ClampX25519(priv *[X25519KeySize]byte) {
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64
}

// GenerateX25519KeyPair generates a new X25519 key pair using r (or
// DefaultRNG if r is nil), clamping the private key per RFC 7748.
func GenerateX25519KeyPair(r RNG) (X25519KeyPair, error) {
	var kp X25519KeyPair
	priv, err := randomBytes(r, X25519KeySize)
	if err != nil {
		return kp, err
	}
	copy(kp.Private[:], priv)
	ClampX25519(&kp.Private)

	pub, err := curve25519.X25519(kp.Private[:], curve25519.Basepoint)
	if err != nil {
		return kp, ErrInvalidPoint
	}
	copy(kp.Public[:], pub)
	return kp, nil
}

// X25519PublicFromPrivate computes the public half of an already-clamped
// private scalar.
func X25519PublicFromPrivate(priv [X25519KeySize]byte) ([X25519KeySize]byte, error) {
	var pub [X25519KeySize]byte
	out, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return pub, ErrInvalidPoint
	}
	copy(pub[:], out)
	return pub, nil
}

// X25519DH performs a Curve25519 Diffie-Hellman between priv and peerPub,
// rejecting an all-zero result (small-subgroup / identity point), per
// spec §4.1.
func X25519DH(priv, peerPub [X25519KeySize]byte) ([X25519KeySize]byte, error) {
	var shared [X25519KeySize]byte
	out, err := curve25519.X25519(priv[:], peerPub[:])
	if err != nil {
		return shared, ErrInvalidPoint
	}
	copy(shared[:], out)
	if ctEqZero(shared[:]) {
		return shared, ErrInvalidPoint
	}
	return shared, nil
}

func ctEqZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}
