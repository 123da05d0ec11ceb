package primitives

import (
	"crypto/ed25519"
	"crypto/sha512"
	"math/big"
)

// edwardsP is the field prime 2^255 - 19 used by both Ed25519 and X25519.
var edwardsP = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	return p.Sub(p, big.NewInt(19))
}()

// Ed25519PrivateToX25519 derives the X25519 private scalar corresponding to
// an Ed25519 private key, per spec §4.2: the identity's DH form is derived
// deterministically from the Ed25519 form and never transmitted.
//
// This is the standard conversion used by, e.g., libsodium's
// crypto_sign_ed25519_sk_to_curve25519: clamp the low 32 bytes of
// SHA-512(seed).
func Ed25519PrivateToX25519(priv ed25519.PrivateKey) [X25519KeySize]byte {
	seed := priv.Seed()
	h := sha512.Sum512(seed)
	var out [X25519KeySize]byte
	copy(out[:], h[:X25519KeySize])
	ClampX25519(&out)
	return out
}

// Ed25519PublicToX25519 implements the full birational map from an Ed25519
// (Edwards) public point to its X25519 (Montgomery) form:
//
//	u = (1 + y) / (1 - y)  (mod 2^255 - 19)
//
// spec §9(a) flags that a "simplified map" is not acceptable; this is the
// complete conversion, not a reinterpretation of the point's raw bytes.
func Ed25519PublicToX25519(pub ed25519.PublicKey) ([X25519KeySize]byte, error) {
	var out [X25519KeySize]byte
	if len(pub) != ed25519.PublicKeySize {
		return out, ErrInvalidLength
	}

	y := decodeEdwardsY(pub)
	if y == nil {
		return out, ErrInvalidPoint
	}

	one := big.NewInt(1)
	numerator := new(big.Int).Add(one, y)
	numerator.Mod(numerator, edwardsP)

	denominator := new(big.Int).Sub(one, y)
	denominator.Mod(denominator, edwardsP)
	if denominator.Sign() == 0 {
		return out, ErrInvalidPoint
	}
	denominator.ModInverse(denominator, edwardsP)

	u := numerator.Mul(numerator, denominator)
	u.Mod(u, edwardsP)

	uBytes := u.Bytes()
	// big.Int.Bytes is big-endian and unpadded; the wire form is
	// little-endian and fixed-width.
	for i, b := range uBytes {
		out[len(uBytes)-1-i] = b
	}
	return out, nil
}

// decodeEdwardsY decodes the y-coordinate from a standard 32-byte Ed25519
// public key encoding (little-endian y with the top bit carrying the sign
// of x, which is irrelevant to the Montgomery u-coordinate).
func decodeEdwardsY(pub ed25519.PublicKey) *big.Int {
	buf := make([]byte, ed25519.PublicKeySize)
	copy(buf, pub)
	buf[31] &= 0x7F // clear the sign bit

	// Reverse to big-endian for big.Int.
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	y := new(big.Int).SetBytes(buf)
	if y.Cmp(edwardsP) >= 0 {
		return nil
	}
	return y
}
