package primitives

import (
	"crypto/ed25519"
)

const (
	// Ed25519PublicKeySize is the size in bytes of an Ed25519 public key.
	Ed25519PublicKeySize = ed25519.PublicKeySize
	// Ed25519PrivateKeySize is the size in bytes of an Ed25519 private key
	// (seed || public key, per the stdlib's representation).
	Ed25519PrivateKeySize = ed25519.PrivateKeySize
	// Ed25519SignatureSize is the size in bytes of an Ed25519 signature.
	Ed25519SignatureSize = ed25519.SignatureSize
)

// Ed25519KeyPair is an Ed25519 signing key pair.
type Ed25519KeyPair struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// GenerateEd25519KeyPair generates a new Ed25519 signing key pair using r
// (or DefaultRNG if r is nil).
func GenerateEd25519KeyPair(r RNG) (Ed25519KeyPair, error) {
	seed, err := randomBytes(r, ed25519.SeedSize)
	if err != nil {
		return Ed25519KeyPair{}, err
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return Ed25519KeyPair{
		Private: priv,
		Public:  priv.Public().(ed25519.PublicKey),
	}, nil
}

// Ed25519Sign signs msg with priv.
func Ed25519Sign(priv ed25519.PrivateKey, msg []byte) []byte {
	return ed25519.Sign(priv, msg)
}

// Ed25519Verify verifies sig over msg under pub. Verification is
// constant-time with respect to the signature's validity, per the stdlib
// implementation.
func Ed25519Verify(pub ed25519.PublicKey, msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, msg, sig)
}
