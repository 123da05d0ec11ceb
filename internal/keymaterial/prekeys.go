package keymaterial

import (
	"time"

	"github.com/jaydenbeard/styx-e2e/internal/primitives"
)

// SignedPrekey is a medium-term X25519 keypair signed by an Identity, per
// spec §3 "SignedPrekey". Ids are assigned by the caller and must be
// monotonically non-decreasing per identity.
type SignedPrekey struct {
	ID        uint32
	KeyPair   primitives.X25519KeyPair
	Signature []byte // Ed25519 signature over KeyPair.Public by the owning Identity.
	CreatedAt time.Time
}

// OneTimePrekey is a single-use X25519 keypair, per spec §3
// "OneTimePrekey". The private half must be destroyed the first time a
// responder consumes it (spec §3 lifecycle).
type OneTimePrekey struct {
	ID      uint32
	KeyPair primitives.X25519KeyPair
}

// GenerateSignedPrekey generates a fresh X25519 keypair and signs its
// public half with id's signing key, per spec §4.2
// "generate_signed_prekey".
func GenerateSignedPrekey(id Identity, keyID uint32, r primitives.RNG) (SignedPrekey, error) {
	kp, err := primitives.GenerateX25519KeyPair(r)
	if err != nil {
		return SignedPrekey{}, err
	}
	sig := primitives.Ed25519Sign(id.SigningPrivate, kp.Public[:])
	return SignedPrekey{
		ID:        keyID,
		KeyPair:   kp,
		Signature: sig,
		CreatedAt: time.Now(),
	}, nil
}

// VerifySignedPrekey checks that sig is a valid Ed25519 signature over pub
// under the identity's signing key. Callers must verify this before
// trusting a SignedPrekey fetched from a directory (spec §4.3).
func VerifySignedPrekey(identityPub []byte, pub [primitives.X25519KeySize]byte, sig []byte) bool {
	return primitives.Ed25519Verify(identityPub, pub[:], sig)
}

// GenerateOneTimePrekeys generates n fresh X25519 keypairs with ids
// assigned from startID, startID+1, ..., per spec §4.2
// "generate_one_time_prekeys".
func GenerateOneTimePrekeys(n int, startID uint32, r primitives.RNG) ([]OneTimePrekey, error) {
	out := make([]OneTimePrekey, 0, n)
	for i := 0; i < n; i++ {
		kp, err := primitives.GenerateX25519KeyPair(r)
		if err != nil {
			return nil, err
		}
		out = append(out, OneTimePrekey{ID: startID + uint32(i), KeyPair: kp})
	}
	return out, nil
}

// Zeroize wipes a SignedPrekey's private key material.
func (s *SignedPrekey) Zeroize() {
	primitives.Zeroize(s.KeyPair.Private[:])
}

// Zeroize wipes a OneTimePrekey's private key material. Callers must call
// this the first time the key is consumed (spec §3 lifecycle).
func (o *OneTimePrekey) Zeroize() {
	primitives.Zeroize(o.KeyPair.Private[:])
}
