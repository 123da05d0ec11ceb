// Package keymaterial implements the long-term and medium-term key
// material spec §4.2 describes: identity keys, signed prekeys, one-time
// prekeys, prekey bundles, and the HD derivation that splits a seed into
// separated spending/viewing keypairs.
package keymaterial

import (
	"crypto/ed25519"

	"github.com/jaydenbeard/styx-e2e/internal/primitives"
)

// Identity is a user's long-term identity key: an Ed25519 signing pair plus
// its deterministically-derived X25519 (DH) form, per spec §3 "IdentityKey"
// and §4.2.
type Identity struct {
	SigningPrivate ed25519.PrivateKey
	SigningPublic  ed25519.PublicKey

	// dhPrivate/dhPublic are derived from SigningPrivate/SigningPublic via
	// the full Ed25519->X25519 birational map and are never transmitted on
	// their own; only SigningPublic travels the wire (spec §6 PrekeyBundle
	// "identity_pub").
	dhPrivate [primitives.X25519KeySize]byte
	dhPublic  [primitives.X25519KeySize]byte
}

// DHPrivate returns the identity's X25519 (Diffie-Hellman) private form.
func (id Identity) DHPrivate() [primitives.X25519KeySize]byte { return id.dhPrivate }

// DHPublic returns the identity's X25519 (Diffie-Hellman) public form.
func (id Identity) DHPublic() [primitives.X25519KeySize]byte { return id.dhPublic }

// NewIdentityFromSeed derives an identity from a 32-byte master seed, per
// spec §4.2: identity = HKDF(seed, info="styx-identity-v1", L=32), used as
// an Ed25519 seed; the X25519 DH form is derived by the birational map.
func NewIdentityFromSeed(seed [32]byte) (Identity, error) {
	material, err := primitives.HkdfSha256(seed[:], nil, []byte("styx-identity-v1"), ed25519.SeedSize)
	if err != nil {
		return Identity{}, err
	}
	priv := ed25519.NewKeyFromSeed(material)
	return identityFromEd25519(priv)
}

// NewIdentity generates a fresh identity from r (or DefaultRNG if r is nil).
// Rotation (spec §3) is an explicit re-enrollment: callers construct a new
// Identity and discard the old one; there is no in-place rotation here.
func NewIdentity(r primitives.RNG) (Identity, error) {
	kp, err := primitives.GenerateEd25519KeyPair(r)
	if err != nil {
		return Identity{}, err
	}
	return identityFromEd25519(kp.Private)
}

func identityFromEd25519(priv ed25519.PrivateKey) (Identity, error) {
	pub := priv.Public().(ed25519.PublicKey)
	dhPriv := primitives.Ed25519PrivateToX25519(priv)
	dhPub, err := primitives.Ed25519PublicToX25519(pub)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		SigningPrivate: priv,
		SigningPublic:  pub,
		dhPrivate:      dhPriv,
		dhPublic:       dhPub,
	}, nil
}

// Zeroize wipes the identity's private key material.
func (id *Identity) Zeroize() {
	primitives.Zeroize(id.SigningPrivate)
	primitives.Zeroize(id.dhPrivate[:])
}
