package keymaterial

import "github.com/jaydenbeard/styx-e2e/internal/primitives"

// MetaKeys holds the spending and viewing X25519 keypairs derived from a
// single seed, per spec §4.2. The two derivations are independent so a
// viewing key can be delegated to a scanning service without granting
// spend authority (spec §4.2).
type MetaKeys struct {
	Spending primitives.X25519KeyPair
	Viewing  primitives.X25519KeyPair
}

// DeriveMetaKeys derives the spending and viewing keypairs from a 32-byte
// master seed:
//
//	spending = HKDF(seed, info="styx-spending-v1", L=32)
//	viewing  = HKDF(seed, info="styx-viewing-v1",  L=32)
func DeriveMetaKeys(seed [32]byte) (MetaKeys, error) {
	spendingPriv, err := primitives.HkdfSha256(seed[:], nil, []byte("styx-spending-v1"), primitives.X25519KeySize)
	if err != nil {
		return MetaKeys{}, err
	}
	viewingPriv, err := primitives.HkdfSha256(seed[:], nil, []byte("styx-viewing-v1"), primitives.X25519KeySize)
	if err != nil {
		return MetaKeys{}, err
	}

	spending, err := keyPairFromScalar(spendingPriv)
	if err != nil {
		return MetaKeys{}, err
	}
	viewing, err := keyPairFromScalar(viewingPriv)
	if err != nil {
		return MetaKeys{}, err
	}

	return MetaKeys{Spending: spending, Viewing: viewing}, nil
}

func keyPairFromScalar(scalar []byte) (primitives.X25519KeyPair, error) {
	var kp primitives.X25519KeyPair
	copy(kp.Private[:], scalar)
	primitives.ClampX25519(&kp.Private)
	pub, err := primitives.X25519PublicFromPrivate(kp.Private)
	if err != nil {
		return kp, err
	}
	kp.Public = pub
	return kp, nil
}

// MetaAddress is the long-lived, publishable (spending_pub, viewing_pub)
// pair recipients publish for stealth payments (spec §3
// "StealthMetaAddress").
type MetaAddress struct {
	SpendingPub [primitives.X25519KeySize]byte
	ViewingPub  [primitives.X25519KeySize]byte
}

// Address returns the publishable meta-address for a derived MetaKeys.
func (m MetaKeys) Address() MetaAddress {
	return MetaAddress{SpendingPub: m.Spending.Public, ViewingPub: m.Viewing.Public}
}
