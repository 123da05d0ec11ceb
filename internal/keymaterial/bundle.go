package keymaterial

import (
	"crypto/ed25519"

	"github.com/jaydenbeard/styx-e2e/internal/primitives"
)

// Bundle is the wire shape of a PrekeyBundle, per spec §3 and §6. It is
// assembled by the directory per fetch; a one-time prekey, if present, is
// consumed on fetch by the directory (not by this package, which only
// carries the shape).
type Bundle struct {
	IdentityPub     ed25519.PublicKey
	SignedPrekeyID  uint32
	SignedPrekeyPub [primitives.X25519KeySize]byte
	SignedPrekeySig []byte
	OneTimePrekeyID *uint32
	OneTimePrekey   *[primitives.X25519KeySize]byte
}

// BundleFrom assembles a wire Bundle from an Identity, its current
// SignedPrekey, and an optional OneTimePrekey.
func BundleFrom(id Identity, spk SignedPrekey, otp *OneTimePrekey) Bundle {
	b := Bundle{
		IdentityPub:     id.SigningPublic,
		SignedPrekeyID:  spk.ID,
		SignedPrekeyPub: spk.KeyPair.Public,
		SignedPrekeySig: spk.Signature,
	}
	if otp != nil {
		id := otp.ID
		pub := otp.KeyPair.Public
		b.OneTimePrekeyID = &id
		b.OneTimePrekey = &pub
	}
	return b
}

// Verify checks the signed-prekey signature embedded in the bundle against
// its own identity public key, per spec §4.3: "Signed-prekey signature
// must verify under the identity key before use".
func (b Bundle) Verify() bool {
	return VerifySignedPrekey(b.IdentityPub, b.SignedPrekeyPub, b.SignedPrekeySig)
}

// Encode serializes b into the exact wire shape from spec §6
// "PrekeyBundle (wire)".
func (b Bundle) Encode() []byte {
	out := make([]byte, 0, 32+4+32+64+1)
	out = append(out, b.IdentityPub...)
	out = primitives.PutUint32BE(out, b.SignedPrekeyID)
	out = append(out, b.SignedPrekeyPub[:]...)
	out = append(out, b.SignedPrekeySig...)
	if b.OneTimePrekeyID != nil && b.OneTimePrekey != nil {
		out = append(out, 1)
		out = primitives.PutUint32BE(out, *b.OneTimePrekeyID)
		out = append(out, b.OneTimePrekey[:]...)
	} else {
		out = append(out, 0)
	}
	return out
}

// DecodeBundle parses the wire shape produced by Encode.
func DecodeBundle(data []byte) (Bundle, error) {
	const fixedLen = 32 + 4 + 32 + 64 + 1
	if len(data) < fixedLen {
		return Bundle{}, primitives.ErrInvalidLength
	}
	var b Bundle
	off := 0
	b.IdentityPub = append(ed25519.PublicKey(nil), data[off:off+32]...)
	off += 32

	spkID, err := primitives.Uint32BE(data[off:])
	if err != nil {
		return Bundle{}, err
	}
	b.SignedPrekeyID = spkID
	off += 4

	copy(b.SignedPrekeyPub[:], data[off:off+32])
	off += 32

	b.SignedPrekeySig = append([]byte(nil), data[off:off+64]...)
	off += 64

	opkPresent := data[off]
	off++

	if opkPresent == 1 {
		if len(data) < off+4+32 {
			return Bundle{}, primitives.ErrInvalidLength
		}
		opkID, err := primitives.Uint32BE(data[off:])
		if err != nil {
			return Bundle{}, err
		}
		off += 4
		var opkPub [primitives.X25519KeySize]byte
		copy(opkPub[:], data[off:off+32])
		b.OneTimePrekeyID = &opkID
		b.OneTimePrekey = &opkPub
	} else if opkPresent != 0 {
		return Bundle{}, primitives.ErrInvalidLength
	}

	return b, nil
}
