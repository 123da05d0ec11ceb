package stealth

import (
	"github.com/jaydenbeard/styx-e2e/internal/keymaterial"
	"github.com/jaydenbeard/styx-e2e/internal/primitives"
)

// Announcement is the wire shape a sender publishes per payment (spec §6
// "Stealth announcement (wire)"): the sender's fresh ephemeral public key,
// a one-byte view tag letting recipients reject non-matches cheaply, and
// the derived one-time recipient address.
type Announcement struct {
	EphemeralPub   [primitives.X25519KeySize]byte
	ViewTag        byte
	OneTimeAddress [primitives.X25519KeySize]byte
}

// Encode serializes a into the exact wire shape from spec §6.
func (a Announcement) Encode() []byte {
	out := make([]byte, 0, primitives.X25519KeySize+1+primitives.X25519KeySize)
	out = append(out, a.EphemeralPub[:]...)
	out = append(out, a.ViewTag)
	out = append(out, a.OneTimeAddress[:]...)
	return out
}

// DecodeAnnouncement parses the wire shape produced by Encode.
func DecodeAnnouncement(data []byte) (Announcement, error) {
	const wantLen = primitives.X25519KeySize + 1 + primitives.X25519KeySize
	if len(data) != wantLen {
		return Announcement{}, primitives.ErrInvalidLength
	}
	var a Announcement
	copy(a.EphemeralPub[:], data[:32])
	a.ViewTag = data[32]
	copy(a.OneTimeAddress[:], data[33:65])
	return a, nil
}

func viewTag(shared [primitives.X25519KeySize]byte) byte {
	digest := primitives.Sha256([]byte("styx-viewtag-v1"), shared[:])
	return digest[0]
}

func stealthSeed(spendingPub, shared [primitives.X25519KeySize]byte) [32]byte {
	return primitives.Sha256([]byte("styx-stealth-v1"), spendingPub[:], shared[:])
}

// oneTimeKeyPairFromSeed derives the deterministic one-time recipient
// keypair from a stealth seed: the seed is clamped and used directly as an
// X25519 private scalar (spec §4.5 step 4).
func oneTimeKeyPairFromSeed(seed [32]byte) (primitives.X25519KeyPair, error) {
	var kp primitives.X25519KeyPair
	kp.Private = seed
	primitives.ClampX25519(&kp.Private)
	pub, err := primitives.X25519PublicFromPrivate(kp.Private)
	if err != nil {
		return kp, err
	}
	kp.Public = pub
	return kp, nil
}

// Generate derives a fresh stealth announcement addressed to recipient,
// per spec §4.5 steps 1-5.
func Generate(recipient keymaterial.MetaAddress, r primitives.RNG) (Announcement, error) {
	ephemeral, err := primitives.GenerateX25519KeyPair(r)
	if err != nil {
		return Announcement{}, err
	}

	shared, err := primitives.X25519DH(ephemeral.Private, recipient.ViewingPub)
	if err != nil {
		return Announcement{}, err
	}

	seed := stealthSeed(recipient.SpendingPub, shared)
	oneTime, err := oneTimeKeyPairFromSeed(seed)
	if err != nil {
		return Announcement{}, err
	}

	return Announcement{
		EphemeralPub:   ephemeral.Public,
		ViewTag:        viewTag(shared),
		OneTimeAddress: oneTime.Public,
	}, nil
}

// Scan checks whether ann is addressed to the recipient holding viewingPriv
// and spendingPub, per spec §4.5 "Scan". It rejects on the view tag alone
// whenever possible — the cheap path that handles the overwhelming majority
// of a scanning batch.
func Scan(viewingPriv, spendingPub [primitives.X25519KeySize]byte, ann Announcement) (bool, error) {
	shared, err := primitives.X25519DH(viewingPriv, ann.EphemeralPub)
	if err != nil {
		return false, err
	}

	if viewTag(shared) != ann.ViewTag {
		return false, nil
	}

	seed := stealthSeed(spendingPub, shared)
	candidate, err := oneTimeKeyPairFromSeed(seed)
	if err != nil {
		return false, err
	}

	return primitives.CtEqual(candidate.Public[:], ann.OneTimeAddress[:]), nil
}

// DeriveOneTimePrivateKey recomputes the private half of a matched
// announcement's one-time address, per spec §4.5 step 3 ("the recipient
// may locally derive the matching private key ... to spend").
//
// It needs only viewingPriv and the public spendingPub, never the spending
// private key, so whoever holds viewingPriv can derive the spendable
// one-time key of every matched announcement: viewingPriv carries the same
// trust as the spending key itself for these payments.
func DeriveOneTimePrivateKey(viewingPriv, spendingPub [primitives.X25519KeySize]byte, ann Announcement) ([primitives.X25519KeySize]byte, error) {
	shared, err := primitives.X25519DH(viewingPriv, ann.EphemeralPub)
	if err != nil {
		return [primitives.X25519KeySize]byte{}, err
	}
	seed := stealthSeed(spendingPub, shared)
	kp, err := oneTimeKeyPairFromSeed(seed)
	if err != nil {
		return [primitives.X25519KeySize]byte{}, err
	}
	return kp.Private, nil
}
