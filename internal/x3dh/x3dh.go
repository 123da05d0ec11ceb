package x3dh

import (
	"github.com/jaydenbeard/styx-e2e/internal/config"
	"github.com/jaydenbeard/styx-e2e/internal/keymaterial"
	"github.com/jaydenbeard/styx-e2e/internal/primitives"
	"github.com/jaydenbeard/styx-e2e/internal/ratchet"
)

var zeroSalt [32]byte

// deriveRootKey combines the X3DH DH outputs into a single root key via
// HKDF-SHA-256 with a fixed zero salt and domain-separated info string,
// per spec §4.1, §4.3.
func deriveRootKey(dhOutputs ...[primitives.X25519KeySize]byte) ([32]byte, error) {
	ikm := make([]byte, 0, len(dhOutputs)*primitives.X25519KeySize)
	for _, dh := range dhOutputs {
		ikm = append(ikm, dh[:]...)
	}
	out, err := primitives.HkdfSha256(ikm, zeroSalt[:], []byte("styx-x3dh-v1"), 32)
	if err != nil {
		return [32]byte{}, err
	}
	var rootKey [32]byte
	copy(rootKey[:], out)
	return rootKey, nil
}

// FirstMessageAssociatedData returns the outer associated data that must be
// bound to a session's first AEAD call on both sides (spec §4.3, §6): the
// initiator's identity public key concatenated with the peer's. Every
// subsequent message on the session uses empty outer associated data.
func FirstMessageAssociatedData(initiatorIdentityPub, peerIdentityPub []byte) []byte {
	out := make([]byte, 0, len(initiatorIdentityPub)+len(peerIdentityPub))
	out = append(out, initiatorIdentityPub...)
	out = append(out, peerIdentityPub...)
	return out
}

// Initiate performs the initiator side of X3DH (spec §4.3 "initiate"): it
// verifies the peer's bundle, computes DH1-DH3 (and DH4 if the bundle
// carries a one-time prekey), derives the shared root key, and bootstraps
// a Double Ratchet session ready to send. The returned HandshakeHeader must
// be delivered to the responder alongside (or ahead of) the first ratchet
// message.
func Initiate(local keymaterial.Identity, peer keymaterial.Bundle, r primitives.RNG) (*ratchet.State, HandshakeHeader, error) {
	return InitiateWithConfig(local, peer, r, config.DefaultConfig())
}

// InitiateWithConfig is Initiate with an explicit Config, so an embedder
// that overrides the skipped-key cache caps gets a session that actually
// enforces them rather than the spec §4.4 defaults.
func InitiateWithConfig(local keymaterial.Identity, peer keymaterial.Bundle, r primitives.RNG, cfg config.Config) (*ratchet.State, HandshakeHeader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, HandshakeHeader{}, err
	}

	if !peer.Verify() {
		return nil, HandshakeHeader{}, ErrPeerIdentityRejected
	}

	peerIdentityDH, err := primitives.Ed25519PublicToX25519(peer.IdentityPub)
	if err != nil {
		return nil, HandshakeHeader{}, err
	}

	ephemeral, err := primitives.GenerateX25519KeyPair(r)
	if err != nil {
		return nil, HandshakeHeader{}, err
	}

	dh1, err := primitives.X25519DH(local.DHPrivate(), peer.SignedPrekeyPub)
	if err != nil {
		return nil, HandshakeHeader{}, err
	}
	dh2, err := primitives.X25519DH(ephemeral.Private, peerIdentityDH)
	if err != nil {
		return nil, HandshakeHeader{}, err
	}
	dh3, err := primitives.X25519DH(ephemeral.Private, peer.SignedPrekeyPub)
	if err != nil {
		return nil, HandshakeHeader{}, err
	}

	dhOutputs := [][primitives.X25519KeySize]byte{dh1, dh2, dh3}
	if peer.OneTimePrekey != nil {
		dh4, err := primitives.X25519DH(ephemeral.Private, *peer.OneTimePrekey)
		if err != nil {
			return nil, HandshakeHeader{}, err
		}
		dhOutputs = append(dhOutputs, dh4)
	}

	rootKey, err := deriveRootKey(dhOutputs...)
	if err != nil {
		return nil, HandshakeHeader{}, err
	}

	state, err := ratchet.NewInitiatorStateWithCaps(rootKey, ephemeral, peer.SignedPrekeyPub, cfg.MaxSkipPerChain, cfg.MaxSkipTotal)
	if err != nil {
		return nil, HandshakeHeader{}, err
	}

	header := HandshakeHeader{
		InitiatorIdentityPub: local.SigningPublic,
		EphemeralPub:         ephemeral.Public,
		OneTimePrekeyID:      peer.OneTimePrekeyID,
	}
	return state, header, nil
}

// Respond performs the responder side of X3DH (spec §4.3 "respond"): it
// recomputes DH1-DH3 (and DH4, consuming and destroying the referenced
// one-time prekey) from the handshake header and the responder's own key
// material, derives the same root key the initiator derived, and
// bootstraps a Double Ratchet session ready to receive the initiator's
// first message.
//
// oneTimePrekeys is consulted and mutated: the consumed entry's private
// key is zeroized in place so it cannot be reused, per the one-time
// prekey's single-use lifecycle (spec §3).
func Respond(local keymaterial.Identity, signedPrekey keymaterial.SignedPrekey, oneTimePrekeys map[uint32]*keymaterial.OneTimePrekey, header HandshakeHeader) (*ratchet.State, error) {
	return RespondWithConfig(local, signedPrekey, oneTimePrekeys, header, config.DefaultConfig())
}

// RespondWithConfig is Respond with an explicit Config; see InitiateWithConfig.
func RespondWithConfig(local keymaterial.Identity, signedPrekey keymaterial.SignedPrekey, oneTimePrekeys map[uint32]*keymaterial.OneTimePrekey, header HandshakeHeader, cfg config.Config) (*ratchet.State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !keymaterial.VerifySignedPrekey(local.SigningPublic, signedPrekey.KeyPair.Public, signedPrekey.Signature) {
		return nil, ErrPrekeySignatureInvalid
	}

	peerIdentityDH, err := primitives.Ed25519PublicToX25519(header.InitiatorIdentityPub)
	if err != nil {
		return nil, err
	}

	dh1, err := primitives.X25519DH(signedPrekey.KeyPair.Private, peerIdentityDH)
	if err != nil {
		return nil, err
	}
	dh2, err := primitives.X25519DH(local.DHPrivate(), header.EphemeralPub)
	if err != nil {
		return nil, err
	}
	dh3, err := primitives.X25519DH(signedPrekey.KeyPair.Private, header.EphemeralPub)
	if err != nil {
		return nil, err
	}

	dhOutputs := [][primitives.X25519KeySize]byte{dh1, dh2, dh3}
	if header.OneTimePrekeyID != nil {
		otp, ok := oneTimePrekeys[*header.OneTimePrekeyID]
		if !ok {
			return nil, ErrNoSuchOneTimePrekey
		}
		dh4, err := primitives.X25519DH(otp.KeyPair.Private, header.EphemeralPub)
		if err != nil {
			return nil, err
		}
		dhOutputs = append(dhOutputs, dh4)
		otp.Zeroize()
	}

	rootKey, err := deriveRootKey(dhOutputs...)
	if err != nil {
		return nil, err
	}

	return ratchet.NewResponderStateWithCaps(rootKey, signedPrekey.KeyPair, cfg.MaxSkipPerChain, cfg.MaxSkipTotal), nil
}
