package ratchet

import (
	"github.com/jaydenbeard/styx-e2e/internal/primitives"
)

// DefaultMaxSkipPerChain and DefaultMaxSkipTotal are the skipped-message-key
// cache caps mandated by spec §4.4/§9(c): at most 1000 skipped keys may be
// retained for any single chain, and at most 1000 across the whole session,
// with insertion-order eviction once the total cap is reached.
const (
	DefaultMaxSkipPerChain = 1000
	DefaultMaxSkipTotal    = 1000
)

// State is a Double Ratchet session. Exactly one of three shapes holds at
// any time (spec §3 "SessionState"): freshly bootstrapped as an initiator
// (DHr and CKs known, CKr unknown until the peer replies), freshly
// bootstrapped as a responder (DHr and CKr unknown until the peer's first
// message arrives), or steady-state (all of DHr, CKs, CKr populated).
type State struct {
	dhSelf primitives.X25519KeyPair
	dhPeer *[primitives.X25519KeySize]byte

	rootKey [32]byte
	ckSend  *[32]byte
	ckRecv  *[32]byte

	ns uint32
	nr uint32
	pn uint32

	skipped *skipCache
}

// NewInitiatorState bootstraps the initiator ("Alice") side of a session
// per spec §4.3/§4.4: rootKey is the X3DH-derived shared secret, dhSelf is
// the ephemeral keypair generated during the handshake, and peerDHPub is
// the responder's signed prekey public key. The initiator's first sending
// chain is derived immediately, since Alice already knows Bob's public
// ratchet key; the receiving chain remains unset until Bob's first reply.
func NewInitiatorState(rootKey [32]byte, dhSelf primitives.X25519KeyPair, peerDHPub [primitives.X25519KeySize]byte) (*State, error) {
	return NewInitiatorStateWithCaps(rootKey, dhSelf, peerDHPub, DefaultMaxSkipPerChain, DefaultMaxSkipTotal)
}

// NewInitiatorStateWithCaps is NewInitiatorState with caller-supplied
// skipped-key cache caps, for embedders that override the spec §4.4
// defaults via their own configuration layer.
func NewInitiatorStateWithCaps(rootKey [32]byte, dhSelf primitives.X25519KeyPair, peerDHPub [primitives.X25519KeySize]byte, maxSkipPerChain, maxSkipTotal int) (*State, error) {
	s := &State{
		dhSelf:  dhSelf,
		dhPeer:  &peerDHPub,
		rootKey: rootKey,
		skipped: newSkipCache(maxSkipPerChain, maxSkipTotal),
	}

	dhOut, err := primitives.X25519DH(dhSelf.Private, peerDHPub)
	if err != nil {
		return nil, err
	}
	newRK, newCK := kdfRK(rootKey, dhOut)
	s.rootKey = newRK
	s.ckSend = &newCK
	return s, nil
}

// NewResponderState bootstraps the responder ("Bob") side of a session per
// spec §4.3/§4.4: rootKey is the X3DH-derived shared secret and dhSelf is
// Bob's own signed prekey keypair, reused as the initial ratchet keypair.
// Bob has no sending or receiving chain until Alice's first message
// triggers the first DH ratchet step inside Decrypt.
func NewResponderState(rootKey [32]byte, dhSelf primitives.X25519KeyPair) *State {
	return NewResponderStateWithCaps(rootKey, dhSelf, DefaultMaxSkipPerChain, DefaultMaxSkipTotal)
}

// NewResponderStateWithCaps is NewResponderState with caller-supplied
// skipped-key cache caps, for embedders that override the spec §4.4
// defaults via their own configuration layer.
func NewResponderStateWithCaps(rootKey [32]byte, dhSelf primitives.X25519KeyPair, maxSkipPerChain, maxSkipTotal int) *State {
	return &State{
		dhSelf:  dhSelf,
		rootKey: rootKey,
		skipped: newSkipCache(maxSkipPerChain, maxSkipTotal),
	}
}

// clone returns a deep copy of s, used so Decrypt can attempt a ratchet
// step and skipped-key derivation speculatively and only commit them once
// the message has been shown to authenticate (spec §7: a forged message
// must not mutate session state).
func (s *State) clone() *State {
	out := &State{
		dhSelf:  s.dhSelf,
		rootKey: s.rootKey,
		ns:      s.ns,
		nr:      s.nr,
		pn:      s.pn,
		skipped: s.skipped.clone(),
	}
	if s.dhPeer != nil {
		peer := *s.dhPeer
		out.dhPeer = &peer
	}
	if s.ckSend != nil {
		ck := *s.ckSend
		out.ckSend = &ck
	}
	if s.ckRecv != nil {
		ck := *s.ckRecv
		out.ckRecv = &ck
	}
	return out
}

// adopt replaces s's fields with other's, committing a speculative clone
// produced by Decrypt once a message has authenticated.
func (s *State) adopt(other *State) {
	*s = *other
}

// skipMessageKeys derives and caches message keys for chain positions
// [nr, upTo) on the current receiving chain, enforcing the per-chain skip
// cap (spec §4.4, §9(c)). extra accounts for chain positions the caller is
// about to touch beyond upTo without caching them (the final message key
// being decrypted counts against the same per-chain cap, spec §8 S4).
func (s *State) skipMessageKeys(upTo uint32, extra int) error {
	if s.ckRecv == nil {
		return nil
	}
	if upTo <= s.nr {
		return nil
	}
	count := int(upTo - s.nr)
	if s.skipped.wouldExceedPerChain(*s.dhPeer, count+extra) {
		return ErrTooManySkippedKeys
	}
	ck := *s.ckRecv
	for n := s.nr; n < upTo; n++ {
		nextCK, mk := kdfCK(ck)
		s.skipped.put(*s.dhPeer, n, mk)
		ck = nextCK
	}
	s.ckRecv = &ck
	s.nr = upTo
	return nil
}

// Zeroize best-effort wipes the session's key material (spec §7).
func (s *State) Zeroize() {
	primitives.Zeroize(s.dhSelf.Private[:])
	primitives.Zeroize(s.rootKey[:])
	if s.ckSend != nil {
		primitives.Zeroize(s.ckSend[:])
	}
	if s.ckRecv != nil {
		primitives.Zeroize(s.ckRecv[:])
	}
	s.skipped.zeroize()
}
