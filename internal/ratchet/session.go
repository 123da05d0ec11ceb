package ratchet

import "github.com/jaydenbeard/styx-e2e/internal/primitives"

// Encrypt advances the sending chain by one step and seals plaintext under
// the resulting message key. The AEAD associated data is
// adOuter ‖ sender_dh_pub ‖ pn ‖ n (spec §6): adOuter is IK_init_pub ‖
// IK_peer_pub on a session's first message and empty thereafter.
func (s *State) Encrypt(r primitives.RNG, plaintext, adOuter []byte) (Message, error) {
	if s.ckSend == nil {
		return Message{}, ErrNoSendingChain
	}
	if s.ns == ^uint32(0) {
		return Message{}, ErrChainKeyExhausted
	}
	nextCK, mk := kdfCK(*s.ckSend)

	header := Header{DHPub: s.dhSelf.Public, PN: s.pn, N: s.ns}
	nonce, err := primitives.RandomNonce(r)
	if err != nil {
		return Message{}, err
	}
	associated := append(append([]byte{}, adOuter...), header.encode()...)
	ciphertext, err := primitives.AeadEncrypt(mk, nonce, associated, plaintext)
	primitives.Zeroize(mk[:])
	if err != nil {
		return Message{}, err
	}

	s.ckSend = &nextCK
	s.ns++
	return Message{Header: header, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// Decrypt authenticates and opens an incoming message, transparently
// performing a DH ratchet step and/or skipped-key derivation as needed for
// out-of-order or post-ratchet delivery (spec §4.4). All work happens on a
// cloned state and is committed only once the ciphertext has authenticated
// (spec §7): a forged message leaves the session exactly as it was. adOuter
// must match the value the sender bound (empty for all but a session's
// first message).
func (s *State) Decrypt(r primitives.RNG, msg Message, adOuter []byte) ([]byte, error) {
	associated := append(append([]byte{}, adOuter...), msg.Header.encode()...)

	if mk, ok := s.skipped.entries[skipKey{dh: msg.Header.DHPub, n: msg.Header.N}]; ok {
		pt, err := primitives.AeadDecrypt(mk, msg.Nonce, associated, msg.Ciphertext)
		if err != nil {
			// Leave the cached key in place: a forged message referencing a
			// genuine skipped key must not consume it (spec §7).
			return nil, ErrAeadAuthenticationFailed
		}
		s.skipped.take(msg.Header.DHPub, msg.Header.N)
		primitives.Zeroize(mk[:])
		return pt, nil
	}

	work := s.clone()

	needsRatchet := work.dhPeer == nil || msg.Header.DHPub != *work.dhPeer
	if needsRatchet {
		if work.ckRecv != nil {
			if err := work.skipMessageKeys(msg.Header.PN, 0); err != nil {
				return nil, err
			}
		}
		if err := work.dhRatchetReceive(msg.Header.DHPub, r); err != nil {
			return nil, err
		}
	}

	if err := work.skipMessageKeys(msg.Header.N, 1); err != nil {
		return nil, err
	}

	nextCK, mk := kdfCK(*work.ckRecv)
	pt, err := primitives.AeadDecrypt(mk, msg.Nonce, associated, msg.Ciphertext)
	primitives.Zeroize(mk[:])
	if err != nil {
		return nil, ErrAeadAuthenticationFailed
	}

	work.ckRecv = &nextCK
	work.nr = msg.Header.N + 1
	s.adopt(work)
	return pt, nil
}
