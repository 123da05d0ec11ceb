package ratchet

import "github.com/jaydenbeard/styx-e2e/internal/primitives"

// kdfRK implements the outer DH ratchet step (spec §4.4 "KDF_RK"):
// new_root_key, new_chain_key = HKDF-SHA-256(ikm=dh_out, salt=root_key,
// info="styx-rk-v1", L=64), split into two 32-byte halves.
func kdfRK(rootKey [32]byte, dhOut [32]byte) (newRootKey [32]byte, newChainKey [32]byte) {
	out, err := primitives.HkdfSha256(dhOut[:], rootKey[:], []byte("styx-rk-v1"), 64)
	if err != nil {
		// HKDF over fixed-size inputs with L=64 cannot fail (spec §4.1);
		// a failure here indicates a corrupted build, not recoverable state.
		panic("ratchet: kdfRK: " + err.Error())
	}
	copy(newRootKey[:], out[:32])
	copy(newChainKey[:], out[32:64])
	return
}

// dhRatchetReceive performs the responder-side outer ratchet step
// triggered by an incoming header whose DH public key differs from the
// currently known remote key (spec §4.4 "DH ratchet"). It closes out the
// old receiving chain, advances the root key twice (once to derive a new
// receiving chain from the remote's new key, once to derive a fresh
// sending chain from a newly generated local keypair), and updates DHs.
func (s *State) dhRatchetReceive(remoteDHPub [primitives.X25519KeySize]byte, r primitives.RNG) error {
	s.pn = s.ns
	s.ns = 0
	s.nr = 0
	s.dhPeer = &remoteDHPub

	dhOut, err := primitives.X25519DH(s.dhSelf.Private, remoteDHPub)
	if err != nil {
		return err
	}
	newRK, newCKr := kdfRK(s.rootKey, dhOut)
	s.rootKey = newRK
	s.ckRecv = &newCKr

	newSelf, err := primitives.GenerateX25519KeyPair(r)
	if err != nil {
		return err
	}
	s.dhSelf = newSelf

	dhOut2, err := primitives.X25519DH(s.dhSelf.Private, remoteDHPub)
	if err != nil {
		return err
	}
	newRK2, newCKs := kdfRK(s.rootKey, dhOut2)
	s.rootKey = newRK2
	s.ckSend = &newCKs
	return nil
}
