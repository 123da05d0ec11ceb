package ratchet

import "github.com/jaydenbeard/styx-e2e/internal/primitives"

// kdfCK implements the inner symmetric chain ratchet step (spec §4.4
// "KDF_CK"): the message key is HMAC-SHA-256(chain_key, 0x01) and the next
// chain key is HMAC-SHA-256(chain_key, 0x02), so compromising a message
// key never reveals the chain key it came from (forward secrecy within a
// chain, spec §8 property 5).
func kdfCK(chainKey [32]byte) (nextChainKey [32]byte, messageKey [32]byte) {
	messageKey = primitives.HmacSha256(chainKey[:], []byte{0x01})
	nextChainKey = primitives.HmacSha256(chainKey[:], []byte{0x02})
	return
}
