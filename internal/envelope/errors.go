// Package envelope implements the two stateless, single-shot encryption
// constructions spec §4.6 describes over the same X25519 + ChaCha20-Poly1305
// primitives the ratchet uses: sealed box (anonymous ephemeral sender to a
// static recipient) and crypto box (authenticated static sender to a static
// recipient).
package envelope

import "errors"

// ErrOpenFailed is returned when a sealed or crypto box fails to open,
// covering both a bad key and tampered ciphertext (spec §4.1 InvalidTag).
var ErrOpenFailed = errors.New("envelope: failed to open box")
