// Package stealth implements deterministic stealth-address derivation and
// view-tag-accelerated recipient scanning (spec §4.5): a sender derives a
// one-time recipient address from a published meta-address and a fresh
// ephemeral keypair; the recipient rejects the overwhelming majority of
// announcements with a single hash comparison before doing any further
// work.
package stealth

import "errors"

// ErrInvalidMetaAddress names the case of a meta-address or announcement
// carrying a public key the curve rejects. No function in this package
// returns it: such a key surfaces as primitives.ErrInvalidPoint.
var ErrInvalidMetaAddress = errors.New("stealth: invalid meta-address or announcement key")
