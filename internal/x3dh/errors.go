// Package x3dh implements the X3DH asynchronous key agreement (spec §4.3):
// the initiator computes a shared root secret from three or four DH
// combinations bound to both identities, producing the initial Double
// Ratchet bootstrap material plus a small handshake header.
package x3dh

import "errors"

var (
	// ErrPeerIdentityRejected is returned when a peer's signed-prekey
	// signature fails to verify under the peer's claimed identity key.
	ErrPeerIdentityRejected = errors.New("x3dh: peer identity rejected (signed prekey signature invalid)")
	// ErrNoSuchOneTimePrekey is returned by a responder asked to consume a
	// one-time prekey id it does not hold.
	ErrNoSuchOneTimePrekey = errors.New("x3dh: no such one-time prekey")
	// ErrPrekeySignatureInvalid is returned when a responder's own signed
	// prekey fails self-verification (a local invariant violation).
	ErrPrekeySignatureInvalid = errors.New("x3dh: prekey signature invalid")
)
