package envelope

import "github.com/jaydenbeard/styx-e2e/internal/primitives"

// CryptoBox is the wire shape of an authenticated box (spec §4.6): a
// random nonce plus the AEAD ciphertext. The sender's public key is not
// carried in the box itself; the recipient must already know who it is
// talking to (out-of-band), which is what distinguishes this from a
// SealedBox.
type CryptoBox struct {
	Nonce      [primitives.AeadNonceSize]byte
	Ciphertext []byte
}

// SealAuthenticated encrypts plaintext from senderPriv to recipientPub,
// per spec §4.6 "Crypto box". Unlike SealAnonymous, the key is tied to the
// sender's own static keypair, so the recipient can be sure of the
// sender's identity once it independently verifies senderPub out-of-band.
func SealAuthenticated(senderPriv [primitives.X25519KeySize]byte, recipientPub [primitives.X25519KeySize]byte, plaintext []byte, r primitives.RNG) (CryptoBox, error) {
	shared, err := primitives.X25519DH(senderPriv, recipientPub)
	if err != nil {
		return CryptoBox{}, err
	}
	key, err := cryptoBoxKey(shared)
	if err != nil {
		return CryptoBox{}, err
	}

	nonce, err := primitives.RandomNonce(r)
	if err != nil {
		return CryptoBox{}, err
	}

	ciphertext, err := primitives.AeadEncrypt(key, nonce, nil, plaintext)
	if err != nil {
		return CryptoBox{}, err
	}
	return CryptoBox{Nonce: nonce, Ciphertext: ciphertext}, nil
}

// OpenAuthenticated decrypts a CryptoBox known to have come from senderPub,
// using the recipient's own private key.
func OpenAuthenticated(recipientPriv [primitives.X25519KeySize]byte, senderPub [primitives.X25519KeySize]byte, box CryptoBox) ([]byte, error) {
	shared, err := primitives.X25519DH(recipientPriv, senderPub)
	if err != nil {
		return nil, err
	}
	key, err := cryptoBoxKey(shared)
	if err != nil {
		return nil, err
	}

	plaintext, err := primitives.AeadDecrypt(key, box.Nonce, nil, box.Ciphertext)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}

func cryptoBoxKey(shared [primitives.X25519KeySize]byte) ([primitives.AeadKeySize]byte, error) {
	var key [primitives.AeadKeySize]byte
	out, err := primitives.HkdfSha256(shared[:], nil, []byte("styx-cryptobox-v1"), primitives.AeadKeySize)
	if err != nil {
		return key, err
	}
	copy(key[:], out)
	return key, nil
}
