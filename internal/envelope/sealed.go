package envelope

import "github.com/jaydenbeard/styx-e2e/internal/primitives"

// SealedBox is the wire shape of a sealed-box message (spec §4.6): the
// sender's fresh ephemeral public key plus the AEAD ciphertext.
type SealedBox struct {
	EphemeralPub [primitives.X25519KeySize]byte
	Ciphertext   []byte
}

// SealAnonymous encrypts plaintext to recipientPub from a fresh, anonymous
// ephemeral keypair (spec §4.6 "Sealed box"). The sender's identity is not
// bound in any way; anyone who knows recipientPriv can open it but cannot
// learn who sent it.
func SealAnonymous(recipientPub [primitives.X25519KeySize]byte, plaintext []byte, r primitives.RNG) (SealedBox, error) {
	ephemeral, err := primitives.GenerateX25519KeyPair(r)
	if err != nil {
		return SealedBox{}, err
	}

	shared, err := primitives.X25519DH(ephemeral.Private, recipientPub)
	if err != nil {
		return SealedBox{}, err
	}
	key, err := sealedKey(shared)
	if err != nil {
		return SealedBox{}, err
	}

	nonce := sealedNonce(ephemeral.Public, recipientPub)
	ciphertext, err := primitives.AeadEncrypt(key, nonce, nil, plaintext)
	if err != nil {
		return SealedBox{}, err
	}

	return SealedBox{EphemeralPub: ephemeral.Public, Ciphertext: ciphertext}, nil
}

// OpenAnonymous decrypts a SealedBox addressed to recipientPriv/recipientPub.
func OpenAnonymous(recipientPriv, recipientPub [primitives.X25519KeySize]byte, box SealedBox) ([]byte, error) {
	shared, err := primitives.X25519DH(recipientPriv, box.EphemeralPub)
	if err != nil {
		return nil, err
	}
	key, err := sealedKey(shared)
	if err != nil {
		return nil, err
	}

	nonce := sealedNonce(box.EphemeralPub, recipientPub)
	plaintext, err := primitives.AeadDecrypt(key, nonce, nil, box.Ciphertext)
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}

func sealedKey(shared [primitives.X25519KeySize]byte) ([primitives.AeadKeySize]byte, error) {
	var key [primitives.AeadKeySize]byte
	out, err := primitives.HkdfSha256(shared[:], nil, []byte("styx-sealed-v1"), primitives.AeadKeySize)
	if err != nil {
		return key, err
	}
	copy(key[:], out)
	return key, nil
}

// sealedNonce derives a deterministic nonce from the (fresh) ephemeral
// public key and the recipient's public key, safe to reuse as a
// construction because the ephemeral key is never reused (spec §4.6).
func sealedNonce(ephemeralPub, recipientPub [primitives.X25519KeySize]byte) [primitives.AeadNonceSize]byte {
	digest := primitives.Sha256(ephemeralPub[:], recipientPub[:])
	var nonce [primitives.AeadNonceSize]byte
	copy(nonce[:], digest[:primitives.AeadNonceSize])
	return nonce
}
