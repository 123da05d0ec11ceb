package primitives

import (
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// AeadKeySize is the size in bytes of a ChaCha20-Poly1305 key.
	AeadKeySize = chacha20poly1305.KeySize
	// AeadNonceSize is the size in bytes of a ChaCha20-Poly1305 nonce, per
	// spec §6's 12-byte "nonce" framing field.
	AeadNonceSize = chacha20poly1305.NonceSize
	// AeadTagSize is the size in bytes of the ChaCha20-Poly1305
	// authentication tag appended to every ciphertext.
	AeadTagSize = 16
)

// AeadEncrypt encrypts plaintext under key with nonce and associated data
// ad, returning ciphertext with the 16-byte authentication tag appended.
func AeadEncrypt(key [AeadKeySize]byte, nonce [AeadNonceSize]byte, ad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, ErrInvalidLength
	}
	return aead.Seal(nil, nonce[:], plaintext, ad), nil
}

// AeadDecrypt decrypts ciphertext (with its trailing tag) under key with
// nonce and associated data ad, returning ErrInvalidTag on authentication
// failure.
func AeadDecrypt(key [AeadKeySize]byte, nonce [AeadNonceSize]byte, ad, ciphertext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, ErrInvalidLength
	}
	plaintext, err := aead.Open(nil, nonce[:], ciphertext, ad)
	if err != nil {
		return nil, ErrInvalidTag
	}
	return plaintext, nil
}

// RandomNonce draws a fresh AEAD nonce from r (or DefaultRNG if r is nil).
func RandomNonce(r RNG) ([AeadNonceSize]byte, error) {
	var nonce [AeadNonceSize]byte
	buf, err := randomBytes(r, AeadNonceSize)
	if err != nil {
		return nonce, err
	}
	copy(nonce[:], buf)
	return nonce, nil
}
