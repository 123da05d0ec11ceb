package primitives

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestX25519DHAgreement(t *testing.T) {
	a, err := GenerateX25519KeyPair(nil)
	require.NoError(t, err)
	b, err := GenerateX25519KeyPair(nil)
	require.NoError(t, err)

	sharedA, err := X25519DH(a.Private, b.Public)
	require.NoError(t, err)
	sharedB, err := X25519DH(b.Private, a.Public)
	require.NoError(t, err)

	require.Equal(t, sharedA, sharedB)
}

func TestX25519DHRejectsZeroPoint(t *testing.T) {
	a, err := GenerateX25519KeyPair(nil)
	require.NoError(t, err)
	var zero [X25519KeySize]byte
	_, err = X25519DH(a.Private, zero)
	require.ErrorIs(t, err, ErrInvalidPoint)
}

func TestEd25519SignVerify(t *testing.T) {
	kp, err := GenerateEd25519KeyPair(nil)
	require.NoError(t, err)

	msg := []byte("styx handshake message")
	sig := Ed25519Sign(kp.Private, msg)
	require.True(t, Ed25519Verify(kp.Public, msg, sig))

	tampered := append([]byte(nil), msg...)
	tampered[0] ^= 0xFF
	require.False(t, Ed25519Verify(kp.Public, tampered, sig))
}

func TestEd25519ToX25519ConversionRoundTrips(t *testing.T) {
	kp, err := GenerateEd25519KeyPair(nil)
	require.NoError(t, err)

	xPriv := Ed25519PrivateToX25519(kp.Private)
	xPub, err := Ed25519PublicToX25519(kp.Public)
	require.NoError(t, err)

	derivedPub, err := X25519PublicFromPrivate(xPriv)
	require.NoError(t, err)
	require.Equal(t, xPub, derivedPub, "birational map of the public key must match scalar-mult of the derived private key")
}

func TestAeadRoundTrip(t *testing.T) {
	var key [AeadKeySize]byte
	copy(key[:], []byte("0123456789abcdef0123456789abcdef"))
	nonce, err := RandomNonce(nil)
	require.NoError(t, err)

	ad := []byte("associated-data")
	pt := []byte("the quick brown fox")

	ct, err := AeadEncrypt(key, nonce, ad, pt)
	require.NoError(t, err)

	got, err := AeadDecrypt(key, nonce, ad, ct)
	require.NoError(t, err)
	require.Equal(t, pt, got)

	ct[0] ^= 0xFF
	_, err = AeadDecrypt(key, nonce, ad, ct)
	require.ErrorIs(t, err, ErrInvalidTag)
}

func TestHkdfDeterministic(t *testing.T) {
	ikm := []byte("input key material")
	salt := []byte("salt")
	info := []byte("styx-test-v1")

	a, err := HkdfSha256(ikm, salt, info, 32)
	require.NoError(t, err)
	b, err := HkdfSha256(ikm, salt, info, 32)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCtEqual(t *testing.T) {
	require.True(t, CtEqual([]byte("abc"), []byte("abc")))
	require.False(t, CtEqual([]byte("abc"), []byte("abd")))
	require.False(t, CtEqual([]byte("abc"), []byte("ab")))
}
