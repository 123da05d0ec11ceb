package keymaterial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIdentityFromSeedIsDeterministic(t *testing.T) {
	var seed [32]byte
	copy(seed[:], []byte("a 32 byte master seed for alice"))

	a, err := NewIdentityFromSeed(seed)
	require.NoError(t, err)
	b, err := NewIdentityFromSeed(seed)
	require.NoError(t, err)

	require.Equal(t, a.SigningPublic, b.SigningPublic)
	require.Equal(t, a.DHPublic(), b.DHPublic())
}

func TestSignedPrekeySignatureVerifies(t *testing.T) {
	id, err := NewIdentity(nil)
	require.NoError(t, err)

	spk, err := GenerateSignedPrekey(id, 1, nil)
	require.NoError(t, err)

	require.True(t, VerifySignedPrekey(id.SigningPublic, spk.KeyPair.Public, spk.Signature))

	tampered := spk.KeyPair.Public
	tampered[0] ^= 0xFF
	require.False(t, VerifySignedPrekey(id.SigningPublic, tampered, spk.Signature))
}

func TestBundleEncodeDecodeRoundTripWithOneTimePrekey(t *testing.T) {
	id, err := NewIdentity(nil)
	require.NoError(t, err)
	spk, err := GenerateSignedPrekey(id, 7, nil)
	require.NoError(t, err)
	otps, err := GenerateOneTimePrekeys(1, 100, nil)
	require.NoError(t, err)

	b := BundleFrom(id, spk, &otps[0])
	require.True(t, b.Verify())

	encoded := b.Encode()
	decoded, err := DecodeBundle(encoded)
	require.NoError(t, err)

	require.Equal(t, b.IdentityPub, decoded.IdentityPub)
	require.Equal(t, b.SignedPrekeyID, decoded.SignedPrekeyID)
	require.Equal(t, b.SignedPrekeyPub, decoded.SignedPrekeyPub)
	require.Equal(t, b.SignedPrekeySig, decoded.SignedPrekeySig)
	require.NotNil(t, decoded.OneTimePrekeyID)
	require.Equal(t, *b.OneTimePrekeyID, *decoded.OneTimePrekeyID)
	require.Equal(t, *b.OneTimePrekey, *decoded.OneTimePrekey)
	require.True(t, decoded.Verify())
}

func TestBundleEncodeDecodeRoundTripWithoutOneTimePrekey(t *testing.T) {
	id, err := NewIdentity(nil)
	require.NoError(t, err)
	spk, err := GenerateSignedPrekey(id, 1, nil)
	require.NoError(t, err)

	b := BundleFrom(id, spk, nil)
	decoded, err := DecodeBundle(b.Encode())
	require.NoError(t, err)
	require.Nil(t, decoded.OneTimePrekeyID)
	require.Nil(t, decoded.OneTimePrekey)
}

func TestDeriveMetaKeysIndependence(t *testing.T) {
	var seed [32]byte
	copy(seed[:], []byte("another 32 byte master seed yes"))

	meta, err := DeriveMetaKeys(seed)
	require.NoError(t, err)
	require.NotEqual(t, meta.Spending.Private, meta.Viewing.Private)

	meta2, err := DeriveMetaKeys(seed)
	require.NoError(t, err)
	require.Equal(t, meta.Address(), meta2.Address())
}
