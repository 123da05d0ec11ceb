package x3dh

import (
	"testing"

	"github.com/jaydenbeard/styx-e2e/internal/keymaterial"
	"github.com/stretchr/testify/require"
)

func TestInitiateRespondAgreeOnRootKeyWithOneTimePrekey(t *testing.T) {
	alice, err := keymaterial.NewIdentity(nil)
	require.NoError(t, err)
	bob, err := keymaterial.NewIdentity(nil)
	require.NoError(t, err)

	bobSPK, err := keymaterial.GenerateSignedPrekey(bob, 1, nil)
	require.NoError(t, err)
	bobOTPs, err := keymaterial.GenerateOneTimePrekeys(1, 100, nil)
	require.NoError(t, err)
	otpByID := map[uint32]*keymaterial.OneTimePrekey{bobOTPs[0].ID: &bobOTPs[0]}

	bundle := keymaterial.BundleFrom(bob, bobSPK, &bobOTPs[0])
	require.True(t, bundle.Verify())

	aliceSession, header, err := Initiate(alice, bundle, nil)
	require.NoError(t, err)
	require.NotNil(t, header.OneTimePrekeyID)

	bobSession, err := Respond(bob, bobSPK, otpByID, header)
	require.NoError(t, err)

	// The one-time prekey must be destroyed on consumption (spec §3).
	var zero [32]byte
	require.Equal(t, zero, otpByID[*header.OneTimePrekeyID].KeyPair.Private)

	firstAD := FirstMessageAssociatedData(alice.SigningPublic, bob.SigningPublic)
	msg, err := aliceSession.Encrypt(nil, []byte("hello from alice"), firstAD)
	require.NoError(t, err)
	pt, err := bobSession.Decrypt(nil, msg, firstAD)
	require.NoError(t, err)
	require.Equal(t, "hello from alice", string(pt))

	reply, err := bobSession.Encrypt(nil, []byte("hello back"), nil)
	require.NoError(t, err)
	pt2, err := aliceSession.Decrypt(nil, reply, nil)
	require.NoError(t, err)
	require.Equal(t, "hello back", string(pt2))
}

func TestInitiateRespondAgreeOnRootKeyWithoutOneTimePrekey(t *testing.T) {
	alice, err := keymaterial.NewIdentity(nil)
	require.NoError(t, err)
	bob, err := keymaterial.NewIdentity(nil)
	require.NoError(t, err)

	bobSPK, err := keymaterial.GenerateSignedPrekey(bob, 1, nil)
	require.NoError(t, err)
	bundle := keymaterial.BundleFrom(bob, bobSPK, nil)

	aliceSession, header, err := Initiate(alice, bundle, nil)
	require.NoError(t, err)
	require.Nil(t, header.OneTimePrekeyID)

	bobSession, err := Respond(bob, bobSPK, nil, header)
	require.NoError(t, err)

	firstAD := FirstMessageAssociatedData(alice.SigningPublic, bob.SigningPublic)
	msg, err := aliceSession.Encrypt(nil, []byte("no prekey needed"), firstAD)
	require.NoError(t, err)
	pt, err := bobSession.Decrypt(nil, msg, firstAD)
	require.NoError(t, err)
	require.Equal(t, "no prekey needed", string(pt))
}

func TestInitiateRejectsTamperedBundleSignature(t *testing.T) {
	alice, err := keymaterial.NewIdentity(nil)
	require.NoError(t, err)
	bob, err := keymaterial.NewIdentity(nil)
	require.NoError(t, err)

	bobSPK, err := keymaterial.GenerateSignedPrekey(bob, 1, nil)
	require.NoError(t, err)
	bundle := keymaterial.BundleFrom(bob, bobSPK, nil)
	bundle.SignedPrekeyPub[0] ^= 0xFF

	_, _, err = Initiate(alice, bundle, nil)
	require.ErrorIs(t, err, ErrPeerIdentityRejected)
}

func TestRespondRejectsUnknownOneTimePrekeyID(t *testing.T) {
	alice, err := keymaterial.NewIdentity(nil)
	require.NoError(t, err)
	bob, err := keymaterial.NewIdentity(nil)
	require.NoError(t, err)

	bobSPK, err := keymaterial.GenerateSignedPrekey(bob, 1, nil)
	require.NoError(t, err)
	bobOTPs, err := keymaterial.GenerateOneTimePrekeys(1, 100, nil)
	require.NoError(t, err)
	bundle := keymaterial.BundleFrom(bob, bobSPK, &bobOTPs[0])

	_, header, err := Initiate(alice, bundle, nil)
	require.NoError(t, err)

	_, err = Respond(bob, bobSPK, map[uint32]*keymaterial.OneTimePrekey{}, header)
	require.ErrorIs(t, err, ErrNoSuchOneTimePrekey)
}

func TestHandshakeHeaderEncodeDecodeRoundTrip(t *testing.T) {
	alice, err := keymaterial.NewIdentity(nil)
	require.NoError(t, err)
	bob, err := keymaterial.NewIdentity(nil)
	require.NoError(t, err)
	bobSPK, err := keymaterial.GenerateSignedPrekey(bob, 1, nil)
	require.NoError(t, err)
	bundle := keymaterial.BundleFrom(bob, bobSPK, nil)

	_, header, err := Initiate(alice, bundle, nil)
	require.NoError(t, err)

	decoded, err := DecodeHandshakeHeader(header.Encode())
	require.NoError(t, err)
	require.Equal(t, header.InitiatorIdentityPub, decoded.InitiatorIdentityPub)
	require.Equal(t, header.EphemeralPub, decoded.EphemeralPub)
	require.Nil(t, decoded.OneTimePrekeyID)
}
