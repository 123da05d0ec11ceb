package envelope

import (
	"testing"

	"github.com/jaydenbeard/styx-e2e/internal/primitives"
	"github.com/stretchr/testify/require"
)

func TestSealedBoxRoundTrip(t *testing.T) {
	recipient, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)

	box, err := SealAnonymous(recipient.Public, []byte("anonymous payload"), nil)
	require.NoError(t, err)

	pt, err := OpenAnonymous(recipient.Private, recipient.Public, box)
	require.NoError(t, err)
	require.Equal(t, "anonymous payload", string(pt))
}

func TestSealedBoxFailsForWrongRecipient(t *testing.T) {
	recipient, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)
	stranger, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)

	box, err := SealAnonymous(recipient.Public, []byte("secret"), nil)
	require.NoError(t, err)

	_, err = OpenAnonymous(stranger.Private, stranger.Public, box)
	require.ErrorIs(t, err, ErrOpenFailed)
}

func TestCryptoBoxRoundTrip(t *testing.T) {
	sender, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)
	recipient, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)

	box, err := SealAuthenticated(sender.Private, recipient.Public, []byte("authenticated payload"), nil)
	require.NoError(t, err)

	pt, err := OpenAuthenticated(recipient.Private, sender.Public, box)
	require.NoError(t, err)
	require.Equal(t, "authenticated payload", string(pt))
}

func TestCryptoBoxFailsWithWrongSenderKey(t *testing.T) {
	sender, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)
	impostor, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)
	recipient, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)

	box, err := SealAuthenticated(sender.Private, recipient.Public, []byte("payload"), nil)
	require.NoError(t, err)

	_, err = OpenAuthenticated(recipient.Private, impostor.Public, box)
	require.ErrorIs(t, err, ErrOpenFailed)
}
