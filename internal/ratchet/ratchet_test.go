package ratchet

import (
	"testing"

	"github.com/jaydenbeard/styx-e2e/internal/primitives"
	"github.com/stretchr/testify/require"
)

func newSessionPair(t *testing.T) (*State, *State) {
	t.Helper()

	aliceEphemeral, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)
	bobSignedPrekey, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)

	rootKey := primitives.Sha256([]byte("shared x3dh secret for tests"))

	alice, err := NewInitiatorState(rootKey, aliceEphemeral, bobSignedPrekey.Public)
	require.NoError(t, err)
	bob := NewResponderState(rootKey, bobSignedPrekey)

	return alice, bob
}

func TestHappyPathAlternatingMessages(t *testing.T) {
	alice, bob := newSessionPair(t)

	m1, err := alice.Encrypt(nil, []byte("hello bob"), nil)
	require.NoError(t, err)
	pt, err := bob.Decrypt(nil, m1, nil)
	require.NoError(t, err)
	require.Equal(t, "hello bob", string(pt))

	m2, err := bob.Encrypt(nil, []byte("hello alice"), nil)
	require.NoError(t, err)
	pt, err = alice.Decrypt(nil, m2, nil)
	require.NoError(t, err)
	require.Equal(t, "hello alice", string(pt))

	m3, err := alice.Encrypt(nil, []byte("second message"), nil)
	require.NoError(t, err)
	pt, err = bob.Decrypt(nil, m3, nil)
	require.NoError(t, err)
	require.Equal(t, "second message", string(pt))
}

func TestOutOfOrderDeliveryWithinAChain(t *testing.T) {
	alice, bob := newSessionPair(t)

	m1, err := alice.Encrypt(nil, []byte("one"), nil)
	require.NoError(t, err)
	m2, err := alice.Encrypt(nil, []byte("two"), nil)
	require.NoError(t, err)
	m3, err := alice.Encrypt(nil, []byte("three"), nil)
	require.NoError(t, err)

	pt3, err := bob.Decrypt(nil, m3, nil)
	require.NoError(t, err)
	require.Equal(t, "three", string(pt3))

	pt1, err := bob.Decrypt(nil, m1, nil)
	require.NoError(t, err)
	require.Equal(t, "one", string(pt1))

	pt2, err := bob.Decrypt(nil, m2, nil)
	require.NoError(t, err)
	require.Equal(t, "two", string(pt2))

	require.Empty(t, bob.skipped.order)
}

// TestDHRatchetAcrossReply reproduces the end-to-end scenario and exact
// settled counters from spec §8 S3: "hello" / "hi" / "how" / "are", with
// "are" delivered before "how", settling at Alice n_s=2,pn=1,n_r=1 and
// Bob n_s=1,pn=1,n_r=2.
func TestDHRatchetAcrossReply(t *testing.T) {
	alice, bob := newSessionPair(t)

	hello, err := alice.Encrypt(nil, []byte("hello"), nil)
	require.NoError(t, err)
	pt, err := bob.Decrypt(nil, hello, nil)
	require.NoError(t, err)
	require.Equal(t, "hello", string(pt))

	hi, err := bob.Encrypt(nil, []byte("hi"), nil)
	require.NoError(t, err)
	pt, err = alice.Decrypt(nil, hi, nil)
	require.NoError(t, err)
	require.Equal(t, "hi", string(pt))

	how, err := alice.Encrypt(nil, []byte("how"), nil)
	require.NoError(t, err)
	are, err := alice.Encrypt(nil, []byte("are"), nil)
	require.NoError(t, err)

	pt, err = bob.Decrypt(nil, are, nil)
	require.NoError(t, err)
	require.Equal(t, "are", string(pt))

	pt, err = bob.Decrypt(nil, how, nil)
	require.NoError(t, err)
	require.Equal(t, "how", string(pt))

	require.Equal(t, uint32(2), alice.ns)
	require.Equal(t, uint32(1), alice.pn)
	require.Equal(t, uint32(1), alice.nr)

	require.Equal(t, uint32(1), bob.ns)
	require.Equal(t, uint32(1), bob.pn)
	require.Equal(t, uint32(2), bob.nr)
}

func TestSkipCapExceededFails(t *testing.T) {
	alice, bob := newSessionPair(t)

	var last Message
	for i := 0; i < DefaultMaxSkipPerChain+1; i++ {
		msg, err := alice.Encrypt(nil, []byte("msg"), nil)
		require.NoError(t, err)
		last = msg
	}

	_, err := bob.Decrypt(nil, last, nil)
	require.ErrorIs(t, err, ErrTooManySkippedKeys)
}

func TestSkipCapExceededFailsEarlierWithSmallerConfiguredCap(t *testing.T) {
	aliceEphemeral, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)
	bobSignedPrekey, err := primitives.GenerateX25519KeyPair(nil)
	require.NoError(t, err)
	rootKey := primitives.Sha256([]byte("shared x3dh secret for a smaller cap"))

	const smallCap = 4
	alice, err := NewInitiatorStateWithCaps(rootKey, aliceEphemeral, bobSignedPrekey.Public, smallCap, smallCap)
	require.NoError(t, err)
	bob := NewResponderStateWithCaps(rootKey, bobSignedPrekey, smallCap, smallCap)

	var last Message
	for i := 0; i < smallCap+1; i++ {
		msg, err := alice.Encrypt(nil, []byte("msg"), nil)
		require.NoError(t, err)
		last = msg
	}

	_, err = bob.Decrypt(nil, last, nil)
	require.ErrorIs(t, err, ErrTooManySkippedKeys)
}

func TestForgedCiphertextDoesNotMutateState(t *testing.T) {
	alice, bob := newSessionPair(t)

	m1, err := alice.Encrypt(nil, []byte("genuine"), nil)
	require.NoError(t, err)

	forged := m1
	forged.Ciphertext = append([]byte(nil), m1.Ciphertext...)
	forged.Ciphertext[0] ^= 0xFF

	before := bob.Export()
	_, err = bob.Decrypt(nil, forged, nil)
	require.ErrorIs(t, err, ErrAeadAuthenticationFailed)
	after := bob.Export()
	require.Equal(t, before, after)

	pt, err := bob.Decrypt(nil, m1, nil)
	require.NoError(t, err)
	require.Equal(t, "genuine", string(pt))
}

func TestStateExportImportRoundTrip(t *testing.T) {
	alice, bob := newSessionPair(t)

	m1, err := alice.Encrypt(nil, []byte("hi"), nil)
	require.NoError(t, err)
	_, err = bob.Decrypt(nil, m1, nil)
	require.NoError(t, err)

	exported := alice.Export()
	restored, err := Import(exported, DefaultMaxSkipPerChain, DefaultMaxSkipTotal)
	require.NoError(t, err)
	require.True(t, alice.Equal(restored))

	m2, err := restored.Encrypt(nil, []byte("from restored"), nil)
	require.NoError(t, err)
	pt, err := bob.Decrypt(nil, m2, nil)
	require.NoError(t, err)
	require.Equal(t, "from restored", string(pt))
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	_, err := Import([]byte{0xFF}, DefaultMaxSkipPerChain, DefaultMaxSkipTotal)
	require.ErrorIs(t, err, ErrStateVersionUnsupported)
}

func TestAssociatedDataMismatchFailsAuthentication(t *testing.T) {
	alice, bob := newSessionPair(t)

	m1, err := alice.Encrypt(nil, []byte("bound to aad"), []byte("conversation-1"))
	require.NoError(t, err)

	_, err = bob.Decrypt(nil, m1, []byte("conversation-2"))
	require.ErrorIs(t, err, ErrAeadAuthenticationFailed)

	pt, err := bob.Decrypt(nil, m1, []byte("conversation-1"))
	require.NoError(t, err)
	require.Equal(t, "bound to aad", string(pt))
}
