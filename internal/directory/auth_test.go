package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewAuthRejectsWeakSecrets(t *testing.T) {
	_, err := NewAuth("", time.Minute)
	require.ErrorIs(t, err, ErrJWTSecretEmpty)

	_, err = NewAuth("too-short", time.Minute)
	require.ErrorIs(t, err, ErrJWTSecretWeak)
}

func TestIssueAndValidateTokenRoundTrip(t *testing.T) {
	auth, err := NewAuth("a secret long enough to pass validation!!", time.Minute)
	require.NoError(t, err)

	token, expiresAt, err := auth.IssueToken("account-1")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 2*time.Second)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "account-1", claims.AccountID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	auth, err := NewAuth("a secret long enough to pass validation!!", time.Minute)
	require.NoError(t, err)

	_, err = auth.ValidateToken("not-a-jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenSurvivesRotationDuringGraceWindow(t *testing.T) {
	auth, err := NewAuth("the original secret long enough to pass!!", time.Minute)
	require.NoError(t, err)

	token, _, err := auth.IssueToken("account-1")
	require.NoError(t, err)

	require.NoError(t, auth.RotateSecret("a brand new secret also long enough!!!"))

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "account-1", claims.AccountID)

	newToken, _, err := auth.IssueToken("account-2")
	require.NoError(t, err)
	claims, err = auth.ValidateToken(newToken)
	require.NoError(t, err)
	require.Equal(t, "account-2", claims.AccountID)
}

func TestRotateSecretRejectsWeakReplacement(t *testing.T) {
	auth, err := NewAuth("a secret long enough to pass validation!!", time.Minute)
	require.NoError(t, err)

	require.ErrorIs(t, auth.RotateSecret("short"), ErrJWTSecretWeak)
}
