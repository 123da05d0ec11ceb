package directory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errors returned by Auth, mirroring the teacher's AuthService sentinel
// style (internal/auth/auth.go).
var (
	ErrJWTSecretEmpty = errors.New("directory: JWT secret is empty")
	ErrJWTSecretWeak  = errors.New("directory: JWT secret must be at least 32 bytes")
	ErrTokenInvalid   = errors.New("directory: token is invalid or expired")
)

// Claims identifies the account a directory session token was issued to.
// Unlike the teacher's Claims (UserID + DeviceID for a chat session), a
// directory token only needs to identify which account may publish or
// rotate that account's own key material.
type Claims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// Auth issues and validates the bearer tokens that gate publish/rotate
// calls against the directory's HTTP API. Adapted from the teacher's
// AuthService JWT issuance (internal/auth/auth.go GenerateTokens/
// ValidateToken), dropping SMS verification, TOTP, and Redis-backed
// blacklisting: a prekey directory has no notion of a revocable chat
// session, only of "does this bearer token speak for this account".
type Auth struct {
	secret         []byte
	previousSecret []byte
	lock           sync.RWMutex
	accessTTL      time.Duration
}

// NewAuth validates secret's strength the same way the teacher's
// NewAuthService does (minimum length; a production deployment should
// also check entropy) and constructs an Auth issuing tokens with the
// given access-token lifetime.
func NewAuth(secret string, accessTTL time.Duration) (*Auth, error) {
	if secret == "" {
		return nil, ErrJWTSecretEmpty
	}
	if len(secret) < 32 {
		return nil, ErrJWTSecretWeak
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &Auth{secret: []byte(secret), accessTTL: accessTTL}, nil
}

// RotateSecret replaces the signing secret, retaining the old one for a
// grace period so in-flight tokens don't fail validation mid-rotation
// (spec §3 SignedPrekey grace window applies the same idea to prekeys;
// the teacher applies it to JWT secrets in RotateJWTSecret).
func (a *Auth) RotateSecret(newSecret string) error {
	if len(newSecret) < 32 {
		return ErrJWTSecretWeak
	}
	a.lock.Lock()
	defer a.lock.Unlock()
	a.previousSecret = a.secret
	a.secret = []byte(newSecret)
	return nil
}

// IssueToken mints a bearer token identifying accountID.
func (a *Auth) IssueToken(accountID string) (string, time.Time, error) {
	a.lock.RLock()
	secret := a.secret
	a.lock.RUnlock()

	expiresAt := time.Now().Add(a.accessTTL)
	claims := &Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("directory: sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken checks tokenString against the current secret, falling
// back to the previous secret if rotation happened recently, matching the
// teacher's dual-secret validation window (internal/auth/auth.go
// ValidateToken/validateTokenWithSecret).
func (a *Auth) ValidateToken(tokenString string) (*Claims, error) {
	a.lock.RLock()
	secret, previous := a.secret, a.previousSecret
	a.lock.RUnlock()

	claims, err := a.validateWithSecret(tokenString, secret)
	if err == nil {
		return claims, nil
	}
	if previous != nil {
		if claims, err2 := a.validateWithSecret(tokenString, previous); err2 == nil {
			return claims, nil
		}
	}
	return nil, ErrTokenInvalid
}

func (a *Auth) validateWithSecret(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("directory: unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
