// Package directory implements the prekey directory service described in
// SPEC_FULL.md's demo-layer section: a server that accounts publish their
// identity key, signed prekey, and a pool of one-time prekeys to, and that
// peers fetch a PrekeyBundle from in order to run X3DH (spec §4.3
// "fetch_bundle"). It is adapted from the teacher's internal/db.PostgresDB
// (internal/db/postgres.go) restricted to the account/key-material slice of
// that schema: no messages, groups, friendships, or device management.
package directory

import (
	"context"
	"crypto/ed25519"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/jaydenbeard/styx-e2e/internal/keymaterial"
	"github.com/jaydenbeard/styx-e2e/internal/primitives"
)

// ErrAccountNotFound is returned when a fetch or publish references an
// account id the store has no record of.
var ErrAccountNotFound = errors.New("directory: account not found")

// ErrNoSignedPrekey names the case of an account with no signed prekey.
// No function in this package returns it: PublishIdentity always stores a
// signed prekey, and the accounts table does not allow it to be absent.
var ErrNoSignedPrekey = errors.New("directory: account has no signed prekey")

// Store is the Postgres-backed account and prekey repository, mirroring
// the teacher's PostgresDB connection-pool tuning (internal/db/postgres.go
// NewPostgresDB).
type Store struct {
	db *sql.DB
}

// NewStore opens a connection pool against dsn and verifies it is
// reachable, matching the teacher's NewPostgresDB pooling parameters.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("directory: open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("directory: ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the account and signed-prekey tables if they do not
// already exist. One-time prekeys live in the Redis-backed Pool, not here,
// since they are consumed transactionally and do not need relational
// durability once replenished (see prekeypool.go).
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS directory_accounts (
			account_id       TEXT PRIMARY KEY,
			identity_pub     BYTEA NOT NULL,
			signed_prekey_id BIGINT NOT NULL,
			signed_prekey_pub BYTEA NOT NULL,
			signed_prekey_sig BYTEA NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

// PublishIdentity registers a new account's long-term identity key and
// initial signed prekey, or errors if the account already exists. This is
// the directory-side half of spec §4.2's key generation: the client
// generates the keys, the directory only ever stores and republishes
// public material.
func (s *Store) PublishIdentity(ctx context.Context, accountID string, identityPub ed25519.PublicKey, spk keymaterial.SignedPrekey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO directory_accounts (account_id, identity_pub, signed_prekey_id, signed_prekey_pub, signed_prekey_sig)
		VALUES ($1, $2, $3, $4, $5)
	`, accountID, []byte(identityPub), spk.ID, spk.KeyPair.Public[:], spk.Signature)
	if err != nil {
		return fmt.Errorf("directory: publish identity: %w", err)
	}
	return nil
}

// RotateSignedPrekey replaces an account's current signed prekey, per the
// SignedPrekey rotation lifecycle (spec §3). The caller must have already
// verified the new prekey's signature against the account's identity key
// before calling this.
func (s *Store) RotateSignedPrekey(ctx context.Context, accountID string, spk keymaterial.SignedPrekey) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE directory_accounts
		SET signed_prekey_id = $2, signed_prekey_pub = $3, signed_prekey_sig = $4, updated_at = now()
		WHERE account_id = $1
	`, accountID, spk.ID, spk.KeyPair.Public[:], spk.Signature)
	if err != nil {
		return fmt.Errorf("directory: rotate signed prekey: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// accountRow is the relational shape of an account's published identity
// and current signed prekey.
type accountRow struct {
	IdentityPub     ed25519.PublicKey
	SignedPrekeyID  uint32
	SignedPrekeyPub [primitives.X25519KeySize]byte
	SignedPrekeySig []byte
}

// lookupAccount fetches accountID's current identity/signed-prekey row.
func (s *Store) lookupAccount(ctx context.Context, accountID string) (accountRow, error) {
	var row accountRow
	var identityPub, spkPub []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT identity_pub, signed_prekey_id, signed_prekey_pub, signed_prekey_sig
		FROM directory_accounts WHERE account_id = $1
	`, accountID).Scan(&identityPub, &row.SignedPrekeyID, &spkPub, &row.SignedPrekeySig)
	if errors.Is(err, sql.ErrNoRows) {
		return accountRow{}, ErrAccountNotFound
	}
	if err != nil {
		return accountRow{}, fmt.Errorf("directory: lookup account: %w", err)
	}
	row.IdentityPub = identityPub
	copy(row.SignedPrekeyPub[:], spkPub)
	return row, nil
}
