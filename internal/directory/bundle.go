package directory

import (
	"context"
	"fmt"

	"github.com/jaydenbeard/styx-e2e/internal/keymaterial"
)

// Directory combines the relational account Store with the Redis-backed
// one-time-prekey Pool to implement spec §4.3's "fetch_bundle" operation
// end to end: look up the account's identity and current signed prekey,
// reserve (and thereby consume) one one-time prekey if any remain, and
// assemble the wire Bundle.
type Directory struct {
	Store *Store
	Pool  *Pool
}

// New wires a Store and Pool into a Directory.
func New(store *Store, pool *Pool) *Directory {
	return &Directory{Store: store, Pool: pool}
}

// FetchBundle assembles a PrekeyBundle for accountID, consuming one
// one-time prekey from its pool if available. The returned bundle is not
// itself verified — callers run keymaterial.Bundle.Verify before trusting
// it, per spec §4.3.
func (d *Directory) FetchBundle(ctx context.Context, accountID string) (keymaterial.Bundle, error) {
	row, err := d.Store.lookupAccount(ctx, accountID)
	if err != nil {
		return keymaterial.Bundle{}, err
	}

	bundle := keymaterial.Bundle{
		IdentityPub:     row.IdentityPub,
		SignedPrekeyID:  row.SignedPrekeyID,
		SignedPrekeyPub: row.SignedPrekeyPub,
		SignedPrekeySig: row.SignedPrekeySig,
	}

	otp, err := d.Pool.Reserve(ctx, accountID)
	if err != nil {
		return keymaterial.Bundle{}, fmt.Errorf("directory: fetch bundle: %w", err)
	}
	if otp != nil {
		id := otp.ID
		pub := otp.PublicKey
		bundle.OneTimePrekeyID = &id
		bundle.OneTimePrekey = &pub
	}

	return bundle, nil
}
