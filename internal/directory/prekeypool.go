package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jaydenbeard/styx-e2e/internal/keymaterial"
	"github.com/jaydenbeard/styx-e2e/internal/primitives"
)

// Pool is the one-time prekey reservation pool, backed by a Redis set per
// account (spec §3 "OneTimePrekey" lifecycle: a fetch must atomically
// remove the prekey it hands out so no two peers can ever be given the
// same one). Adapted from the teacher's RedisClient connection style
// (internal/pubsub/redis.go NewRedisClient); SPOP supplies the atomic
// pop that a plain SQL SELECT+DELETE could race on.
type Pool struct {
	client *redis.Client
}

// NewPool dials addr the same way the teacher's NewRedisClient does:
// optional password from REDIS_PASSWORD, a small fixed pool size.
func NewPool(addr string) (*Pool, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("directory: ping redis: %w", err)
	}

	return &Pool{client: client}, nil
}

// Close releases the underlying Redis connection.
func (p *Pool) Close() error {
	return p.client.Close()
}

type storedOneTimePrekey struct {
	ID        uint32                          `json:"id"`
	PublicKey [primitives.X25519KeySize]byte `json:"public_key"`
}

func otpKey(accountID string) string {
	return fmt.Sprintf("directory:otp:%s", accountID)
}

// Replenish adds a fresh batch of one-time prekey public halves to
// accountID's pool, per spec §4.2's replenishment flow. Only the public
// key and id travel to the directory; the private halves never leave the
// client.
func (p *Pool) Replenish(ctx context.Context, accountID string, prekeys []keymaterial.OneTimePrekey) error {
	members := make([]interface{}, 0, len(prekeys))
	for _, otp := range prekeys {
		entry := storedOneTimePrekey{ID: otp.ID, PublicKey: otp.KeyPair.Public}
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("directory: marshal one-time prekey: %w", err)
		}
		members = append(members, data)
	}
	if len(members) == 0 {
		return nil
	}
	if err := p.client.SAdd(ctx, otpKey(accountID), members...).Err(); err != nil {
		return fmt.Errorf("directory: replenish one-time prekeys: %w", err)
	}
	return nil
}

// Reserve atomically removes and returns one unused one-time prekey for
// accountID, or (nil, nil) if the pool is empty — a bundle fetch with no
// one-time prekey available still succeeds with DH1-DH3 only (spec §4.3).
func (p *Pool) Reserve(ctx context.Context, accountID string) (*storedOneTimePrekey, error) {
	data, err := p.client.SPop(ctx, otpKey(accountID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("directory: reserve one-time prekey: %w", err)
	}
	var entry storedOneTimePrekey
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("directory: decode one-time prekey: %w", err)
	}
	return &entry, nil
}

// Remaining reports how many one-time prekeys accountID has left. The HTTP
// API does not expose it.
func (p *Pool) Remaining(ctx context.Context, accountID string) (int64, error) {
	n, err := p.client.SCard(ctx, otpKey(accountID)).Result()
	if err != nil {
		return 0, fmt.Errorf("directory: count one-time prekeys: %w", err)
	}
	return n, nil
}
